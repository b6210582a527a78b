package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/arloliu/go-rgpio/sbc"
	"github.com/arloliu/go-rgpio/session"
)

func loadConfig(c *cli.Context) (*session.ConnectionConfig, error) {
	opts := []session.ConnOption{
		session.WithAddress(c.GlobalString("host"), c.GlobalInt("port")),
	}
	if user := c.GlobalString("user"); user != "" {
		opts = append(opts, session.WithUser(user))
	}

	if path := c.GlobalString("config"); path != "" {
		return session.LoadConfigFile(path, opts...)
	}

	return session.ConfigFromEnv(opts...)
}

// withClient connects, runs fn and stops the client.
func withClient(c *cli.Context, fn func(client *sbc.Client) error) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client, err := sbc.Connect(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("cannot connect to %v: %w", cfg.Address(), err)
	}
	defer func() {
		if serr := client.Stop(); err == nil {
			err = serr
		}
	}()

	return fn(client)
}

// withChip opens gpiochip chip around fn.
func withChip(client *sbc.Client, chip int, fn func(h sbc.ChipHandle) error) error {
	h, err := client.GpiochipOpen(chip)
	if err != nil {
		return err
	}
	defer client.GpiochipClose(h) //nolint:errcheck

	return fn(h)
}

// intArgs parses the positional arguments as integers. Hex (0x) and octal
// (0o) prefixes are accepted.
func intArgs(c *cli.Context, names ...string) ([]int, error) {
	if c.NArg() < len(names) {
		return nil, fmt.Errorf("%s is required", names[c.NArg()])
	}

	out := make([]int, 0, c.NArg())
	for i, arg := range c.Args() {
		v, err := strconv.ParseInt(arg, 0, 32)
		if err != nil {
			name := "argument"
			if i < len(names) {
				name = names[i]
			}

			return nil, fmt.Errorf("invalid %s %q", name, arg)
		}
		out = append(out, int(v))
	}

	return out, nil
}
