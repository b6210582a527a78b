package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/arloliu/go-rgpio/sbc"
)

func I2CReadCmd() cli.Command {
	return cli.Command{
		Name:      "i2c-read",
		Usage:     "read bytes from an I2C device",
		ArgsUsage: "<bus> <addr>",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "count",
				Value: 32,
			},
			cli.IntFlag{
				Name:  "reg",
				Value: -1,
				Usage: "read an I2C block starting at this register instead of raw device bytes",
			},
		},
		Action: i2cRead,
	}
}

func i2cRead(c *cli.Context) error {
	args, err := intArgs(c, "bus", "addr")
	if err != nil {
		return err
	}
	bus, addr := args[0], args[1]

	count := c.Int("count")
	if count < 1 || count > 8192 {
		return fmt.Errorf("count should be in range of [1, 8192]")
	}

	return withClient(c, func(client *sbc.Client) error {
		h, err := client.I2COpen(bus, addr, 0)
		if err != nil {
			return err
		}
		defer client.I2CClose(h) //nolint:errcheck

		var data []byte
		if reg := c.Int("reg"); reg >= 0 {
			_, data, err = client.I2CReadI2CBlockData(h, reg, count)
		} else {
			_, data, err = client.I2CReadDevice(h, count)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "% x\n", data)

		return nil
	})
}
