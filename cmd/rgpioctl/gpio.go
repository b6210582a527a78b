package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/arloliu/go-rgpio/notify"
	"github.com/arloliu/go-rgpio/sbc"
)

func InfoCmd() cli.Command {
	return cli.Command{
		Name:  "info",
		Usage: "print the daemon host name, and the chip lines with --chip",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "chip",
				Value: -1,
			},
		},
		Action: info,
	}
}

func info(c *cli.Context) error {
	return withClient(c, func(client *sbc.Client) error {
		name, err := client.SBCName()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "sbc: %s\n", name)

		chip := c.Int("chip")
		if chip < 0 {
			return nil
		}

		return withChip(client, chip, func(h sbc.ChipHandle) error {
			_, ci, err := client.GetChipInfo(h)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "chip: %s (%s), %d lines\n", ci.Name, ci.Label, ci.Lines)

			tw := tabwriter.NewWriter(c.App.Writer, 0, 8, 1, ' ', 0)
			fmt.Fprintf(tw, "LINE\tNAME\tUSER\tFLAGS\n")
			for line := range ci.Lines {
				_, li, err := client.GetLineInfo(h, line)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%#x\n", li.Offset, li.Name, li.User, li.Flags)
			}

			return tw.Flush()
		})
	})
}

func ReadCmd() cli.Command {
	return cli.Command{
		Name:      "read",
		Usage:     "claim a line for input and print its level",
		ArgsUsage: "<chip> <line>",
		Action:    read,
	}
}

func read(c *cli.Context) error {
	args, err := intArgs(c, "chip", "line")
	if err != nil {
		return err
	}
	chip, line := args[0], args[1]

	return withClient(c, func(client *sbc.Client) error {
		return withChip(client, chip, func(h sbc.ChipHandle) error {
			if _, err := client.ClaimInput(h, line, 0); err != nil {
				return err
			}
			defer client.Free(h, line) //nolint:errcheck

			level, err := client.Read(h, line)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, level)

			return nil
		})
	})
}

func WriteCmd() cli.Command {
	return cli.Command{
		Name:      "write",
		Usage:     "claim a line for output and set its level",
		ArgsUsage: "<chip> <line> <level>",
		Action:    write,
	}
}

func write(c *cli.Context) error {
	args, err := intArgs(c, "chip", "line", "level")
	if err != nil {
		return err
	}
	chip, line, level := args[0], args[1], args[2]
	if level != sbc.Low && level != sbc.High {
		return errors.New("level should be 0 or 1")
	}

	return withClient(c, func(client *sbc.Client) error {
		return withChip(client, chip, func(h sbc.ChipHandle) error {
			_, err := client.ClaimOutput(h, line, level, 0)
			return err
		})
	})
}

func MonitorCmd() cli.Command {
	return cli.Command{
		Name:      "monitor",
		Usage:     "print alerts of lines until interrupted",
		ArgsUsage: "<chip> <line>...",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "edge",
				Value: "both",
				Usage: "rising, falling or both",
			},
			cli.IntFlag{
				Name:  "debounce",
				Usage: "debounce time in microseconds",
			},
			cli.IntFlag{
				Name:  "count",
				Usage: "exit after this many events, 0 for no limit",
			},
		},
		Action: monitor,
	}
}

func monitor(c *cli.Context) error {
	args, err := intArgs(c, "chip", "line")
	if err != nil {
		return err
	}
	chip, lines := args[0], args[1:]

	edge, err := notify.ParseEdge(c.String("edge"))
	if err != nil {
		return err
	}

	return withClient(c, func(client *sbc.Client) error {
		return withChip(client, chip, func(h sbc.ChipHandle) error {
			done := make(chan struct{})
			var (
				mu      sync.Mutex
				seen    int
				closing sync.Once
			)
			limit := c.Int("count")

			printer := notify.HandlerFunc(func(ev notify.Event) {
				mu.Lock()
				defer mu.Unlock()

				kind := "edge"
				if ev.IsTimeout() {
					kind = "watchdog"
				}
				fmt.Fprintf(c.App.Writer, "%d %d %d %d %s\n", ev.Chip, ev.Line, ev.Level, ev.Tick, kind)

				seen++
				if limit > 0 && seen >= limit {
					closing.Do(func() { close(done) })
				}
			})

			for _, line := range lines {
				reg, err := client.Callback(h, line, edge, printer)
				if err != nil {
					return err
				}
				defer reg.Cancel()

				if _, err := client.ClaimAlert(h, line, edge, 0, -1); err != nil {
					return err
				}
				defer client.Free(h, line) //nolint:errcheck

				if us := c.Int("debounce"); us > 0 {
					if _, err := client.SetDebounce(h, line, us); err != nil {
						return err
					}
				}
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigs)

			select {
			case <-sigs:
			case <-done:
			}

			return nil
		})
	})
}
