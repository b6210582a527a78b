// Command rgpioctl talks to an rgpiod daemon from the shell.
package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/arloliu/go-rgpio/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Fatal("Error when executing command", "error", err)
	}
}

func newApp() *cli.App {
	a := cli.NewApp()
	a.Name = "rgpioctl"
	a.Usage = "control GPIO, files and I2C through an rgpiod daemon"
	a.Before = func(c *cli.Context) error {
		level, err := logger.ParseLevel(c.GlobalString("log-level"))
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		return nil
	}
	a.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "TOML connection config file",
		},
		cli.StringFlag{
			Name:  "host",
			Usage: "daemon host, overrides LG_ADDR and the config file",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "daemon port, overrides LG_PORT and the config file",
		},
		cli.StringFlag{
			Name:  "user",
			Usage: "log in as user, overrides LG_USER and the config file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "warn",
		},
	}
	a.Commands = []cli.Command{
		InfoCmd(),
		MonitorCmd(),
		ReadCmd(),
		WriteCmd(),
		FileReadCmd(),
		I2CReadCmd(),
		ErrorCmd(),
	}

	return a
}
