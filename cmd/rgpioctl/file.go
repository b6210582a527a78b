package main

import (
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/urfave/cli"

	"github.com/arloliu/go-rgpio/sbc"
)

func FileReadCmd() cli.Command {
	return cli.Command{
		Name:      "file-read",
		Usage:     "print the start of a file in the daemon's file space",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "count",
				Value: "4k",
				Usage: "bytes to read, e.g. 512, 4k, 1m",
			},
		},
		Action: fileRead,
	}
}

func fileRead(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("path is required")
	}
	path := c.Args()[0]

	count, err := units.RAMInBytes(c.String("count"))
	if err != nil {
		return err
	}
	if count <= 0 || count > maxReadCount {
		return fmt.Errorf("count should be in range of [1, %s]", units.BytesSize(maxReadCount))
	}

	return withClient(c, func(client *sbc.Client) error {
		h, err := client.FileOpen(path, sbc.FileRead)
		if err != nil {
			return err
		}
		defer client.FileClose(h) //nolint:errcheck

		_, data, err := client.FileRead(h, int(count))
		if err != nil {
			return err
		}
		_, err = c.App.Writer.Write(data)

		return err
	})
}

// maxReadCount keeps a single read well below the session's payload bound.
const maxReadCount = 512 * 1024
