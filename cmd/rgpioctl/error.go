package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/arloliu/go-rgpio/errcode"
)

func ErrorCmd() cli.Command {
	return cli.Command{
		Name:      "error",
		Usage:     "print the text of a daemon error code; the sign may be omitted",
		ArgsUsage: "<code>",
		Action:    errorText,
	}
}

func errorText(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("code is required")
	}

	code, err := strconv.ParseInt(c.Args()[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid code %q", c.Args()[0])
	}
	if code > 0 {
		code = -code
	}
	fmt.Fprintln(c.App.Writer, errcode.Code(code).String())

	return nil
}
