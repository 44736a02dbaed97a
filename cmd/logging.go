package cmd

import (
	"github.com/j-cube/hdospray/log"
	"github.com/urfave/cli"
)

var logger = log.New("hdospray")

func setupLogging(ctx *cli.Context) error {
	level, err := logLevel(ctx.GlobalString("log-level"), ctx.GlobalBool("v"), ctx.GlobalBool("vv"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

// Select the log level. An explicit level name wins over the verbosity flags.
func logLevel(name string, verbose, veryVerbose bool) (log.Level, error) {
	if name != "" {
		return log.ParseLevel(name)
	}

	switch {
	case veryVerbose:
		return log.Debug, nil
	case verbose:
		return log.Info, nil
	}
	return log.Notice, nil
}
