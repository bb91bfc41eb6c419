package cmd

import (
	"github.com/achilleasa/strokedensity/log"
	"github.com/urfave/cli"
)

var logger = log.New("strokedensity")

// Configure logger verbosity. An explicit --log-level takes precedence over
// the -v/-vv shortcuts.
func setupLogging(ctx *cli.Context, configLevel string) error {
	levelName := configLevel
	if ctx.GlobalIsSet("log-level") || levelName == "" {
		levelName = ctx.GlobalString("log-level")
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return err
	}

	if ctx.GlobalBool("v") && level > log.Info {
		level = log.Info
	}
	if ctx.GlobalBool("vv") {
		level = log.Debug
	}

	log.SetLevel(level)
	return nil
}

// Log a fatal command error.
func LogError(err error) {
	logger.Error(err.Error())
}
