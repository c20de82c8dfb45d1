package main

import (
	"os"

	"github.com/spf13/cobra"

	"gridwatch/internal/modkit"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/logger"
)

// newDeps is a seam so tests can pin the clock
var newDeps = func() modkit.Deps {
	root := config.New()
	return modkit.Deps{
		Cfg:   root,
		Clock: clock.System{},
		Loc:   root.MayLocation("TZ_NAME", "Europe/Kyiv"),
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridwatchctl",
		Short: "One-off gridwatch operations",
		Long: `gridwatchctl reads the same environment as gridwatch-api and talks to the
upstreams directly: print a day of the outage schedule, register the alert
webhook with the provider or send a test push.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	level := root.PersistentFlags().String("log-level", "", "overrides LOG_LEVEL (upstream retries log at debug)")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		opt := logger.FromEnv()
		opt.Service, opt.Format, opt.Writer = "gridwatchctl", "console", os.Stderr
		if *level != "" {
			opt.Level = *level
		}
		logger.Init(opt)
	}
	root.AddCommand(scheduleCmd(), webhookCmd(), pushCmd())
	return root
}
