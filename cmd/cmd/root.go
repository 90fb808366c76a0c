package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/VKKKV/gforemost/internal/env"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:     env.AppName,
		Short:   env.AppName + " - signature-based file carving tool",
		Version: fmt.Sprintf("%s (commit %s, built %s)", env.Version, env.CommitHash, env.BuildTime),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			setLogLevel(level)
		},
	}
	rootCmd.PersistentFlags().String("log-level", "info", "minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		DefineScanCommand(),
		DefineRecoverCommand(),
		DefineMountCommand(),
		DefineFormatsCommand(),
		DefineMergeCommand(),
	)
	return rootCmd.Execute()
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
