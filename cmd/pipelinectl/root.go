package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var logModeFlag string
	var collectionsFlag string

	ctx := newCommandContext(&logModeFlag, &collectionsFlag)

	rootCmd := &cobra.Command{
		Use:           "pipelinectl",
		Short:         "Run devportal translation pipeline stages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logModeFlag, "log-mode", "production", "Logger mode (development or production)")
	rootCmd.PersistentFlags().StringVarP(&collectionsFlag, "collections", "c", "", "YAML file mapping entity kinds to Chroma collections")

	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newBootstrapCommand(ctx))
	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newTranslateCommand(ctx))
	rootCmd.AddCommand(newPackageCommand(ctx))
	rootCmd.AddCommand(newIndexCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newWritebackCommand(ctx))

	return rootCmd
}
