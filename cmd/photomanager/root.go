package main

import (
	"github.com/spf13/cobra"
)

var (
	// Used for flags.
	envFile string

	rootCmd = &cobra.Command{
		Use:   "photomanager",
		Short: "Profile photo service",
		Long: `Photomanager keeps each user's profile photos: uploads them to the
image host, tracks which one is the main photo and removes them again.
`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)

	// serve is the default command
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().BoolVar(&migrateOnStart, migrateFlag, false, migrateUsage)
}

// Execute executes the root command.
func Execute() error {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd.Execute()
}
