package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photo-manager-api/internal"
)

const (
	migrateFlag  = "migrate"
	migrateUsage = "apply pending migrations before serving"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the event workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := internal.NewApp(ctx, internal.Options{
			EnvFile: envFile,
			Migrate: migrateOnStart,
		})
		if err != nil {
			return fmt.Errorf("init app failed: %w", err)
		}
		defer app.Close()

		app.InitControllers()

		if err = app.Run(ctx); err != nil {
			app.Logger().Sugar().Errorf("photomanager stopped with error: %v", err)
			return err
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, migrateFlag, false, migrateUsage)
}
