package main

import (
	"github.com/spf13/cobra"

	"photo-manager-api/internal"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return internal.Migrate(cmd.Context(), envFile)
	},
}
