package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateFlag(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
	}{
		{name: "root runs serve", cmd: rootCmd},
		{name: "serve", cmd: serveCmd},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				migrateOnStart = false
				envFile = ".env"
			})

			require.NoError(t, tt.cmd.ParseFlags([]string{"--migrate", "--env-file", "test.env"}))
			assert.True(t, migrateOnStart)
			assert.Equal(t, "test.env", envFile)
		})
	}
}
