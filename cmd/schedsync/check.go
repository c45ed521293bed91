package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a schedule update is available",
	Long: `Fetch the remote API version and compare it against the cached one.

Exits successfully in both the up-to-date and the update-available case;
the result is printed. Use 'schedsync sync' to apply a pending update.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		_, err = app.synchronizer(consoleEvents()).CheckForUpdate(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
