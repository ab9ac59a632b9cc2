package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/roadsync/internal/client/auth"
)

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show session and synchronization status",
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c.io.Println(headerColor.Sprint("=== Status ==="))
			c.io.Println()

			c.io.Printf("Server: %s\n", c.apiClient.BaseURL())
			if c.poller.Poll(ctx) {
				c.io.Println(okColor.Sprint("Server reachable: yes"))
			} else {
				c.io.Println(warnColor.Sprint("Server reachable: no"))
			}
			c.io.Println()

			data, err := c.session.Current()
			if errors.Is(err, auth.ErrNotAuthenticated) {
				c.io.Println("Status: Not authenticated")
				c.io.Println()
				c.io.Println("Run 'roadsync login' to authenticate.")
				return nil
			}
			if err != nil {
				return err
			}

			expiresAt := time.Unix(data.ExpiresAt, 0)
			c.io.Println("Status: Authenticated")
			c.io.Printf("Email: %s\n", data.Email)
			c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
			c.io.Printf("Time remaining: %s\n", time.Until(expiresAt).Round(time.Second))

			lastSync, err := c.storage.GetLastSyncTimestamp(ctx)
			if err != nil {
				return fmt.Errorf("failed to get last sync time: %w", err)
			}
			if lastSync > 0 {
				c.io.Printf("Last sync: %s\n", time.Unix(lastSync, 0).Format(time.RFC3339))
			} else {
				c.io.Println("Last sync: never")
			}

			pending, err := c.storage.GetPendingRoads(ctx)
			if err != nil {
				return fmt.Errorf("failed to get pending roads: %w", err)
			}

			c.io.Println()
			if len(pending) > 0 {
				c.io.Println(warnColor.Sprintf("⚠️  Pending sync: %d road(s) waiting to be uploaded", len(pending)))
				c.io.Println("Run 'roadsync sync' to upload them.")
			} else {
				c.io.Println(okColor.Sprint("✓ All roads synchronized with server"))
			}
			return nil
		},
	}
}
