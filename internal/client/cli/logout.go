package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Delete the local session",
		Long:    `Delete the local session. Roads that were not uploaded yet are discarded.`,
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c.io.Println(headerColor.Sprint("=== Logout ==="))

			// Без сессии локальные записи отбрасываются, как и в работающем хранилище
			pending, err := c.storage.GetPendingRoads(ctx)
			if err != nil {
				return fmt.Errorf("failed to read pending roads: %w", err)
			}
			if len(pending) > 0 {
				c.io.Println(warnColor.Sprintf("⚠️  Discarding %d road(s) that were not synchronized", len(pending)))
				if err := c.storage.SavePendingRoads(ctx, nil); err != nil {
					return fmt.Errorf("failed to clear pending roads: %w", err)
				}
			}

			if err := c.session.Logout(ctx); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Println(okColor.Sprint("✓ Logout successful!"))
			c.io.Println("Your local session has been deleted.")
			return nil
		},
	}
}
