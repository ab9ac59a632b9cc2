package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/roadsync/internal/client/roads"
)

func (c *Cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   "Upload roads saved while offline",
		Args:    cobra.NoArgs,
		GroupID: "roads",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireSession(); err != nil {
				return err
			}

			c.io.Println(headerColor.Sprint("=== Synchronization ==="))
			c.io.Println()

			pending, err := c.storage.GetPendingRoads(ctx)
			if err != nil {
				return fmt.Errorf("failed to read pending roads: %w", err)
			}
			if len(pending) == 0 {
				c.io.Println(okColor.Sprint("✓ Nothing to synchronize"))
				return nil
			}

			// Store выгружает локальные записи сам, как только сеть доступна
			store, err := c.startStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if !c.monitor.Connected() {
				return fmt.Errorf("server is unreachable, %d road(s) remain pending", len(pending))
			}

			st, err := c.awaitIdle(ctx, store)
			if err != nil {
				return err
			}

			var syncErr *roads.SyncError
			if errors.As(st.FetchingError, &syncErr) {
				return fmt.Errorf("synchronization failed: %w", syncErr)
			}

			c.io.Println(okColor.Sprint("✓ Synchronization completed successfully!"))
			c.io.Printf("Uploaded: %d road(s)\n", len(pending)-st.PendingCount())
			if st.PendingCount() > 0 {
				c.io.Printf("Still pending: %d road(s)\n", st.PendingCount())
			}
			return nil
		},
	}
}
