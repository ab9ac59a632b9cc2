package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type listFlags struct {
	name        string
	pages       int
	operational bool
}

func (c *Cli) listCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List roads",
		Long:    `List roads page by page. Roads saved locally and not yet synced are shown first.`,
		Args:    cobra.NoArgs,
		GroupID: "roads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			return c.runList(cmd.Context(), flags)
		},
	}

	cmd.Flags().IntVar(&flags.pages, "page", 1, "Load pages 1..N")
	cmd.Flags().StringVar(&flags.name, "name", "", "Show roads whose name contains the substring (case-sensitive)")
	cmd.Flags().BoolVar(&flags.operational, "operational", false, "Show only operational roads")

	return cmd
}

func (c *Cli) runList(ctx context.Context, flags listFlags) error {
	store, err := c.startStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := c.awaitIdle(ctx, store)
	if err != nil {
		return err
	}

	// Фильтры задаются после первичной загрузки: выгрузка локальных записей их сбрасывает
	if flags.name != "" {
		if err := store.SetNameFilter(ctx, flags.name); err != nil {
			return err
		}
	}
	if flags.operational {
		if err := store.SetOnlyOperational(ctx, true); err != nil {
			return err
		}
	}
	if st, err = c.awaitIdle(ctx, store); err != nil {
		return err
	}

	for st.Page < flags.pages && st.More && st.FetchingError == nil && c.monitor.Connected() {
		if err := store.NextPage(ctx); err != nil {
			return err
		}
		if st, err = c.awaitIdle(ctx, store); err != nil {
			return err
		}
	}

	c.io.Println(headerColor.Sprint("=== Roads ==="))
	if !c.monitor.Connected() {
		c.io.Println(warnColor.Sprint("Server is unreachable, showing local roads only."))
	}
	c.printError("Failed to load roads", st.FetchingError)
	c.io.Println()
	c.printRoads(st)

	if st.More && st.FetchingError == nil && c.monitor.Connected() {
		c.io.Printf("More roads available, use --page %d to load the next page.\n", st.Page+1)
	}
	return nil
}

