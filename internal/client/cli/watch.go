package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/roadsync/internal/client/roads"
	"github.com/iudanet/roadsync/internal/models"
)

func (c *Cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow road changes until interrupted",
		Long: `Keep a live connection to the server and print changes made by other
clients. Roads saved offline are uploaded as soon as the server is reachable.`,
		Args:    cobra.NoArgs,
		GroupID: "roads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			return c.runWatch(cmd.Context())
		},
	}
}

func (c *Cli) runWatch(ctx context.Context) error {
	store, err := c.startStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	go c.poller.Run(pollerCtx)

	unsubscribeNet := c.monitor.SubscribeConnectivity(func(connected bool) {
		if connected {
			c.io.Println(okColor.Sprintf("[%s] server reachable", timestamp()))
		} else {
			c.io.Println(warnColor.Sprintf("[%s] server unreachable, saving locally", timestamp()))
		}
	})
	defer unsubscribeNet()

	c.io.Println(headerColor.Sprint("=== Watching roads (Ctrl+C to stop) ==="))

	w := &watcher{cli: c}
	unsubscribe := store.Subscribe(w.observe)
	defer unsubscribe()

	<-ctx.Done()
	c.io.Println()
	c.io.Println("Stopped.")
	return nil
}

// watcher печатает разницу между последовательными состояниями.
// observe вызывается только из горутины Store.
type watcher struct {
	cli     *Cli
	prev    roads.State
	started bool
}

func (w *watcher) observe(st roads.State) {
	c := w.cli
	if !w.started {
		w.started = true
		w.prev = st
		c.printRoads(st)
		return
	}
	prev := w.prev
	w.prev = st

	for _, road := range st.Roads {
		old, ok := findRoad(prev.Roads, road.ID)
		switch {
		case !ok:
			c.io.Println(okColor.Sprintf("[%s] + %s", timestamp(), formatRoad(road)))
		case old.Version != road.Version:
			c.io.Println(okColor.Sprintf("[%s] ~ %s", timestamp(), formatRoad(road)))
		}
	}

	for _, road := range st.LocalSavedRoads {
		if _, ok := findRoad(prev.LocalSavedRoads, road.ID); !ok {
			c.io.Println(localColor.Sprintf("[%s] saved locally: %s", timestamp(), formatRoad(road)))
		}
	}

	if uploaded := prev.PendingCount() - st.PendingCount(); uploaded > 0 && st.FetchingError == nil && !st.Fetching {
		c.io.Println(okColor.Sprintf("[%s] ✓ %d local road(s) uploaded", timestamp(), uploaded))
	}

	if st.FetchingError != nil && st.FetchingError != prev.FetchingError {
		c.printError("["+timestamp()+"] error", st.FetchingError)
	}
}

func findRoad(list []models.Road, id int64) (models.Road, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return models.Road{}, false
}

func timestamp() string {
	return time.Now().Format(time.TimeOnly)
}
