package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/roadsync/internal/client/roads"
	"github.com/iudanet/roadsync/internal/models"
)

// formatRoad строка списка; локальные записи отмечаются звездочкой
func formatRoad(road models.Road) string {
	status := "closed"
	if road.IsOperational {
		status = "operational"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%6d  %-30s  lanes: %-2d  %-11s  v%d", road.ID, road.Name, road.Lanes, status, road.Version)
	if road.LastMaintained != nil {
		fmt.Fprintf(&b, "  maintained: %s", road.LastMaintained.Format(time.DateOnly))
	}
	if road.HasLocation() {
		fmt.Fprintf(&b, "  @%.5f,%.5f", *road.Lat, *road.Long)
	}

	if road.IsLocal() {
		return localColor.Sprint("* " + b.String() + "  (not synced)")
	}
	return "  " + b.String()
}

// printRoads выводит локальные записи, затем подтвержденные
func (c *Cli) printRoads(st roads.State) {
	if len(st.LocalSavedRoads) == 0 && len(st.Roads) == 0 {
		c.io.Println("No roads found.")
		return
	}

	for _, road := range st.LocalSavedRoads {
		c.io.Println(formatRoad(road))
	}
	for _, road := range st.Roads {
		c.io.Println(formatRoad(road))
	}

	c.io.Println()
	c.io.Printf("Total: %d road(s)", len(st.Roads)+len(st.LocalSavedRoads))
	if n := st.PendingCount(); n > 0 {
		c.io.Printf(", %d not synced", n)
	}
	c.io.Println()
}

// printError выводит ошибку состояния, если она есть
func (c *Cli) printError(prefix string, err error) {
	if err == nil {
		return
	}
	c.io.Println(errorColor.Sprintf("%s: %v", prefix, err))
}
