package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/roadsync/internal/client/roads"
	"github.com/iudanet/roadsync/internal/models"
)

type saveFlags struct {
	changed        func(name string) bool
	name           string
	lastMaintained string
	photo          string
	id             int64
	version        int64
	lat            float64
	long           float64
	lanes          int
	operational    bool
}

func (c *Cli) saveCommand() *cobra.Command {
	var flags saveFlags

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a road",
		Long: `Create a road, or update an existing one with --id.

If the server cannot be reached the road is kept locally and uploaded
on the next successful connection.`,
		Example: `  roadsync save --name "Ring Road" --lanes 4 --operational
  roadsync save --id 12 --lanes 2 --last-maintained 2024-05-01
  roadsync save --name "Bridge" --lat 55.75 --long 37.61 --photo bridge.jpg`,
		Args:    cobra.NoArgs,
		GroupID: "roads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			flags.changed = cmd.Flags().Changed
			return c.runSave(cmd.Context(), flags)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&flags.id, "id", 0, "ID of the road to update (negative for roads not synced yet)")
	f.StringVar(&flags.name, "name", "", "Road name")
	f.IntVar(&flags.lanes, "lanes", 0, "Number of lanes")
	f.BoolVar(&flags.operational, "operational", false, "Road is operational")
	f.StringVar(&flags.lastMaintained, "last-maintained", "", "Date of last maintenance (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&flags.photo, "photo", "", "Path to a photo file")
	f.Float64Var(&flags.lat, "lat", 0, "Latitude")
	f.Float64Var(&flags.long, "long", 0, "Longitude")
	f.Int64Var(&flags.version, "version", 0, "Version of the road being updated")

	return cmd
}

func (c *Cli) runSave(ctx context.Context, flags saveFlags) error {
	store, err := c.startStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	before, err := c.awaitIdle(ctx, store)
	if err != nil {
		return err
	}

	road, err := buildRoad(before, flags)
	if err != nil {
		return err
	}

	if err := store.Save(ctx, road); err != nil {
		return err
	}
	after := store.Snapshot()

	c.io.Println()
	if keptLocally(before, after) {
		c.io.Println(warnColor.Sprint("⚠️  Server unavailable, road saved locally."))
		c.io.Println("It will be uploaded on the next successful connection ('roadsync sync').")
		road = after.LocalSavedRoads[0]
	} else {
		c.io.Println(okColor.Sprint("✓ Road saved on server."))
		if saved, ok := findSaved(after, road); ok {
			road = saved
		}
	}

	details, err := renderRoad(road)
	if err != nil {
		return fmt.Errorf("failed to render road: %w", err)
	}
	c.io.Printf("%s", details)
	return nil
}

// keptLocally определяет, что Save положил запись в локальный список:
// локальная запись получает синтетический ID, которого не было до сохранения
func keptLocally(before, after roads.State) bool {
	if len(after.LocalSavedRoads) == 0 {
		return false
	}
	_, existed := before.Find(after.LocalSavedRoads[0].ID)
	return !existed
}

func findSaved(st roads.State, road models.Road) (models.Road, bool) {
	if road.IsPersisted() {
		return st.Find(road.ID)
	}
	// новая запись добавляется в начало списка
	if len(st.Roads) > 0 && st.Roads[0].Name == road.Name {
		return st.Roads[0], true
	}
	return models.Road{}, false
}

// buildRoad собирает запись из флагов. При обновлении известной записи
// незаданные флаги берутся из нее.
func buildRoad(st roads.State, flags saveFlags) (models.Road, error) {
	changed := flags.changed
	if changed == nil {
		changed = func(string) bool { return true }
	}

	var road models.Road
	if flags.id != 0 {
		existing, ok := st.Find(flags.id)
		switch {
		case ok:
			road = existing.Clone()
		case flags.id < 0:
			return road, fmt.Errorf("local road %d not found", flags.id)
		default:
			road.ID = flags.id
		}
	}

	if changed("name") {
		road.Name = flags.name
	}
	if changed("lanes") {
		road.Lanes = flags.lanes
	}
	if changed("operational") {
		road.IsOperational = flags.operational
	}
	if changed("version") {
		road.Version = flags.version
	}
	if changed("lat") {
		lat := flags.lat
		road.Lat = &lat
	}
	if changed("long") {
		long := flags.long
		road.Long = &long
	}

	if changed("last-maintained") && flags.lastMaintained != "" {
		t, err := parseDate(flags.lastMaintained)
		if err != nil {
			return road, err
		}
		road.LastMaintained = &t
	}

	if changed("photo") && flags.photo != "" {
		content, err := os.ReadFile(flags.photo)
		if err != nil {
			return road, fmt.Errorf("failed to read photo: %w", err)
		}
		road.Base64Photo = base64.StdEncoding.EncodeToString(content)
	}

	return road, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

