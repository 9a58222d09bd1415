package resource

import (
	"fmt"

	"github.com/ovalstats/cricket-data-api/internal/ierr"
)

// Type is one category of cricket data served and synced as a unit. The set
// is closed: anything outside it is rejected at the boundary.
type Type string

const (
	Continents Type = "continents"
	Countries  Type = "countries"
	Leagues    Type = "leagues"
	Seasons    Type = "seasons"
	Fixtures   Type = "fixtures"
	Livescores Type = "livescores"
	Teams      Type = "teams"
	Players    Type = "players"
	Officials  Type = "officials"
	Venues     Type = "venues"
	Stages     Type = "stages"
	Positions  Type = "positions"
	Scores     Type = "scores"
)

// all is the serving set, in the order it is reported to callers.
var all = []Type{
	Continents,
	Countries,
	Leagues,
	Seasons,
	Fixtures,
	Livescores,
	Teams,
	Players,
	Officials,
	Venues,
	Stages,
	Positions,
	Scores,
}

// syncable is the fixed iteration order of SyncAll. The upstream provider has
// no scores collection, so scores is serve-only.
var syncable = []Type{
	Continents,
	Countries,
	Leagues,
	Seasons,
	Fixtures,
	Livescores,
	Teams,
	Players,
	Officials,
	Venues,
	Stages,
	Positions,
}

func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

func Syncable() []Type {
	out := make([]Type, len(syncable))
	copy(out, syncable)
	return out
}

// Names returns the valid resource names, for error payloads.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return names
}

func Parse(name string) (Type, error) {
	for _, t := range all {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ierr.ErrInvalidResource, name)
}

func ParseSyncable(name string) (Type, error) {
	for _, t := range syncable {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ierr.ErrInvalidResource, name)
}
