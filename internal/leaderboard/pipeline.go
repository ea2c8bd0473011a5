package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"minestats/internal/mojang"
	"minestats/internal/stats"

	"github.com/rs/zerolog/log"
)

const (
	DefaultLimit = 10
	MaxLimit     = 25
)

type StatFetcher interface {
	Fetch(ctx context.Context, statType string, statName string, scope stats.Scope) ([]stats.Entry, error)
}

type NameResolver interface {
	GetUsernames(ctx context.Context, keys []string) []mojang.NameResult
}

// A ranked stat entry with the name to show for it
type Entry struct {
	stats.Entry
	DisplayName string
}

type Pipeline struct {
	stats StatFetcher
	names NameResolver
}

func NewPipeline(stats StatFetcher, names NameResolver) *Pipeline {
	return &Pipeline{stats: stats, names: names}
}

// Bring a caller supplied limit into [1, MaxLimit]. No limit means DefaultLimit
func ClampLimit(limit *int) int {
	switch {
	case limit == nil:
		return DefaultLimit
	case *limit < 1:
		return 1
	case *limit > MaxLimit:
		return MaxLimit
	default:
		return *limit
	}
}

// Build the leaderboard of one stat: fetch every player, rank them, keep the
// best ones and resolve their names. A failed fetch aborts the build, while
// a failed name lookup leaves the reason in place of the name.
// Failed entries are dropped before truncating, so up to limit successful
// entries are returned
func (pipeline *Pipeline) Build(ctx context.Context, statType string, statName string, limit *int) ([]Entry, error) {

	n := ClampLimit(limit)

	all, err := pipeline.stats.Fetch(ctx, statType, statName, stats.ScopeAll)
	if err != nil {
		return nil, err
	}

	ranked := Succeeded(Rank(all))
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	log.Debug().Msg(fmt.Sprintf("Keeping %d of %d entries for %s %s", len(ranked), len(all), statType, statName))

	// Names
	keys := make([]string, len(ranked))
	for i, entry := range ranked {
		keys[i] = entry.Uuid
	}
	names := pipeline.names.GetUsernames(ctx, keys)

	entries := make([]Entry, len(ranked))
	for i, entry := range ranked {
		entries[i] = Entry{Entry: entry, DisplayName: mojang.EscapeDisplayName(names[i].String())}
	}
	return entries, nil
}

// Sort by value, highest first, keeping the fetch order between equal values.
// The input is left untouched
func Rank(entries []stats.Entry) []stats.Entry {
	ranked := make([]stats.Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked
}

// Keep the entries the stats service could compute
func Succeeded(entries []stats.Entry) []stats.Entry {
	kept := make([]stats.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Success {
			kept = append(kept, entry)
		}
	}
	return kept
}
