package stats

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"minestats/internal/common"

	"github.com/rs/zerolog/log"
)

// Every stat identifier lives in this namespace
const NAMESPACE = "minecraft"

const ROUTE_STATS = "/stats"

type Requester interface {
	Request(ctx context.Context, url string) ([]byte, error)
}

type Stats struct {
	baseUrl string
	proxy   Requester
}

func NewStats(baseUrl string, proxy Requester) *Stats {
	return &Stats{baseUrl: strings.TrimRight(baseUrl, "/"), proxy: proxy}
}

// Turn a human name into a namespaced identifier: "Diamond Ore" -> "minecraft:diamond_ore".
// Already namespaced input gets prefixed again
func Canonicalize(name string) string {
	return NAMESPACE + ":" + strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Query one stat for the given scope. Type and name are canonicalized here
func (stats *Stats) Fetch(ctx context.Context, statType string, statName string, scope Scope) ([]Entry, error) {

	query := url.Values{}
	query.Set("uuid", string(scope))
	query.Set("stat_type", Canonicalize(statType))
	query.Set("stat_name", Canonicalize(statName))
	requestUrl := stats.baseUrl + ROUTE_STATS + "?" + query.Encode()

	data, err := stats.proxy.Request(ctx, requestUrl)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s %s: %w", statType, statName, err)
	}

	entries, err := UnmarshalEntries(data)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg(fmt.Sprintf("Fetched %d entries for %s %s", len(entries), statType, statName))

	return entries, nil
}

// Query one stat of a single player
func (stats *Stats) FetchOne(ctx context.Context, uuid string, statType string, statName string) (Entry, error) {

	entries, err := stats.Fetch(ctx, statType, statName, Scope(uuid))
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("%w: no %s %s stat for %s", common.ErrNotFound, statType, statName, uuid)
	}

	// The service reports what went wrong in the uuid field
	entry := entries[0]
	if !entry.Success {
		return Entry{}, fmt.Errorf("%w: %s", common.ErrNotFound, entry.Uuid)
	}
	return entry, nil
}
