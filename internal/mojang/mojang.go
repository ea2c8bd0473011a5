package mojang

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"minestats/internal/common"
	"minestats/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultBaseUrl = "https://api.mojang.com"

// Routes inside the identity service
const ROUTE_PROFILE = "/users/profiles/minecraft/%s"
const ROUTE_NAMES = "/user/profiles/%s/names"

// Maximum number of name requests in flight during a bulk resolution
const ConcurrentLimit = 10

// Anything able to perform a GET and classify the answer, usually a common.Proxy
type Requester interface {
	Request(ctx context.Context, url string) ([]byte, error)
}

type Mojang struct {
	baseUrl string
	proxy   Requester
}

func NewMojang(baseUrl string, proxy Requester) *Mojang {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	return &Mojang{baseUrl: strings.TrimRight(baseUrl, "/"), proxy: proxy}
}

// Find the identity key of the player currently using this handle
func (mojang *Mojang) GetUuid(ctx context.Context, handle string) (Uuid, error) {

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", fmt.Errorf("%w: empty player name", common.ErrValidation)
	}

	// Request
	requestUrl := mojang.baseUrl + fmt.Sprintf(ROUTE_PROFILE, url.PathEscape(handle))
	data, err := mojang.proxy.Request(ctx, requestUrl)
	if err != nil {
		return "", fmt.Errorf("could not find uuid for player %s: %w", handle, err)
	}

	// Decode
	id, err := UnmarshalUuid(data)
	if err != nil {
		return "", err
	}
	log.Debug().Msg(fmt.Sprintf("Found uuid %s for player %s", id, handle))

	return id, nil
}

// Find the current name of the player with this identity key
func (mojang *Mojang) GetUsername(ctx context.Context, id Uuid) (string, error) {

	// Request
	requestUrl := mojang.baseUrl + fmt.Sprintf(ROUTE_NAMES, id.Trim())
	data, err := mojang.proxy.Request(ctx, requestUrl)
	if err != nil {
		return "", fmt.Errorf("could not find name for uuid %s: %w", id, err)
	}

	// Decode
	name, err := UnmarshalCurrentName(data)
	if err != nil {
		return "", fmt.Errorf("could not find name for uuid %s: %w", id, err)
	}
	return name, nil
}

// Resolve the current name of every key, trimmed or hyphenated.
// Requests run with at most ConcurrentLimit in flight and the results keep
// the order of the keys. A failed lookup only affects its own result
func (mojang *Mojang) GetUsernames(ctx context.Context, keys []string) []NameResult {

	results := make([]NameResult, len(keys))

	var group errgroup.Group
	group.SetLimit(ConcurrentLimit)
	for i, key := range keys {
		group.Go(func() error {
			id, err := Untrim(key)
			if err != nil {
				results[i] = NameResult{Err: err}
				metrics.NameLookup(false)
				return nil
			}
			name, err := mojang.GetUsername(ctx, id)
			results[i] = NameResult{Name: name, Err: err}
			metrics.NameLookup(err == nil)
			return nil
		})
	}
	group.Wait()

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Warn().Msg(fmt.Sprintf("Could not resolve %d of %d names", failed, len(keys)))
	}

	return results
}
