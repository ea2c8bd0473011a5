package stats

import (
	"encoding/json"
	"fmt"

	"minestats/internal/common"
)

// The service always answers with an array, even for a single player
func UnmarshalEntries(data []byte) ([]Entry, error) {

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: stats: %w", common.ErrDecode, err)
	}
	return entries, nil
}
