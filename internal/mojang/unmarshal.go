package mojang

import (
	"encoding/json"
	"fmt"

	"minestats/internal/common"
)

func UnmarshalUuid(data []byte) (Uuid, error) {

	var profile struct {
		Id string `json:"id"`
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return "", fmt.Errorf("%w: profile: %w", common.ErrDecode, err)
	}
	if profile.Id == "" {
		return "", fmt.Errorf("%w: profile has no id", common.ErrDecode)
	}

	return Untrim(profile.Id)
}

// The names history is ordered from oldest to newest,
// so the current name is the last one
func UnmarshalCurrentName(data []byte) (string, error) {

	var history []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &history); err != nil {
		return "", fmt.Errorf("%w: names history: %w", common.ErrDecode, err)
	}
	if len(history) == 0 {
		return "", fmt.Errorf("%w: empty names history", common.ErrNotFound)
	}

	return history[len(history)-1].Name, nil
}
