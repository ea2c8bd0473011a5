package mojang

import (
	"fmt"
	"strings"

	"minestats/internal/common"

	"github.com/google/uuid"
)

// Identity key of a player in its hyphenated form (8-4-4-4-12)
type Uuid string

// Result of resolving one identity key to a display name
type NameResult struct {
	Name string
	Err  error
}

// The resolved name, or the reason it could not be resolved
func (result NameResult) String() string {
	if result.Err != nil {
		return result.Err.Error()
	}
	return result.Name
}

// Insert the separators into a trimmed 32 character key.
// Keys that are already hyphenated are validated and returned in canonical form
func Untrim(key string) (Uuid, error) {
	if len(key) != 32 && len(key) != 36 {
		return "", fmt.Errorf("%w: identity key %q has length %d", common.ErrValidation, key, len(key))
	}
	parsed, err := uuid.Parse(key)
	if err != nil {
		return "", fmt.Errorf("%w: identity key %q: %w", common.ErrValidation, key, err)
	}
	return Uuid(parsed.String()), nil
}

// Remove the separators, the form the identity service answers with
func (id Uuid) Trim() string {
	return strings.ReplaceAll(string(id), "-", "")
}
