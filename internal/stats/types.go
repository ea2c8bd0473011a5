package stats

// One record of the stats service
type Entry struct {
	Uuid    string `json:"uuid"`
	Success bool   `json:"success"`
	Value   uint64 `json:"stat"`
}

// Which players a query covers: ScopeAll, or the identity key of a single player
type Scope string

const ScopeAll Scope = "all"
