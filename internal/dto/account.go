package dto

// AccountResponse is one row of the final account table.
// Amounts are rendered strings so no precision is lost in JSON.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// ReplayResponse is returned by the replay endpoint.
// RequestedBy is the token subject and is omitted for anonymous requests.
type ReplayResponse struct {
	RunID       string            `json:"runID"`
	RequestedBy string            `json:"requestedBy,omitempty"`
	Applied     int               `json:"applied"`
	Ignored     int               `json:"ignored"`
	Skipped     int               `json:"skipped"`
	Rejected    map[string]int    `json:"rejected"`
	Accounts    []AccountResponse `json:"accounts"`
}
