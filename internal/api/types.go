package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Individual describes a roster entry in a transport-friendly format.
type Individual struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Age              string       `json:"age"`
	HeightInches     int          `json:"heightInches,omitempty"`
	WeightPounds     int          `json:"weightPounds,omitempty"`
	SkinTone         string       `json:"skinTone,omitempty"`
	Gender           string       `json:"gender,omitempty"`
	SubstanceHistory string       `json:"substanceHistory,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	PhotoPath        string       `json:"photoPath,omitempty"`
	PhotoHistory     []PhotoEntry `json:"photoHistory,omitempty"`
	BaseUrgencyScore int          `json:"baseUrgencyScore"`
	UrgencyOverride  *int         `json:"urgencyOverride,omitempty"`
	DisplayScore     int          `json:"displayScore"`
	UrgencyBand      string       `json:"urgencyBand"`
	CreatedAt        string       `json:"createdAt,omitempty"`
	UpdatedAt        string       `json:"updatedAt,omitempty"`
	LastSeenAt       string       `json:"lastSeenAt,omitempty"`
}

// PhotoEntry is one attached photo, newest first.
type PhotoEntry struct {
	Path       string `json:"path"`
	AttachedAt string `json:"attachedAt,omitempty"`
}

// Interaction describes one encounter in a transport-friendly format.
type Interaction struct {
	ID               string            `json:"id"`
	IndividualID     string            `json:"individualId"`
	WorkerID         string            `json:"workerId,omitempty"`
	Location         string            `json:"location,omitempty"`
	Transcription    string            `json:"transcription,omitempty"`
	FieldDeltas      map[string]string `json:"fieldDeltas,omitempty"`
	DangerIndicators []string          `json:"dangerIndicators,omitempty"`
	PhotoPath        string            `json:"photoPath,omitempty"`
	CreatedAt        string            `json:"createdAt,omitempty"`
}

// Match describes one scored candidate.
type Match struct {
	CandidateID   string   `json:"candidateId"`
	Confidence    float64  `json:"confidence"`
	MatchedFields []string `json:"matchedFields,omitempty"`
}

// Comparison is one field of a pending reconciliation.
type Comparison struct {
	Field         string `json:"field"`
	NewValue      string `json:"newValue"`
	ExistingValue string `json:"existingValue"`
	Selected      string `json:"selected"`
	Conflict      bool   `json:"conflict"`
}

// Resolution describes a classified pass awaiting a decision.
type Resolution struct {
	ID          string       `json:"id"`
	Tier        string       `json:"tier"`
	CandidateID string       `json:"candidateId,omitempty"`
	Confidence  float64      `json:"confidence"`
	Matches     []Match      `json:"matches,omitempty"`
	Comparisons []Comparison `json:"comparisons,omitempty"`
	Warnings    []Warning    `json:"warnings,omitempty"`
}

// Outcome describes a committed pass.
type Outcome struct {
	Action     string      `json:"action"`
	Individual *Individual `json:"individual,omitempty"`
	Confidence float64     `json:"confidence"`
	Tier       string      `json:"tier"`
	PhotoURL   string      `json:"photoUrl,omitempty"`
	Warnings   []Warning   `json:"warnings,omitempty"`
}

// Warning is the user-facing failure shape: a taxonomy code, a message fit
// for display, and whether retrying can help.
type Warning struct {
	Code        string `json:"code"`
	UserMessage string `json:"userMessage"`
	Retryable   bool   `json:"retryable"`
}

// RosterListResponse wraps a collection of individuals.
type RosterListResponse struct {
	Individuals []Individual `json:"individuals"`
}

// IndividualResponse wraps a single individual with encounter history.
type IndividualResponse struct {
	Individual   Individual    `json:"individual"`
	Interactions []Interaction `json:"interactions,omitempty"`
}
