package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// UserView is the identity echo returned by register/login.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// IdeaRecord mirrors the server's idea shape on the wire.
type IdeaRecord struct {
	ID         string          `json:"_id"`
	UserID     string          `json:"user"`
	Title      string          `json:"title"`
	Evaluation json.RawMessage `json:"evaluation"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type evaluationEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		StartupIdea     string          `json:"startup_idea"`
		AnalysisResults AnalysisResults `json:"analysis_results"`
	} `json:"data"`
}

// AnalysisResults is the strict display projection of the opaque evaluation
// payload. The sub-sections stay raw JSON: they are display data, and their
// inner shape is owned by the gateway.
type AnalysisResults struct {
	Trends      json.RawMessage `json:"trends"`
	Competitors json.RawMessage `json:"competitors"`
	Saturation  json.RawMessage `json:"saturation"`
	Novelty     json.RawMessage `json:"novelty"`
	FinalReport json.RawMessage `json:"final_report"`
}

// Analysis is one idea plus its decoded analysis, as the UI consumes it.
type Analysis struct {
	ID              string
	UserID          string
	StartupIdea     string
	AnalysisResults AnalysisResults
	CreatedAt       time.Time
}

// ToAnalysis decodes the evaluation envelope into the display projection.
// The opaque shape does not leak past this boundary.
func (r *IdeaRecord) ToAnalysis() (*Analysis, error) {
	var env evaluationEnvelope
	if err := json.Unmarshal(r.Evaluation, &env); err != nil {
		return nil, fmt.Errorf("malformed evaluation payload: %w", err)
	}
	startupIdea := env.Data.StartupIdea
	if startupIdea == "" {
		startupIdea = r.Title
	}
	return &Analysis{
		ID:              r.ID,
		UserID:          r.UserID,
		StartupIdea:     startupIdea,
		AnalysisResults: env.Data.AnalysisResults,
		CreatedAt:       r.CreatedAt,
	}, nil
}
