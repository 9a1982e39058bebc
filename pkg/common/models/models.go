package models

import "time"

// Event Bus models
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"` // record, tokenize, detokenize
	Source    string            `json:"source"`
	Data      map[string]string `json:"data"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Vault API models
type TokenizeRequest struct {
	Data     map[string]string `json:"data"`
	Columns  []string          `json:"columns"`
	Strategy string            `json:"strategy,omitempty"` // uuid or sequential, defaults to uuid
}

type TokenizeResponse struct {
	Data      map[string]string `json:"data"`
	NewTokens int               `json:"new_tokens"`
}

type DetokenizeRequest struct {
	Data map[string]string `json:"data"`
}

type DetokenizeResponse struct {
	Data     map[string]string `json:"data"`
	Restored int               `json:"restored"`
}

// Column suggestion (advisory, produced by the rule scanner)
type ColumnSuggestion struct {
	Column     string   `json:"column"`
	RuleTypes  []string `json:"rule_types"`
	MatchCount int      `json:"match_count"`
	Sampled    int      `json:"sampled"`
}
