package model

import "time"

// Report is the complete result of exploring one variant identifier
type Report struct {
	Input      string    `json:"input"`       // Raw identifier as given by the caller
	ExploredAt time.Time `json:"explored_at"` // When the exploration ran
	Assembly   string    `json:"assembly"`    // Target reference build

	Parsed      ParsedVariant       `json:"parsed"`                // Classifier output
	Coordinates *GenomicCoordinates `json:"coordinates,omitempty"` // Resolved location (nil on failure)
	Annotations *AnnotationBundle   `json:"annotations,omitempty"` // Merged annotation layers (nil on failure)

	Error *ResolutionError `json:"error,omitempty"` // Structured failure, never a raw transport error

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM summary, clearly separated
}

// LLMSummary contains an optional LLM-generated summary of the report
// CRITICAL: This never affects resolution or aggregation results
type LLMSummary struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"` // openai, anthropic, ollama
	Model      string   `json:"model,omitempty"`    // Model name
	SummaryMD  string   `json:"summary_md,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	Warnings   []string `json:"warnings,omitempty"` // Any issues (e.g., provider unavailable)
}
