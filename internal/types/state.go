package types

// Stage is a position in the résumé parsing state machine
type Stage string

const (
	StageNeedsText       Stage = "needs_text"
	StageNeedsExtraction Stage = "needs_extraction"
	StageNeedsEnrichment Stage = "needs_enrichment"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// ExtractionMethod names the strategy that produced the raw text
type ExtractionMethod string

const (
	MethodProvided ExtractionMethod = "provided"
	MethodPDFText  ExtractionMethod = "pdf-text"
	MethodPDFOCR   ExtractionMethod = "pdf-ocr"
	MethodImageOCR ExtractionMethod = "image-ocr"
)

// ExtractionInfo describes how the raw text was obtained
type ExtractionInfo struct {
	Method ExtractionMethod `json:"method,omitempty"`
	Pages  int              `json:"pages,omitempty"`
}

// ExtractionAttempt records one structured-extraction call
type ExtractionAttempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

// Succeeded reports whether the attempt produced a valid record.
func (a ExtractionAttempt) Succeeded() bool {
	return a.Error == ""
}

// MarketResearch is produced by the market research stage downstream of parsing.
type MarketResearch struct {
	TrendingRoles  []string `json:"trending_roles"`
	RequiredSkills []string `json:"required_skills"`
	MarketSummary  string   `json:"market_summary"`
}

// GapAnalysis is produced by the gap analysis stage downstream of parsing.
type GapAnalysis struct {
	CandidateStrengths     []string `json:"candidate_strengths"`
	CandidateGaps          []string `json:"candidate_gaps"`
	ImprovementSuggestions string   `json:"improvement_suggestions"`
}

// AnalysisState is the record handed from stage to stage. Stages take it by value and
// return the updated copy.
type AnalysisState struct {
	RunID          string `json:"run_id,omitempty"`
	ResumeFilePath string `json:"resume_file_path,omitempty"`
	RawResumeText  string `json:"resume_text"`
	// StructuredResume is only ever replaced wholesale after a successful extraction.
	StructuredResume *StructuredResume   `json:"structured_resume"`
	MarketResearch   *MarketResearch     `json:"market_research"`
	GapAnalysis      *GapAnalysis        `json:"gap_analysis"`
	Stage            Stage               `json:"stage,omitempty"`
	Extraction       ExtractionInfo      `json:"extraction"`
	Attempts         []ExtractionAttempt `json:"attempts,omitempty"`
	Error            string              `json:"error,omitempty"`
}
