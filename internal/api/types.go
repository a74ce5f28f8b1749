package api

import "encoding/json"

// Document is a titled body of text served for a reading step.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ClientRequest is the client's message that frames the exercise.
type ClientRequest struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Data formats reported by the service.
const (
	DataFormatTable      = "table"
	DataFormatValues     = "values"
	DataFormatTextOutput = "text_output"
)

// DataArtifact is the data set examined in the analysis step.
type DataArtifact struct {
	Format      string `json:"format"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// TimerConfig holds per-step durations in seconds.
type TimerConfig struct {
	TimerRequest     int `json:"timer_request"`
	TimerDocument    int `json:"timer_document"`
	TimerPredictions int `json:"timer_predictions"`
	TimerData        int `json:"timer_data"`
	TimerBackground  int `json:"timer_background"`
}

// StartResponse is returned when a new session is created.
type StartResponse struct {
	SessionID  string        `json:"session_id"`
	Background Document      `json:"background"`
	Request    ClientRequest `json:"request"`
	Config     TimerConfig   `json:"config"`
	CostSoFar  float64       `json:"cost_so_far"`
}

type documentResponse struct {
	Document Document `json:"document"`
}

type dataResponse struct {
	Data DataArtifact `json:"data"`
}

// SubmitRequest carries the notes written for one step.
type SubmitRequest struct {
	Step     string `json:"step"`
	Content  string `json:"content"`
	TimeUsed int    `json:"time_used"`
}

// SubmitResponse acknowledges a SubmitRequest.
type SubmitResponse struct {
	Status string `json:"status"`
	Step   string `json:"step"`
}

// ScoredFeedback is a 1-5 score with commentary.
type ScoredFeedback struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// ConceptFeedback lists concepts found and missed in one document.
type ConceptFeedback struct {
	Found    []string `json:"found"`
	Missed   []string `json:"missed"`
	Feedback string   `json:"feedback"`
}

// ConceptExtraction groups per-document concept feedback.
type ConceptExtraction struct {
	Doc1 ConceptFeedback `json:"doc1"`
	Doc2 ConceptFeedback `json:"doc2"`
	Doc3 ConceptFeedback `json:"doc3"`
}

// ForDoc returns the feedback for document n (1-3).
func (c ConceptExtraction) ForDoc(n int) ConceptFeedback {
	switch n {
	case 1:
		return c.Doc1
	case 2:
		return c.Doc2
	case 3:
		return c.Doc3
	}
	return ConceptFeedback{}
}

// PredictionFeedback grades the data predictions step.
type PredictionFeedback struct {
	Score              float64  `json:"score"`
	CorrectPredictions []string `json:"correct_predictions"`
	MissedPredictions  []string `json:"missed_predictions"`
	Feedback           string   `json:"feedback"`
}

// AnalysisFeedback grades the data analysis step.
type AnalysisFeedback struct {
	Score               float64  `json:"score"`
	CorrectObservations []string `json:"correct_observations"`
	MissedObservations  []string `json:"missed_observations"`
	Feedback            string   `json:"feedback"`
}

// OverallFeedback is the headline assessment.
type OverallFeedback struct {
	Score          float64 `json:"score"`
	Summary        string  `json:"summary"`
	TopImprovement string  `json:"top_improvement"`
}

// ReviewFeedback is the graded review of a whole session.
type ReviewFeedback struct {
	DeliverableUnderstanding ScoredFeedback     `json:"deliverable_understanding"`
	NoteQuality              ScoredFeedback     `json:"note_quality"`
	NoteEfficiency           ScoredFeedback     `json:"note_efficiency"`
	ConceptExtraction        ConceptExtraction  `json:"concept_extraction"`
	DataPredictions          PredictionFeedback `json:"data_predictions"`
	DataAnalysis             AnalysisFeedback   `json:"data_analysis"`
	Formatting               ScoredFeedback     `json:"formatting"`
	Overall                  OverallFeedback    `json:"overall"`
}

// Improvement compares a session against earlier ones.
type Improvement struct {
	Improvements     []string `json:"improvements"`
	PersistentIssues []string `json:"persistent_issues"`
	NewStrengths     []string `json:"new_strengths"`
	OverallTrend     string   `json:"overall_trend"`
	Recommendation   string   `json:"recommendation"`
}

// CallUsage is the token usage of one model call on the service side.
type CallUsage struct {
	Label        string `json:"label"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TokenUsage summarises the model usage accrued by a session.
type TokenUsage struct {
	TotalInputTokens  int         `json:"total_input_tokens"`
	TotalOutputTokens int         `json:"total_output_tokens"`
	CallCount         int         `json:"call_count"`
	Calls             []CallUsage `json:"calls"`
	EstimatedCost     float64     `json:"estimated_cost"`
}

// ReviewResponse is the result of reviewing a completed session.
// Improvement is nil when the service has no earlier sessions to compare.
type ReviewResponse struct {
	Feedback    ReviewFeedback `json:"feedback"`
	Improvement *Improvement   `json:"improvement"`
	TokenUsage  TokenUsage     `json:"token_usage"`
}

// ChecklistRow is one parameter the trainee recorded while reading.
type ChecklistRow struct {
	ID        string `json:"id"`
	Parameter string `json:"parameter"`
	Check     string `json:"check"`
}

type checklistRequest struct {
	DocNum    int            `json:"doc_num"`
	Checklist []ChecklistRow `json:"checklist"`
}

// ChecklistFeedback reports what a checklist captured and missed.
type ChecklistFeedback struct {
	Captured []string `json:"captured"`
	Missed   []string `json:"missed"`
	Feedback string   `json:"feedback"`
}

// ChecklistResponse is returned by the checklist review endpoint.
type ChecklistResponse struct {
	Feedback  ChecklistFeedback `json:"feedback"`
	CostSoFar float64           `json:"cost_so_far"`
}

// Session statuses reported by GetSession.
const (
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
)

// SessionRecord is a full session as stored by the service. Scenario is kept
// raw because it includes rubric material the client never interprets.
type SessionRecord struct {
	SessionID     string            `json:"session_id"`
	Timestamp     string            `json:"timestamp"`
	ModelUsed     string            `json:"model_used,omitempty"`
	Domain        string            `json:"domain,omitempty"`
	Difficulty    string            `json:"difficulty,omitempty"`
	Scenario      json.RawMessage   `json:"scenario,omitempty"`
	UserResponses map[string]string `json:"user_responses"`
	TimeUsed      map[string]int    `json:"time_used"`
	Feedback      *ReviewFeedback   `json:"feedback,omitempty"`
	Improvement   *Improvement      `json:"improvement,omitempty"`
	TokenUsage    *TokenUsage       `json:"token_usage,omitempty"`
	Status        string            `json:"status"`
}

// SessionSummary is one row of the session history.
type SessionSummary struct {
	SessionID     string   `json:"session_id"`
	Timestamp     string   `json:"timestamp"`
	Domain        string   `json:"domain"`
	Difficulty    string   `json:"difficulty"`
	ModelUsed     string   `json:"model_used"`
	OverallScore  *float64 `json:"overall_score"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

type sessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// CostReport is the running cost of an active session.
type CostReport struct {
	Cost   float64    `json:"cost"`
	Limit  float64    `json:"limit"`
	Tokens TokenUsage `json:"tokens"`
}

// Settings is the service's mutable configuration.
type Settings struct {
	ModelKey         string            `json:"model_key"`
	ModelName        string            `json:"model_name"`
	AvailableModels  map[string]string `json:"available_models"`
	TimerRequest     int               `json:"timer_request"`
	TimerDocument    int               `json:"timer_document"`
	TimerPredictions int               `json:"timer_predictions"`
	TimerData        int               `json:"timer_data"`
	CostLimit        float64           `json:"cost_limit"`
	Domain           *string           `json:"domain"`
	Difficulty       string            `json:"difficulty"`
}

// SettingsUpdate is a partial update. Nil fields are left unchanged.
type SettingsUpdate struct {
	ModelKey         *string  `json:"model_key,omitempty"`
	TimerRequest     *int     `json:"timer_request,omitempty"`
	TimerDocument    *int     `json:"timer_document,omitempty"`
	TimerPredictions *int     `json:"timer_predictions,omitempty"`
	TimerData        *int     `json:"timer_data,omitempty"`
	CostLimit        *float64 `json:"cost_limit,omitempty"`
	Domain           *string  `json:"domain,omitempty"`
	Difficulty       *string  `json:"difficulty,omitempty"`
}

// Quick practice durations.
const (
	QuickModeShort  = "2.5min"
	QuickModeMedium = "5min"
	QuickModeLong   = "10min"
)

// QuickModes lists the accepted duration modes.
var QuickModes = []string{QuickModeShort, QuickModeMedium, QuickModeLong}

// QuickDocument is a bulleted source document for quick practice.
type QuickDocument struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// QuickStartResponse is returned when a quick practice session starts.
type QuickStartResponse struct {
	SessionID    string          `json:"session_id"`
	Question     string          `json:"question"`
	Documents    []QuickDocument `json:"documents"`
	TimerSeconds int             `json:"timer_seconds"`
}

type quickStartRequest struct {
	DurationMode string `json:"duration_mode"`
}

// QuickSubmitRequest is the trainee's answer to a quick practice question.
type QuickSubmitRequest struct {
	Response string `json:"response"`
	TimeUsed int    `json:"time_used"`
	Device   string `json:"device"`
}

// QuickFeedback grades a quick practice answer on a 1-10 scale.
type QuickFeedback struct {
	Score              float64  `json:"score"`
	KeyFactsIdentified []string `json:"key_facts_identified"`
	KeyFactsMissed     []string `json:"key_facts_missed"`
	LanguageFeedback   string   `json:"language_feedback"`
	StructureFeedback  string   `json:"structure_feedback"`
	DensitySuggestion  string   `json:"density_suggestion"`
	IdealResponse      string   `json:"ideal_response"`
	OverallComment     string   `json:"overall_comment"`
}

type quickSubmitResponse struct {
	Feedback QuickFeedback `json:"feedback"`
}

// QuickSessionSummary is one row of the quick practice history.
type QuickSessionSummary struct {
	SessionID    string        `json:"session_id"`
	Timestamp    string        `json:"timestamp"`
	DurationMode string        `json:"duration_mode"`
	Question     string        `json:"question"`
	UserResponse string        `json:"user_response"`
	Feedback     QuickFeedback `json:"feedback"`
	Device       string        `json:"device"`
}

type quickSessionsResponse struct {
	Sessions []QuickSessionSummary `json:"sessions"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}
