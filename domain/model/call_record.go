package model

import (
	"encoding/json"
	"time"
)

// StatusNoResponse is recorded as the response code when an attempt ended
// before any upstream response was received.
const StatusNoResponse = 0

// ActionType labels written into call records.
const (
	ActionTypeDispatchPrefix = "api_test_"
	ActionTypePostCreation   = "post_creation"
)

// ManualPostPrompt marks content ledger entries written by the single-post path.
const ManualPostPrompt = "Manual admin post trigger"

// CallRecord is one append-only audit row per attempted external call (facebook_api_logs).
type CallRecord struct {
	ID           string          `json:"id"`
	UserID       *string         `json:"user_id,omitempty"`
	Endpoint     string          `json:"endpoint"`
	Method       string          `json:"method"`
	ActionType   string          `json:"action_type"`
	ResponseCode int             `json:"response_code"`
	RequestBody  json.RawMessage `json:"request_body,omitempty"`
	ResponseBody json.RawMessage `json:"response_body,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ContentLogEntry records content that was actually published (posts_log).
type ContentLogEntry struct {
	ID               string     `json:"id"`
	PageID           string     `json:"page_id"`
	CampaignID       *string    `json:"campaign_id,omitempty"`
	GeneratedContent string     `json:"generated_content"`
	AIPromptUsed     string     `json:"ai_prompt_used"`
	ExternalPostID   *string    `json:"external_post_id,omitempty"`
	PostedAt         *time.Time `json:"posted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CallResult is the normalized outcome of one adapter call.
type CallResult struct {
	Endpoint    string          `json:"endpoint"`
	Method      string          `json:"method"`
	StatusCode  int             `json:"status_code"`
	Summary     string          `json:"summary"`
	Response    json.RawMessage `json:"response"`
	RequestBody json.RawMessage `json:"request_body,omitempty"`
	// ErrorMessage carries the platform's own message for non-2xx responses.
	ErrorMessage  string `json:"error_message,omitempty"`
	Unimplemented bool   `json:"unimplemented,omitempty"`
}

// OK reports a 2xx upstream status.
func (r *CallResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CallRecordFilter narrows the reporting listing.
type CallRecordFilter struct {
	UserID     string
	ActionType string
	Limit      int
	Offset     int
}

// CallRecordedEvent is published after a call record is durably stored.
// Bodies are left out; consumers fetch them from the store.
type CallRecordedEvent struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"user_id,omitempty"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	ActionType   string    `json:"action_type"`
	ResponseCode int       `json:"response_code"`
	Failed       bool      `json:"failed"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewCallRecordedEvent(rec *CallRecord) CallRecordedEvent {
	return CallRecordedEvent{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Endpoint:     rec.Endpoint,
		Method:       rec.Method,
		ActionType:   rec.ActionType,
		ResponseCode: rec.ResponseCode,
		Failed:       rec.ErrorMessage != nil,
		CreatedAt:    rec.CreatedAt,
	}
}
