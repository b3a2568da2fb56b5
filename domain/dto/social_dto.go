package dto

import (
	"encoding/json"

	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
)

// DispatchRequest is the body of POST /api/social/dispatch.
type DispatchRequest struct {
	Platform     string `json:"platform"`
	Feature      string `json:"feature"`
	ConnectionID string `json:"connectionId"`
	PageID       string `json:"pageId,omitempty"`
	Content      string `json:"content,omitempty"`
	PostID       string `json:"postId,omitempty"`
}

// DispatchResponse is the success envelope. Success is false when the
// platform answered with a non-2xx status.
type DispatchResponse struct {
	Success       bool            `json:"success"`
	Endpoint      string          `json:"endpoint"`
	Method        string          `json:"method"`
	Summary       string          `json:"summary"`
	StatusCode    int             `json:"statusCode"`
	Unimplemented bool            `json:"unimplemented,omitempty"`
	Error         string          `json:"error,omitempty"`
	Response      json.RawMessage `json:"response"`
}

// SinglePostRequest is the body of POST /api/social/single-post.
type SinglePostRequest struct {
	PageID  string `json:"pageId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type SinglePostResponse struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId"`
	Message string `json:"message"`
}

// ErrorResponse is returned for every rejected request.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	ErrorType  string `json:"errorType,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

type PlatformFeatures struct {
	Platform feature.Platform     `json:"platform"`
	Features []feature.Descriptor `json:"features"`
}

type CallRecordList struct {
	Data   []model.CallRecord `json:"data"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// Res is the envelope used by the auth middleware.
type Res struct {
	ResponseCode    string      `json:"responseCode"`
	ResponseMessage string      `json:"responseMessage"`
	Data            interface{} `json:"data,omitempty"`
}
