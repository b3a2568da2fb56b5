package model

import "time"

// Connection is one OAuth grant from a user to a social platform (social_connections).
type Connection struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Platform       string     `json:"provider"`
	AccessToken    string     `json:"-"`
	RefreshToken   *string    `json:"-"`
	LongLivedToken *string    `json:"-"`
	AccountID      *string    `json:"account_id,omitempty"`
	ExpiresAt      *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Page is a postable target (page, organization, subreddit) under a Connection (social_pages).
type Page struct {
	ID             string     `json:"id"`
	ConnectionID   string     `json:"connection_id"`
	UserID         string     `json:"user_id"`
	ExternalPageID string     `json:"page_id"`
	Name           string     `json:"page_name"`
	AccessToken    string     `json:"-"`
	Platform       *string    `json:"provider,omitempty"`
	ExpiresAt      *time.Time `json:"page_token_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Principal is the already-authenticated caller.
type Principal struct {
	UserID   string
	UserName string
}

// AccountCredential is a resolved, usable connection token.
type AccountCredential struct {
	ConnectionID string
	Platform     string
	AccountID    string
	Token        string
}

// PageCredential is a resolved page token together with the platform-side page id.
type PageCredential struct {
	PageID         string
	ExternalPageID string
	Name           string
	Token          string
}

// AdapterCall is everything a platform adapter needs for one request.
type AdapterCall struct {
	Platform string
	Feature  string
	Account  AccountCredential
	Page     *PageCredential
	Content  string
	PostID   string
}
