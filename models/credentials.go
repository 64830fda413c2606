package models

// Credentials carry the catalog service session for a single call.
// They are passed explicitly to every service method that talks to the
// catalog API instead of being read from ambient storage.
type Credentials struct {
	APIKey    string `json:"apiKey"`
	SessionID string `json:"sessionId,omitempty"`
}
