package models

import "time"

// Message is one entry of the transcript shown to staff. It is immutable once
// appended and never deleted; resetting a conversation leaves it in place.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user", "model", "system"
	Text      string    `json:"text"`
	ToolName  string    `json:"tool_name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QuickAction is a canned staff request offered by the front end.
type QuickAction struct {
	Label    string `json:"label"`
	SubLabel string `json:"sub_label"`
	Prompt   string `json:"prompt"`
}
