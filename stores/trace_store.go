package stores

import (
	"time"
)

// Trace statuses
const (
	TraceStart = "start"
	TraceEnd   = "end"
	TraceError = "error"
)

// ToolTrace records one step of a sub-agent execution.
// Indexed by conversation_id and tool_call_id for efficient retrieval
type ToolTrace struct {
	ID             uint      `gorm:"primarykey" json:"-"`
	CreatedAt      time.Time `json:"-"`
	ConversationID string    `gorm:"index:idx_trace_conv;not null" json:"conversation_id"`
	ToolCallID     string    `gorm:"index:idx_trace_conv;index:idx_trace_tool;not null" json:"tool_call_id"`
	Tool           string    `gorm:"not null" json:"tool"`
	Label          string    `json:"label"`
	Status         string    `gorm:"not null" json:"status"`  // start, end, error
	ResultStatus   string    `json:"result_status,omitempty"` // success, error
	Timestamp      int64     `gorm:"not null" json:"timestamp"`
	DurationMS     int64     `json:"duration_ms,omitempty"`
}

// TraceStore interface for trace persistence operations
type TraceStore interface {
	// SaveTrace saves a single trace event
	SaveTrace(trace *ToolTrace) error

	// GetTracesByConversation retrieves all traces for a conversation
	GetTracesByConversation(conversationID string) ([]*ToolTrace, error)

	// GetTracesByToolCall retrieves all traces for a specific tool call
	GetTracesByToolCall(toolCallID string) ([]*ToolTrace, error)

	// DeleteTracesByConversation removes all traces for a conversation
	DeleteTracesByConversation(conversationID string) error
}

// SaveTrace saves a single trace event
func (s *gormStore) SaveTrace(trace *ToolTrace) error {
	if s.db == nil {
		return errNilDB
	}
	return s.db.Create(trace).Error
}

// GetTracesByConversation retrieves all traces for a conversation, oldest first
func (s *gormStore) GetTracesByConversation(conversationID string) ([]*ToolTrace, error) {
	if s.db == nil {
		return nil, errNilDB
	}

	var traces []*ToolTrace
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").Order("id ASC").
		Find(&traces).Error

	return traces, err
}

// GetTracesByToolCall retrieves all traces for a specific tool call
func (s *gormStore) GetTracesByToolCall(toolCallID string) ([]*ToolTrace, error) {
	if s.db == nil {
		return nil, errNilDB
	}

	var traces []*ToolTrace
	err := s.db.Where("tool_call_id = ?", toolCallID).
		Order("timestamp ASC").Order("id ASC").
		Find(&traces).Error

	return traces, err
}

// DeleteTracesByConversation removes all traces for a conversation
func (s *gormStore) DeleteTracesByConversation(conversationID string) error {
	if s.db == nil {
		return errNilDB
	}
	return s.db.Where("conversation_id = ?", conversationID).Delete(&ToolTrace{}).Error
}
