package stores

import (
	"time"

	"github.com/Desarso/nexus/models"
	"gorm.io/gorm"
)

// Message is one persisted transcript entry. Rows are only ever inserted.
type Message struct {
	gorm.Model
	MessageID      string    `gorm:"uniqueIndex;not null"`
	ConversationID string    `gorm:"index;not null"`
	Sequence       int       `gorm:"not null"`
	Role           string    `gorm:"not null"` // "user", "model", "system"
	Text           string    `gorm:"type:text"`
	ToolName       string    `gorm:"index"`
	Timestamp      time.Time `gorm:"not null"`
}

func (m Message) ToModel() models.Message {
	return models.Message{
		ID:        m.MessageID,
		Role:      m.Role,
		Text:      m.Text,
		ToolName:  m.ToolName,
		Timestamp: m.Timestamp,
	}
}

// Conversation holds metadata for a chat conversation
type Conversation struct {
	gorm.Model
	ConversationID string    `gorm:"uniqueIndex;not null"`
	MessageCount   int       `gorm:"default:0"`
	Messages       []Message `gorm:"foreignKey:ConversationID;references:ConversationID"`
}

// ConversationInfo holds basic conversation metadata for listing
type ConversationInfo struct {
	ConversationID string `json:"conversation_id"`
	MessageCount   int    `json:"message_count"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// MessageStore persists the staff-facing transcript.
type MessageStore interface {
	// Message operations
	SaveMessage(conversationID string, msg models.Message) error
	FetchTranscript(conversationID string, limit int) ([]models.Message, error)

	// Conversation operations
	CreateConversation(conversationID string) error
	ListConversations() ([]ConversationInfo, error)

	// Connection management
	Connect() error
	Close() error

	// Health check
	Ping() error
}

// Store is a MessageStore that also keeps tool traces.
type Store interface {
	MessageStore
	TraceStore
}

// StoreConfig holds configuration for database stores
type StoreConfig struct {
	Type       string            `json:"type"`       // "sqlite", "postgres"
	Connection string            `json:"connection"` // connection string
	Options    map[string]string `json:"options"`    // additional options
}

// NewStoreConfig creates a new store configuration
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
		Options:    make(map[string]string),
	}
}

// WithOption adds an option to the store configuration
func (c *StoreConfig) WithOption(key, value string) *StoreConfig {
	c.Options[key] = value
	return c
}
