package stores

import (
	"errors"
	"fmt"
	"time"

	"github.com/Desarso/nexus/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNilDB = errors.New("database connection is nil")

// gormStore holds everything the SQLite and PostgreSQL stores share; they
// differ only in the dialector used to open the connection.
type gormStore struct {
	db        *gorm.DB
	dialector func() gorm.Dialector
	log       zerolog.Logger
}

// Connect opens the database and migrates the schema
func (s *gormStore) Connect() error {
	db, err := gorm.Open(s.dialector(), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return err
	}
	s.db = db

	if err := s.db.AutoMigrate(&Conversation{}, &Message{}, &ToolTrace{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	s.log.Debug().Str("dialect", db.Dialector.Name()).Msg("store connected")
	return nil
}

// Close closes the database connection
func (s *gormStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (s *gormStore) Ping() error {
	if s.db == nil {
		return errNilDB
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// SaveMessage appends one transcript message, creating the conversation on first use.
func (s *gormStore) SaveMessage(conversationID string, msg models.Message) error {
	if s.db == nil {
		return errNilDB
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Count() avoids "record not found" noise when checking existence
		var count int64
		if err := tx.Model(&Conversation{}).Where("conversation_id = ?", conversationID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up conversation %s: %w", conversationID, err)
		}
		if count == 0 {
			if err := tx.Create(&Conversation{ConversationID: conversationID}).Error; err != nil {
				return fmt.Errorf("failed to create conversation record: %w", err)
			}
		}

		if err := tx.Model(&Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count existing messages: %w", err)
		}
		seq := int(count) + 1

		ts := msg.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		row := Message{
			MessageID:      msg.ID,
			ConversationID: conversationID,
			Sequence:       seq,
			Role:           msg.Role,
			Text:           msg.Text,
			ToolName:       msg.ToolName,
			Timestamp:      ts,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create message record: %w", err)
		}

		if err := tx.Model(&Conversation{}).Where("conversation_id = ?", conversationID).Update("message_count", seq).Error; err != nil {
			return fmt.Errorf("failed to update conversation message count: %w", err)
		}
		return nil
	})
}

// FetchTranscript returns messages in sequence order.
// limit: maximum number of trailing messages to return (0 = all)
func (s *gormStore) FetchTranscript(conversationID string, limit int) ([]models.Message, error) {
	if s.db == nil {
		return nil, errNilDB
	}

	query := s.db.Where("conversation_id = ?", conversationID).Order("sequence ASC")
	if limit > 0 {
		var count int64
		if err := s.db.Model(&Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count messages: %w", err)
		}
		if count > int64(limit) {
			query = query.Offset(int(count) - limit)
		}
	}

	var rows []Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	msgs := make([]models.Message, len(rows))
	for i, r := range rows {
		msgs[i] = r.ToModel()
	}
	return msgs, nil
}

// CreateConversation creates a conversation record; existing ones are left alone.
func (s *gormStore) CreateConversation(conversationID string) error {
	if s.db == nil {
		return errNilDB
	}
	conv := Conversation{ConversationID: conversationID}
	return s.db.Where(Conversation{ConversationID: conversationID}).FirstOrCreate(&conv).Error
}

// ListConversations returns every conversation, most recently updated first.
func (s *gormStore) ListConversations() ([]ConversationInfo, error) {
	if s.db == nil {
		return nil, errNilDB
	}

	var convs []Conversation
	if err := s.db.Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	result := make([]ConversationInfo, len(convs))
	for i, c := range convs {
		result[i] = ConversationInfo{
			ConversationID: c.ConversationID,
			MessageCount:   c.MessageCount,
			CreatedAt:      c.CreatedAt.Format(time.RFC3339),
			UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
		}
	}
	return result, nil
}
