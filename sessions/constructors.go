package sessions

import (
	"time"

	"github.com/Desarso/nexus/models"
	"github.com/Desarso/nexus/stores"
	"github.com/rs/zerolog"
)

type Option func(*sessionOptions)

type sessionOptions struct {
	store   stores.MessageStore
	traces  stores.TraceStore
	logger  zerolog.Logger
	primer  bool
	welcome bool
}

// WithStore mirrors the transcript to store.
func WithStore(store stores.MessageStore) Option {
	return func(o *sessionOptions) { o.store = store }
}

// WithTraceStore persists tool traces.
func WithTraceStore(traces stores.TraceStore) Option {
	return func(o *sessionOptions) { o.traces = traces }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *sessionOptions) { o.logger = logger }
}

// WithPrimer seeds the history with the initialization exchange.
func WithPrimer() Option {
	return func(o *sessionOptions) { o.primer = true }
}

// WithWelcome opens the transcript with the welcome message.
func WithWelcome() Option {
	return func(o *sessionOptions) { o.welcome = true }
}

// NewSession creates a session for conversationID. When the store already
// holds a transcript for it, that transcript is loaded and no welcome
// message is added.
func NewSession(conversationID string, agent AgentInterface, opts ...Option) *Session {
	o := sessionOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		Agent:          agent,
		ConversationID: conversationID,
		Store:          o.store,
		Traces:         o.traces,
		Logger:         o.logger.With().Str("conversation", conversationID).Logger(),
		lastActive:     time.Now(),
	}

	if o.primer {
		s.history = []models.Turn{
			models.NewUserTurn(PrimerUserText),
			models.NewModelTurn(PrimerModelText),
		}
	}

	if s.Store != nil {
		existing, err := s.Store.FetchTranscript(conversationID, 0)
		if err != nil {
			s.Logger.Error().Err(err).Msg("failed to load transcript")
		}
		s.messages = existing
	}

	if o.welcome && len(s.messages) == 0 {
		s.record(models.RoleModel, WelcomeMessage, "")
	}
	return s
}
