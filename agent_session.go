package nexus

import (
	"github.com/Desarso/nexus/sessions"
)

// Re-export session types so callers only need the root package
type Session = sessions.Session
type Observer = sessions.Observer
type ObserverFunc = sessions.ObserverFunc
type Event = sessions.Event
type AgentError = sessions.AgentError
type AgentInterface = sessions.AgentInterface

var (
	ErrTurnInFlight      = sessions.ErrTurnInFlight
	ErrConversationReset = sessions.ErrConversationReset
)

// NewSession creates a standalone session around agent.
func NewSession(conversationID string, agent *Agent, opts ...sessions.Option) *Session {
	return sessions.NewSession(conversationID, agent, opts...)
}
