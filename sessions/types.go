package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Desarso/nexus/models"
	"github.com/Desarso/nexus/models/gemini"
	"github.com/Desarso/nexus/subagents"
)

// Texts the orchestrator produces itself.
const (
	WelcomeMessage = "Welcome to the Hospital System. I am your AI Coordinator. How can I help you today? " +
		"I can connect you with Medical Records, Billing, Patient Management or Scheduling."
	FallbackReply   = "I processed the request but have no further comments."
	ApologyText     = "Sorry, an error occurred while processing your request. Please try again."
	PrimerUserText  = "System initialization."
	PrimerModelText = "System initialized. Waiting for requests."
)

var (
	// ErrTurnInFlight is returned when a turn is sent while another is still running.
	ErrTurnInFlight = errors.New("a turn is already in progress for this conversation")
	// ErrConversationReset is returned by a turn that was overtaken by Reset.
	ErrConversationReset = errors.New("conversation was reset while the turn was running")
)

// Phases at which a turn can fail.
const (
	PhaseFirstResponse  = "first_response"
	PhaseToolExecution  = "tool_execution"
	PhaseSecondResponse = "second_response"
)

// AgentError represents errors that can occur during agent operations
type AgentError struct {
	Phase string
	Err   error
	Fatal bool // configuration problems that will not go away on retry
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

func newAgentError(phase string, err error) *AgentError {
	return &AgentError{
		Phase: phase,
		Err:   err,
		Fatal: errors.Is(err, gemini.ErrMissingCredential),
	}
}

// AgentInterface defines the interface that agents must implement
type AgentInterface interface {
	Run(ctx context.Context, history []models.Turn) (models.Model_Response, error)
	ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (subagents.Result, error)
}

type EventType string

const (
	EventToolStart EventType = "tool_start"
	EventToolEnd   EventType = "tool_end"
)

// Event reports sub-agent progress while a turn runs.
type Event struct {
	Type     EventType
	ToolName string
	CallID   string
	Label    string
	Status   subagents.Status // set on EventToolEnd
	Duration time.Duration    // set on EventToolEnd
}

// Observer receives progress events. It is called synchronously from the
// goroutine running the turn.
type Observer interface {
	OnEvent(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
