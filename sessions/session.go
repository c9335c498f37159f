package sessions

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Desarso/nexus/models"
	"github.com/Desarso/nexus/stores"
	"github.com/Desarso/nexus/subagents"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is one conversation: the model-facing history, the staff-facing
// transcript and the tool traces. Only one turn runs at a time.
type Session struct {
	Agent          AgentInterface
	ConversationID string
	Store          stores.MessageStore // optional
	Traces         stores.TraceStore   // optional
	Logger         zerolog.Logger

	mu         sync.Mutex
	history    []models.Turn
	messages   []models.Message
	traces     []stores.ToolTrace
	generation uint64
	busy       bool
	attached   int
	lastActive time.Time
}

// SendTurn runs one user utterance through the model, dispatches any
// sub-agent calls it asks for and returns the final reply text.
//
// On failure the history keeps whatever was appended before the failing
// step, an apology is added to the transcript and an *AgentError is returned.
func (s *Session) SendTurn(ctx context.Context, text string, observer Observer) (string, error) {
	gen, err := s.begin()
	if err != nil {
		return "", err
	}
	defer s.finish()

	if observer == nil {
		observer = ObserverFunc(func(Event) {})
	}

	s.record(models.RoleUser, text, "")
	if !s.appendTurn(gen, models.NewUserTurn(text)) {
		return "", ErrConversationReset
	}

	resp, err := s.Agent.Run(ctx, s.requestHistory())
	if err != nil {
		return "", s.fail(gen, PhaseFirstResponse, err)
	}

	cand, _ := resp.FirstCandidate()
	calls := cand.FunctionCalls()
	if len(calls) == 0 {
		reply := cand.Text()
		if !s.appendTurn(gen, models.NewModelTurn(reply)) {
			return "", ErrConversationReset
		}
		s.record(models.RoleModel, reply, "")
		return reply, nil
	}

	if !s.appendTurn(gen, models.NewFunctionCallTurn(cand.Parts)) {
		return "", ErrConversationReset
	}

	responses := make([]models.FunctionResponse, 0, len(calls))
	toolNames := make([]string, 0, len(calls))
	for _, call := range calls {
		result, err := s.runTool(ctx, call, observer)
		if err != nil {
			return "", s.fail(gen, PhaseToolExecution, err)
		}
		responses = append(responses, models.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: map[string]interface{}{"result": result.Map()},
		})
		toolNames = append(toolNames, call.Name)
	}

	if !s.appendTurn(gen, models.NewFunctionResponseTurn(responses)) {
		return "", ErrConversationReset
	}

	resp, err = s.Agent.Run(ctx, s.requestHistory())
	if err != nil {
		return "", s.fail(gen, PhaseSecondResponse, err)
	}

	reply := resp.Text()
	if reply == "" {
		reply = FallbackReply
	}
	if !s.appendTurn(gen, models.NewModelTurn(reply)) {
		return "", ErrConversationReset
	}
	s.record(models.RoleModel, reply, strings.Join(toolNames, ","))
	return reply, nil
}

func (s *Session) runTool(ctx context.Context, call models.FunctionCall, observer Observer) (subagents.Result, error) {
	label := subagents.Label(call.Name)
	start := time.Now()

	observer.OnEvent(Event{Type: EventToolStart, ToolName: call.Name, CallID: call.ID, Label: label})
	s.trace(call, label, stores.TraceStart, "", start, 0)

	result, err := s.Agent.ExecuteTool(ctx, call.Name, call.Args)
	elapsed := time.Since(start)
	if err != nil {
		s.trace(call, label, stores.TraceError, "", time.Now(), elapsed)
		return subagents.Result{}, err
	}

	observer.OnEvent(Event{
		Type:     EventToolEnd,
		ToolName: call.Name,
		CallID:   call.ID,
		Label:    label,
		Status:   result.Status,
		Duration: elapsed,
	})
	s.trace(call, label, stores.TraceEnd, string(result.Status), time.Now(), elapsed)

	s.Logger.Info().Str("tool", call.Name).Str("call_id", call.ID).
		Str("status", string(result.Status)).Dur("duration", elapsed).Msg("sub-agent finished")
	return result, nil
}

// Reset clears the history. The transcript is kept. A turn that is still
// running when Reset is called discards its remaining writes.
func (s *Session) Reset() {
	s.mu.Lock()
	s.history = nil
	s.generation++
	s.lastActive = time.Now()
	s.mu.Unlock()

	s.Logger.Info().Msg("conversation reset")
}

// History returns a copy of the model-facing history.
func (s *Session) History() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ToolTraces returns the traces recorded by this session.
func (s *Session) ToolTraces() []stores.ToolTrace {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]stores.ToolTrace, len(s.traces))
	copy(out, s.traces)
	return out
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Attach marks the session as held by a long-lived connection so idle
// sweeps leave it alone. The returned func releases the hold.
func (s *Session) Attach() (release func()) {
	s.mu.Lock()
	s.attached++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.attached--
			s.lastActive = time.Now()
			s.mu.Unlock()
		})
	}
}

func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached > 0
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return 0, ErrTurnInFlight
	}
	s.busy = true
	s.lastActive = time.Now()
	return s.generation, nil
}

func (s *Session) finish() {
	s.mu.Lock()
	s.busy = false
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// appendTurn adds turn unless the session was reset since gen.
func (s *Session) appendTurn(gen uint64, turn models.Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.history = append(s.history, turn)
	return true
}

func (s *Session) requestHistory() []models.Turn {
	history := s.History()
	sanitized := SanitizeHistory(history)
	if len(sanitized) != len(history) {
		s.Logger.Warn().
			Int("dropped", len(history)-len(sanitized)).
			Strs("issues", DetectCorruptedHistory(history)).
			Msg("sanitized history before request")
	}
	return sanitized
}

func (s *Session) fail(gen uint64, phase string, err error) error {
	s.mu.Lock()
	reset := s.generation != gen
	s.mu.Unlock()
	if reset {
		return ErrConversationReset
	}

	agentErr := newAgentError(phase, err)
	s.Logger.Error().Err(err).Str("phase", phase).Bool("fatal", agentErr.Fatal).Msg("turn failed")
	s.record(models.RoleSystem, ApologyText, "")
	return agentErr
}

// record appends to the transcript and mirrors it to the store when one is set.
func (s *Session) record(role, text, toolName string) models.Message {
	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		ToolName:  toolName,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	if s.Store != nil {
		if err := s.Store.SaveMessage(s.ConversationID, msg); err != nil {
			s.Logger.Error().Err(err).Str("role", role).Msg("failed to persist transcript message")
		}
	}
	return msg
}

func (s *Session) trace(call models.FunctionCall, label, status, resultStatus string, at time.Time, elapsed time.Duration) {
	tr := stores.ToolTrace{
		ConversationID: s.ConversationID,
		ToolCallID:     call.ID,
		Tool:           call.Name,
		Label:          label,
		Status:         status,
		ResultStatus:   resultStatus,
		Timestamp:      at.UnixMilli(),
		DurationMS:     elapsed.Milliseconds(),
	}

	s.mu.Lock()
	s.traces = append(s.traces, tr)
	s.mu.Unlock()

	if s.Traces != nil {
		if err := s.Traces.SaveTrace(&tr); err != nil {
			s.Logger.Error().Err(err).Str("tool", call.Name).Msg("failed to persist tool trace")
		}
	}
}
