package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
	"testing"

	nexus "github.com/Desarso/nexus"
	"github.com/Desarso/nexus/models"
	"github.com/Desarso/nexus/models/gemini"
	"github.com/Desarso/nexus/sessions"
	"github.com/Desarso/nexus/subagents"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type queuedModel struct {
	mu    sync.Mutex
	steps []func() (models.Model_Response, error)
}

func (m *queuedModel) Generate(ctx context.Context, request models.Model_Request) (models.Model_Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.steps) == 0 {
		return models.Model_Response{}, errors.New("no response queued")
	}
	step := m.steps[0]
	m.steps = m.steps[1:]
	resp, err := step()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.Model_Response{}, ctxErr
	}
	return resp, err
}

func (m *queuedModel) push(steps ...func() (models.Model_Response, error)) {
	m.mu.Lock()
	m.steps = append(m.steps, steps...)
	m.mu.Unlock()
}

func text(t string) func() (models.Model_Response, error) {
	return func() (models.Model_Response, error) {
		return models.Model_Response{Candidates: []models.Candidate{{Parts: []models.Part{{Text: t}}}}}, nil
	}
}

func call(id, name string, args map[string]interface{}) func() (models.Model_Response, error) {
	return func() (models.Model_Response, error) {
		return models.Model_Response{Candidates: []models.Candidate{{Parts: []models.Part{
			{FunctionCall: &models.FunctionCall{ID: id, Name: name, Args: args}},
		}}}}, nil
	}
}

func fail(err error) func() (models.Model_Response, error) {
	return func() (models.Model_Response, error) { return models.Model_Response{}, err }
}

func newTestServer(t *testing.T, storeType string) (*Server, *queuedModel) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := nexus.NewConfig().WithToolLatency(0)
	if storeType == nexus.StoreNone {
		cfg.WithoutStore()
	} else {
		cfg.WithSQLiteStore("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	}
	model := &queuedModel{}
	app, err := nexus.NewAppWithModel(cfg, model, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return New(app), model
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreSQLite)
	w := do(t, srv.Router(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"healthy"`)
}

func TestCreateConversation_SeedsWelcome(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreSQLite)
	w := do(t, srv.Router(), http.MethodPost, "/api/v1/conversations", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created ConversationCreated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Conversation_ID)
	require.Len(t, created.Messages, 1)
	require.Equal(t, sessions.WelcomeMessage, created.Messages[0].Text)

	convs, err := srv.app.Store.ListConversations()
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.Equal(t, created.Conversation_ID, convs[0].ConversationID)

	w = do(t, srv.Router(), http.MethodGet, "/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), created.Conversation_ID)
}

func TestChat_ToolRoundTrip(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreSQLite)
	model.push(
		call("c1", subagents.BillingInsuranceAgent, map[string]interface{}{"patientId": "P001", "action": "check_status"}),
		text("Budi has an outstanding bill INV500."),
	)
	router := srv.Router()

	w := do(t, router, http.MethodPost, "/api/v1/chat/conv-1", models.Chat_Request{Message: "billing for Budi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reply models.Chat_Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Equal(t, "Budi has an outstanding bill INV500.", reply.Reply)
	require.Equal(t, []string{subagents.BillingInsuranceAgent}, reply.Tools)

	w = do(t, router, http.MethodGet, "/api/v1/chat/history/conv-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		History []models.Message `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.History, 3)
	require.Equal(t, models.RoleUser, history.History[1].Role)

	w = do(t, router, http.MethodGet, "/api/v1/chat/traces/conv-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"tool_call_id":"c1"`)
}

func TestTurnContext_IgnoresClientCancellation(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreNone)
	srv.app.Config.TurnTimeout = time.Minute

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := srv.turnContext(parent)
	defer cancel()
	cancelParent()

	require.NoError(t, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	require.True(t, hasDeadline)
}

func TestChat_ClientDisconnectDoesNotAbortTurn(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreNone)
	release := make(chan struct{})
	model.push(func() (models.Model_Response, error) {
		<-release
		return text("done")()
	})
	router := srv.Router()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conv-gone", strings.NewReader(`{"message":"hello"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	finished := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(finished)
	}()

	require.Eventually(t, func() bool {
		s, ok := srv.app.Sessions.Get("conv-gone")
		return ok && s.Busy()
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	close(release)
	<-finished

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s, _ := srv.app.Sessions.Get("conv-gone")
	history := s.History()
	require.Equal(t, models.KindModelMessage, history[len(history)-1].Kind)
}

func TestChat_BackendFailureReturnsApology(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreNone)
	model.push(fail(errors.New("upstream 500")))

	w := do(t, srv.Router(), http.MethodPost, "/api/v1/chat/conv-err", models.Chat_Request{Message: "hi"})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, sessions.ApologyText, body.Error)
	require.False(t, body.Fatal)

	w = do(t, srv.Router(), http.MethodGet, "/api/v1/chat/history/conv-err", nil)
	require.Contains(t, w.Body.String(), sessions.ApologyText)
}

func TestChat_MissingCredentialIsFatal(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreNone)
	model.push(fail(gemini.ErrMissingCredential))

	w := do(t, srv.Router(), http.MethodPost, "/api/v1/chat/conv-key", models.Chat_Request{Message: "hi"})
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), `"fatal":true`)
}

func TestChat_RejectsEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreNone)
	w := do(t, srv.Router(), http.MethodPost, "/api/v1/chat/conv", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_ConflictWhileTurnInFlight(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreNone)
	release := make(chan struct{})
	model.push(func() (models.Model_Response, error) {
		<-release
		return text("done")()
	})
	router := srv.Router()

	done := make(chan int, 1)
	go func() {
		done <- do(t, router, http.MethodPost, "/api/v1/chat/busy", models.Chat_Request{Message: "first"}).Code
	}()

	require.Eventually(t, func() bool {
		s, ok := srv.app.Sessions.Get("busy")
		return ok && s.Busy()
	}, time.Second*2, time.Millisecond*5)

	w := do(t, router, http.MethodPost, "/api/v1/chat/busy", models.Chat_Request{Message: "second"})
	require.Equal(t, http.StatusConflict, w.Code)

	close(release)
	require.Equal(t, http.StatusOK, <-done)
}

func TestReset(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreNone)
	router := srv.Router()

	w := do(t, router, http.MethodDelete, "/api/v1/chat/unknown", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	model.push(text("hello"))
	w = do(t, router, http.MethodPost, "/api/v1/chat/r", models.Chat_Request{Message: "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/api/v1/chat/r", nil)
	require.Equal(t, http.StatusOK, w.Code)

	s, ok := srv.app.Sessions.Get("r")
	require.True(t, ok)
	require.Empty(t, s.History())
	require.Len(t, s.Messages(), 3)
}

func TestHistory_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreSQLite)
	w := do(t, srv.Router(), http.MethodGet, "/api/v1/chat/history/nobody", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuickActionsAndDoc(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreNone)
	router := srv.Router()

	w := do(t, router, http.MethodGet, "/api/v1/quick-actions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var actions []models.QuickAction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actions))
	require.Len(t, actions, 4)

	w = do(t, router, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Hospital System Nexus API")
	require.True(t, json.Valid(w.Body.Bytes()))
}

func TestDoc_CoversAPIRoutes(t *testing.T) {
	srv, _ := newTestServer(t, nexus.StoreNone)
	router := srv.Router()

	w := do(t, router, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	for _, route := range router.Routes() {
		path, ok := strings.CutPrefix(route.Path, "/api/v1")
		if !ok {
			continue
		}
		parts := strings.Split(path, "/")
		for i, p := range parts {
			if strings.HasPrefix(p, ":") {
				parts[i] = "{" + p[1:] + "}"
			}
		}
		path = strings.Join(parts, "/")
		_, found := doc.Paths[path][strings.ToLower(route.Method)]
		require.True(t, found, "%s %s missing from API description", route.Method, path)
	}
}

func TestWebsocketChat(t *testing.T) {
	srv, model := newTestServer(t, nexus.StoreNone)
	model.push(
		call("w1", subagents.AppointmentSchedulerAgent, map[string]interface{}{"action": "check_availability"}),
		text("Slots are 10:00 AM, 02:00 PM and 04:30 PM."),
	)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat/ws-conv"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameMessage, Text: "any free slots?"}))

	var frames []ServerFrame
	for {
		var f ServerFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Type == FrameDone {
			break
		}
	}
	require.Len(t, frames, 3)
	require.Equal(t, FrameToolStart, frames[0].Type)
	require.Equal(t, subagents.Label(subagents.AppointmentSchedulerAgent), frames[0].Label)
	require.Equal(t, FrameReply, frames[1].Type)
	require.Equal(t, "Slots are 10:00 AM, 02:00 PM and 04:30 PM.", frames[1].Text)

	session, ok := srv.app.Sessions.Get("ws-conv")
	require.True(t, ok)
	require.True(t, session.Attached())

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameReset}))
	var resetFrame ServerFrame
	require.NoError(t, conn.ReadJSON(&resetFrame))
	require.Equal(t, FrameReset, resetFrame.Type)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: "bogus"}))
	var errFrame ServerFrame
	require.NoError(t, conn.ReadJSON(&errFrame))
	require.Equal(t, FrameError, errFrame.Type)
}
