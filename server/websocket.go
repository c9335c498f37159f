package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Desarso/nexus/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Client frame types
const (
	FrameMessage = "message"
	FrameReset   = "reset"
)

// Server frame types
const (
	FrameToolStart = "tool_start"
	FrameReply     = "reply"
	FrameError     = "error"
	FrameDone      = "done"
)

type ClientFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type ServerFrame struct {
	Type    string   `json:"type"`
	Tool    string   `json:"tool,omitempty"`
	Label   string   `json:"label,omitempty"`
	Text    string   `json:"text,omitempty"`
	Tools   []string `json:"tools,omitempty"`
	Message string   `json:"message,omitempty"`
	Fatal   bool     `json:"fatal,omitempty"`
}

// wsWriter serializes writes; gorilla connections allow one concurrent writer.
type wsWriter struct {
	conn   *websocket.Conn
	logger zerolog.Logger
	mu     sync.Mutex
}

func (w *wsWriter) write(frame ServerFrame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := w.conn.WriteJSON(frame); err != nil {
		w.logger.Debug().Err(err).Str("frame", frame.Type).Msg("websocket write failed")
	}
}

// websocketChat godoc
//
//	@Summary	Live chat with sub-agent progress frames
//	@Tags		chat
//	@Param		conversationID	path	string	true	"Conversation id"
//	@Router		/ws/chat/{conversationID} [get]
func (s *Server) websocketChat(c *gin.Context) {
	conversationID := c.Param("conversationID")

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := s.logger.With().Str("conversation", conversationID).Logger()
	writer := &wsWriter{conn: conn, logger: logger}
	session, _ := s.app.Sessions.GetOrCreate(conversationID)
	release := session.Attach()
	defer release()

	// Turns outlive a single frame; the handler returns once they finish.
	var turns sync.WaitGroup
	defer turns.Wait()

	for {
		var frame ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket error")
			}
			break
		}

		switch frame.Type {
		case FrameMessage:
			if frame.Text == "" {
				writer.write(ServerFrame{Type: FrameError, Message: "message text is required"})
				continue
			}
			turns.Add(1)
			go func(text string) {
				defer turns.Done()
				s.runWebsocketTurn(c.Request.Context(), session, text, writer)
			}(frame.Text)

		case FrameReset:
			session.Reset()
			writer.write(ServerFrame{Type: FrameReset})

		default:
			writer.write(ServerFrame{Type: FrameError, Message: "unknown frame type: " + frame.Type})
		}
	}

	logger.Debug().Msg("websocket session ended")
}

func (s *Server) runWebsocketTurn(parent context.Context, session *sessions.Session, text string, writer *wsWriter) {
	ctx, cancel := s.turnContext(parent)
	defer cancel()

	var tools []string
	reply, err := session.SendTurn(ctx, text, sessions.ObserverFunc(func(e sessions.Event) {
		if e.Type != sessions.EventToolStart {
			return
		}
		tools = append(tools, e.ToolName)
		writer.write(ServerFrame{Type: FrameToolStart, Tool: e.ToolName, Label: e.Label})
	}))

	switch {
	case errors.Is(err, sessions.ErrTurnInFlight):
		// the running turn will send its own done frame
		writer.write(ServerFrame{Type: FrameError, Message: err.Error()})
		return
	case err != nil:
		body := errorBody(err)
		writer.write(ServerFrame{Type: FrameError, Message: body.Error, Fatal: body.Fatal})
	default:
		writer.write(ServerFrame{Type: FrameReply, Text: reply, Tools: tools})
	}
	writer.write(ServerFrame{Type: FrameDone})
}
