package server

import (
	"errors"
	"net/http"

	nexus "github.com/Desarso/nexus"
	"github.com/Desarso/nexus/models"
	"github.com/Desarso/nexus/sessions"
	"github.com/Desarso/nexus/stores"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConversationCreated is returned when a new conversation is opened.
type ConversationCreated struct {
	Conversation_ID string           `json:"conversation_id"`
	Messages        []models.Message `json:"messages"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Fatal  bool   `json:"fatal,omitempty"`
}

// createConversation godoc
//
//	@Summary	Open a conversation
//	@Tags		chat
//	@Produce	json
//	@Success	201	{object}	ConversationCreated
//	@Failure	500	{object}	ErrorResponse
//	@Router		/conversations [post]
func (s *Server) createConversation(c *gin.Context) {
	id := uuid.NewString()
	if s.app.Store != nil {
		if err := s.app.Store.CreateConversation(id); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}
	session, _ := s.app.Sessions.GetOrCreate(id)
	c.JSON(http.StatusCreated, ConversationCreated{Conversation_ID: id, Messages: session.Messages()})
}

// listConversations godoc
//
//	@Summary	List persisted conversations
//	@Tags		chat
//	@Produce	json
//	@Success	200	{array}		stores.ConversationInfo
//	@Failure	500	{object}	ErrorResponse
//	@Router		/conversations [get]
func (s *Server) listConversations(c *gin.Context) {
	if s.app.Store == nil {
		c.JSON(http.StatusOK, []stores.ConversationInfo{})
		return
	}
	convs, err := s.app.Store.ListConversations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, convs)
}

// chat godoc
//
//	@Summary	Send one staff message
//	@Tags		chat
//	@Accept		json
//	@Produce	json
//	@Param		conversationID	path		string				true	"Conversation id"
//	@Param		request			body		models.Chat_Request	true	"Message"
//	@Success	200				{object}	models.Chat_Reply
//	@Failure	400				{object}	ErrorResponse
//	@Failure	409				{object}	ErrorResponse
//	@Failure	502				{object}	ErrorResponse
//	@Router		/chat/{conversationID} [post]
func (s *Server) chat(c *gin.Context) {
	conversationID := c.Param("conversationID")

	var req models.Chat_Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, _ := s.app.Sessions.GetOrCreate(conversationID)

	ctx, cancel := s.turnContext(c.Request.Context())
	defer cancel()

	var tools []string
	reply, err := session.SendTurn(ctx, req.Message, nexus.ObserverFunc(func(e sessions.Event) {
		if e.Type == sessions.EventToolStart {
			tools = append(tools, e.ToolName)
		}
	}))
	if err != nil {
		c.JSON(turnStatus(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, models.Chat_Reply{Conversation_ID: conversationID, Reply: reply, Tools: tools})
}

func errorBody(err error) ErrorResponse {
	var agentErr *sessions.AgentError
	if errors.As(err, &agentErr) {
		return ErrorResponse{Error: sessions.ApologyText, Detail: agentErr.Error(), Fatal: agentErr.Fatal}
	}
	return ErrorResponse{Error: err.Error()}
}

// reset godoc
//
//	@Summary	Clear the model history of a conversation
//	@Tags		chat
//	@Produce	json
//	@Param		conversationID	path		string	true	"Conversation id"
//	@Success	200				{object}	map[string]string
//	@Failure	404				{object}	ErrorResponse
//	@Router		/chat/{conversationID} [delete]
func (s *Server) reset(c *gin.Context) {
	session, ok := s.app.Sessions.Get(c.Param("conversationID"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// history godoc
//
//	@Summary	Transcript of a conversation
//	@Tags		chat
//	@Produce	json
//	@Param		conversationID	path		string	true	"Conversation id"
//	@Success	200				{object}	map[string][]models.Message
//	@Failure	404				{object}	ErrorResponse
//	@Router		/chat/history/{conversationID} [get]
func (s *Server) history(c *gin.Context) {
	conversationID := c.Param("conversationID")

	if session, ok := s.app.Sessions.Get(conversationID); ok {
		c.JSON(http.StatusOK, gin.H{"history": session.Messages()})
		return
	}
	if s.app.Store != nil {
		msgs, err := s.app.Store.FetchTranscript(conversationID, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		if len(msgs) > 0 {
			c.JSON(http.StatusOK, gin.H{"history": msgs})
			return
		}
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
}

// traces godoc
//
//	@Summary	Sub-agent executions of a conversation
//	@Tags		chat
//	@Produce	json
//	@Param		conversationID	path		string	true	"Conversation id"
//	@Success	200				{object}	map[string][]stores.ToolTrace
//	@Router		/chat/traces/{conversationID} [get]
func (s *Server) traces(c *gin.Context) {
	conversationID := c.Param("conversationID")

	if s.app.Store != nil {
		traces, err := s.app.Store.GetTracesByConversation(conversationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"traces": traces})
		return
	}

	traces := []stores.ToolTrace{}
	if session, ok := s.app.Sessions.Get(conversationID); ok {
		traces = session.ToolTraces()
	}
	c.JSON(http.StatusOK, gin.H{"traces": traces})
}

// quickActions godoc
//
//	@Summary	Canned staff requests
//	@Tags		chat
//	@Produce	json
//	@Success	200	{array}	models.QuickAction
//	@Router		/quick-actions [get]
func (s *Server) quickActions(c *gin.Context) {
	c.JSON(http.StatusOK, nexus.QuickActions)
}
