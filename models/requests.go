package models

// Model_Request is everything a backend needs for one inference call.
type Model_Request struct {
	Model              string                `json:"model,omitempty"`
	Contents           []Turn                `json:"contents"`
	System_Instruction string                `json:"system_instruction,omitempty"`
	Tools              []FunctionDeclaration `json:"tools,omitempty"`
}

// Chat_Request is the body accepted by the chat endpoints.
type Chat_Request struct {
	Message string `json:"message" binding:"required"`
}

// Chat_Reply is returned once a turn has completed.
type Chat_Reply struct {
	Conversation_ID string   `json:"conversation_id"`
	Reply           string   `json:"reply"`
	Tools           []string `json:"tools,omitempty"`
}
