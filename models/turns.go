package models

const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// TurnKind mirrors the message types the stores have always used.
type TurnKind string

const (
	KindUserMessage      TurnKind = "user_message"
	KindModelMessage     TurnKind = "model_message"
	KindFunctionCall     TurnKind = "function_call"
	KindFunctionResponse TurnKind = "function_response"
)

// Turn is one role-tagged unit of conversation content.
// Function responses travel with the user role; Kind tells them apart.
type Turn struct {
	Role  string   `json:"role"`
	Kind  TurnKind `json:"kind"`
	Parts []Part   `json:"parts"`
}

type Part struct {
	Text             string            `json:"text,omitempty"`
	Thought          bool              `json:"thought,omitempty"`
	ThoughtSignature []byte            `json:"thought_signature,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
}

type FunctionCall struct {
	ID   string                 `json:"id,omitempty"` // Unique ID for this specific call instance
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// FunctionResponse represents a tool's response in user messages
type FunctionResponse struct {
	ID       string                 `json:"id,omitempty"`
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Kind: KindUserMessage, Parts: []Part{{Text: text}}}
}

func NewModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Kind: KindModelMessage, Parts: []Part{{Text: text}}}
}

// NewFunctionCallTurn keeps the model's parts untouched so call ids and
// thought signatures survive the round trip.
func NewFunctionCallTurn(parts []Part) Turn {
	cp := make([]Part, len(parts))
	copy(cp, parts)
	return Turn{Role: RoleModel, Kind: KindFunctionCall, Parts: cp}
}

func NewFunctionResponseTurn(responses []FunctionResponse) Turn {
	parts := make([]Part, 0, len(responses))
	for i := range responses {
		resp := responses[i]
		parts = append(parts, Part{FunctionResponse: &resp})
	}
	return Turn{Role: RoleUser, Kind: KindFunctionResponse, Parts: parts}
}
