// Package docs registers the Swagger 2.0 description of the REST API with
// swag. It is maintained by hand next to the handler annotations in server.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/chat/history/{conversationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Transcript of a conversation",
                "parameters": [
                    {"type": "string", "description": "Conversation id", "name": "conversationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "array",
                                "items": {"$ref": "#/definitions/models.Message"}
                            }
                        }
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/chat/traces/{conversationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Sub-agent executions of a conversation",
                "parameters": [
                    {"type": "string", "description": "Conversation id", "name": "conversationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "array",
                                "items": {"$ref": "#/definitions/stores.ToolTrace"}
                            }
                        }
                    }
                }
            }
        },
        "/chat/{conversationID}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Send one staff message",
                "parameters": [
                    {"type": "string", "description": "Conversation id", "name": "conversationID", "in": "path", "required": true},
                    {"description": "Message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Chat_Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Chat_Reply"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Clear the model history of a conversation",
                "parameters": [
                    {"type": "string", "description": "Conversation id", "name": "conversationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/conversations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "List persisted conversations",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/stores.ConversationInfo"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Open a conversation",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/server.ConversationCreated"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/quick-actions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Canned staff requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.QuickAction"}}}
                }
            }
        },
        "/ws/chat/{conversationID}": {
            "get": {
                "tags": ["chat"],
                "summary": "Live chat with sub-agent progress frames",
                "parameters": [
                    {"type": "string", "description": "Conversation id", "name": "conversationID", "in": "path", "required": true}
                ],
                "responses": {}
            }
        }
    },
    "definitions": {
        "models.Chat_Reply": {
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string"},
                "reply": {"type": "string"},
                "tools": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.Chat_Request": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string"}
            }
        },
        "models.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "role": {"type": "string"},
                "text": {"type": "string"},
                "timestamp": {"type": "string"},
                "tool_name": {"type": "string"}
            }
        },
        "models.QuickAction": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "prompt": {"type": "string"},
                "sub_label": {"type": "string"}
            }
        },
        "server.ConversationCreated": {
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/models.Message"}}
            }
        },
        "server.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "error": {"type": "string"},
                "fatal": {"type": "boolean"}
            }
        },
        "stores.ConversationInfo": {
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string"},
                "created_at": {"type": "string"},
                "message_count": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "stores.ToolTrace": {
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "label": {"type": "string"},
                "result_status": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "integer"},
                "tool": {"type": "string"},
                "tool_call_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Hospital System Nexus API",
	Description:      "Routes hospital staff requests to simulated sub-agents through Gemini function calling.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
