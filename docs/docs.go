// Package docs registra a documentação OpenAPI servida em /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}}
            }
        },
        "/conversations/{telefone}/messages": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Carregar histórico",
                "parameters": [{"type": "string", "name": "telefone", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.MessageResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Enviar mensagem",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "path", "required": true},
                    {"type": "string", "name": "mensagem", "in": "formData"},
                    {"type": "file", "name": "file", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Ignorada", "schema": {"$ref": "#/definitions/dto.SendMessageResponse"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.SendMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/conversations/{telefone}/state": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Estado da conversa",
                "parameters": [{"type": "string", "name": "telefone", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConversationStateResponse"}}}
            }
        },
        "/conversations/{telefone}/history": {
            "delete": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Apagar histórico",
                "parameters": [{"type": "string", "name": "telefone", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ClearHistoryResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/conversations/{telefone}/messages/{id}": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["messages"],
                "summary": "Excluir mensagem",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/conversations/{telefone}/messages/{id}/favorite": {
            "patch": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Favoritar mensagem",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FavoriteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/conversations/{telefone}/messages/{id}/copy": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Copiar mensagem",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CopyResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/conversations/{telefone}/files": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Anexar arquivos",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.FilePreviewResponse"}}}}
            },
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["files"],
                "summary": "Limpar arquivos anexados",
                "parameters": [{"type": "string", "name": "telefone", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/conversations/{telefone}/files/{fileId}": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["files"],
                "summary": "Remover arquivo anexado",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "path", "required": true},
                    {"type": "string", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/webhook/inbound": {
            "get": {
                "produces": ["application/json"],
                "tags": ["webhook"],
                "summary": "Consultar fila de entrada",
                "parameters": [{"type": "string", "name": "telefone", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.InboundMessageRequest"}},
                    "204": {"description": "Fila vazia"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhook"],
                "summary": "Webhook de entrada",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.InboundMessageRequest"}}],
                "responses": {
                    "201": {"description": "Entregue", "schema": {"$ref": "#/definitions/dto.InboundAcceptedResponse"}},
                    "202": {"description": "Enfileirada", "schema": {"$ref": "#/definitions/dto.InboundAcceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/settings/inbound-url": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "URL de entrada",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.InboundURLResponse"}}}
            },
            "put": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Alterar URL de entrada",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.InboundURLRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.InboundURLResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Restaurar URL de entrada",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.InboundURLResponse"}}}
            }
        },
        "/ws": {
            "get": {
                "tags": ["realtime"],
                "summary": "Eventos em tempo real",
                "parameters": [
                    {"type": "string", "name": "telefone", "in": "query"},
                    {"type": "string", "name": "access_token", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "message": {"type": "string"}, "details": {"type": "string"}}
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "version": {"type": "string"}, "storage": {"type": "string"}, "realtimeClients": {"type": "integer"}}
        },
        "dto.FileMetadata": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "type": {"type": "string"}, "size": {"type": "integer"}}
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "sender": {"type": "string", "enum": ["user", "ai"]},
                "timestamp": {"type": "string", "format": "date-time"},
                "isFavorite": {"type": "boolean"},
                "files": {"type": "array", "items": {"$ref": "#/definitions/dto.FileMetadata"}}
            }
        },
        "dto.SendMessageResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "ignored": {"type": "boolean"}}
        },
        "dto.FilePreviewResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "contentType": {"type": "string"},
                "size": {"type": "integer"},
                "type": {"type": "string", "enum": ["image", "video", "document"]},
                "previewUrl": {"type": "string"}
            }
        },
        "dto.Notification": {
            "type": "object",
            "properties": {
                "level": {"type": "string", "enum": ["success", "error", "info"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "dto.ConversationStateResponse": {
            "type": "object",
            "properties": {
                "telefone": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/dto.MessageResponse"}},
                "isLoading": {"type": "boolean"},
                "stagedFiles": {"type": "array", "items": {"$ref": "#/definitions/dto.FilePreviewResponse"}},
                "notifications": {"type": "array", "items": {"$ref": "#/definitions/dto.Notification"}}
            }
        },
        "dto.FavoriteResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "isFavorite": {"type": "boolean"}}
        },
        "dto.CopyResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "content": {"type": "string"}}
        },
        "dto.ClearHistoryResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "integer"}}
        },
        "dto.InboundMessageRequest": {
            "type": "object",
            "required": ["message", "telefone"],
            "properties": {"message": {"type": "string"}, "sender": {"type": "string"}, "timestamp": {"type": "string"}, "telefone": {"type": "string"}}
        },
        "dto.InboundAcceptedResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "queued": {"type": "boolean"}}
        },
        "dto.InboundURLRequest": {
            "type": "object",
            "required": ["url"],
            "properties": {"url": {"type": "string"}}
        },
        "dto.InboundURLResponse": {
            "type": "object",
            "properties": {"url": {"type": "string"}, "defaultUrl": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CRM Atendimento API",
	Description:      "Gateway do chat de atendimento: envio ao agente via webhook, histórico e eventos em tempo real",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
