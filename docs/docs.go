// Package docs содержит swagger-спецификацию HTTP API сервиса аккаунтов,
// которая отдаётся по /docs/*. Соответствует аннотациям обработчиков.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Проверка доступности",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Status"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Переводит аккаунт в ONLINE и выдаёт новый токен.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Вход в аккаунт",
                "parameters": [
                    {"description": "Учётные данные", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/logout/{id}": {
            "put": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Выход из аккаунта",
                "parameters": [
                    {"type": "integer", "description": "ID аккаунта", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Список аккаунтов",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/response.Account"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Регистрация аккаунта",
                "parameters": [
                    {"description": "Данные аккаунта", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/create.Request"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Аккаунт по ID",
                "parameters": [
                    {"type": "integer", "description": "ID аккаунта", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "tags": ["accounts"],
                "summary": "Редактирование профиля",
                "parameters": [
                    {"type": "integer", "description": "ID аккаунта", "name": "id", "in": "path", "required": true},
                    {"description": "Изменения", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/edit.Request"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "create.Request": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Alice"},
                "password": {"type": "string", "example": "secret"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "edit.Request": {
            "type": "object",
            "properties": {
                "birthday": {"type": "string", "example": "1990-05-17"},
                "username": {"type": "string", "example": "alice2"}
            }
        },
        "health.Status": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"}
            }
        },
        "login.Request": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "secret"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "response.Account": {
            "type": "object",
            "properties": {
                "birthday": {"type": "string"},
                "creationDate": {"type": "string"},
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Alice"},
                "status": {"type": "string", "enum": ["ONLINE", "OFFLINE"], "example": "ONLINE"},
                "token": {"type": "string"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"},
                "status": {"type": "string", "example": "Error"}
            }
        }
    }
}`

// SwaggerInfo содержит метаданные спецификации.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Account Service API",
	Description:      "Регистрация, вход, выход и редактирование учётных записей.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
