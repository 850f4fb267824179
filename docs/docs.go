// Package docs registers the OpenAPI description served by the Swagger UI.
// Regenerate with: swag init -g cmd/devmart/main.go
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Liveness and dependency check", "responses": {"200": {"description": "OK"}, "503": {"description": "A dependency is down"}}}},
        "/api/v1/services": {"get": {"tags": ["public"], "summary": "List published services", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/services/{slug}": {"get": {"tags": ["public"], "summary": "Get a published service", "parameters": [{"name": "slug", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/v1/projects": {"get": {"tags": ["public"], "summary": "List published projects", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/projects/{slug}": {"get": {"tags": ["public"], "summary": "Get a published project", "parameters": [{"name": "slug", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/v1/posts": {"get": {"tags": ["public"], "summary": "List published blog posts", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/posts/{slug}": {"get": {"tags": ["public"], "summary": "Get a published blog post", "parameters": [{"name": "slug", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/v1/faqs": {"get": {"tags": ["public"], "summary": "List published FAQs", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/team": {"get": {"tags": ["public"], "summary": "List published team members", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/settings": {"get": {"tags": ["public"], "summary": "Site settings", "responses": {"200": {"description": "OK"}, "404": {"description": "Not configured yet"}}}},
        "/api/v1/leads": {"post": {"tags": ["public"], "summary": "Submit the contact form", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "429": {"description": "Submitted too recently"}}}},
        "/api/v1/auth/login": {"post": {"tags": ["auth"], "summary": "Admin login", "responses": {"200": {"description": "OK"}, "401": {"description": "Authentication failed"}}}},
        "/api/v1/auth/refresh": {"post": {"tags": ["auth"], "summary": "Rotate tokens", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid token"}}}},
        "/api/v1/admin/leads": {"get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "List leads", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/leads/{id}": {"patch": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Change the status of a lead", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/v1/admin/media": {
            "get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "List media", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Upload a file", "consumes": ["multipart/form-data"], "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}], "responses": {"201": {"description": "Created"}, "400": {"description": "Unsupported file"}}}
        },
        "/api/v1/admin/media/{id}": {"delete": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Delete a file and its record", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}, "500": {"description": "partial_delete"}}}},
        "/api/v1/admin/settings": {"put": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Replace site settings", "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}}}},
        "/api/v1/admin/preferences": {
            "get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Admin UI preferences", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Update admin UI preferences", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Devmart API",
	Description:      "Public content and contact form API plus the admin API behind it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
