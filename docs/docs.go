// Package docs registers the Dhukuti OpenAPI document with swag.
// Regenerate with `swag init -g server/main.go` after changing handler annotations.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Exchange a refresh token", "responses": {"200": {"description": "OK"}}}},
        "/users/me": {"get": {"tags": ["users"], "summary": "Current user profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}, "put": {"tags": ["users"], "summary": "Update current user profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/users/me/stats": {"get": {"tags": ["analytics"], "summary": "Profile totals for the current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/dashboard/stats": {"get": {"tags": ["analytics"], "summary": "Dashboard totals for the current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/groups": {
            "get": {"tags": ["groups"], "summary": "Groups the caller belongs to", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["groups"], "summary": "Create a savings group", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Missing required fields"}}}
        },
        "/groups/{id}": {"get": {"tags": ["groups"], "summary": "Group with members", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/groups/{id}/join": {"post": {"tags": ["groups"], "summary": "Join a group", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Full or already a member"}}}},
        "/contributions": {
            "get": {"tags": ["contributions"], "summary": "List contributions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["contributions"], "summary": "Record a contribution", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/contributions/{id}/pay": {"post": {"tags": ["contributions"], "summary": "Mark a contribution paid", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/activities": {"get": {"tags": ["activities"], "summary": "Activity feed", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/events": {
            "get": {"tags": ["events"], "summary": "List events", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["events"], "summary": "Create an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/events/{id}": {"get": {"tags": ["events"], "summary": "Event detail", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/events/{id}/tickets": {"get": {"tags": ["tickets"], "summary": "Ticket types with status", "responses": {"200": {"description": "OK"}}}},
        "/events/{id}/tickets/quote": {"post": {"tags": ["tickets"], "summary": "Price a selection", "responses": {"200": {"description": "OK"}}}},
        "/events/{id}/tickets/purchase": {"post": {"tags": ["tickets"], "summary": "Purchase tickets", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Insufficient stock"}}}},
        "/tags/active": {"get": {"tags": ["tags"], "summary": "Active tags", "responses": {"200": {"description": "OK"}}}},
        "/wizards/{kind}": {"post": {"tags": ["wizards"], "summary": "Open a wizard draft", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/wizards/{kind}/{draftId}/submit": {"post": {"tags": ["wizards"], "summary": "Submit a wizard draft", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Field errors"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Dhukuti API",
	Description:      "Savings groups, contributions, events and ticketing.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
