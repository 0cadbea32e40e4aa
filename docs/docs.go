// Package docs registers the generated OpenAPI document with swag so the
// /swagger/* route can serve it. Regenerate with `swag init` after changing
// handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/v1/biodatas": {
            "get": {
                "tags": ["biodatas"],
                "summary": "Browse biodatas",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["biodatas"],
                "summary": "Create the caller's biodata",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/biodatas/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["biodatas"],
                "summary": "Get the caller's own biodata with view stats",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["biodatas"],
                "summary": "Update the caller's biodata",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/biodatas/me/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["biodatas"],
                "summary": "Upload a profile photo",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/biodatas/{number}": {
            "get": {
                "tags": ["biodatas"],
                "summary": "Get a biodata by number",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/biodatas/{number}/can-view": {
            "get": {
                "tags": ["unlocks"],
                "summary": "Probe view entitlement without charging",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/biodatas/{number}/unlock": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["unlocks"],
                "summary": "Unlock the gated biodata section",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "402": {"description": "Payment Required"}}
            }
        },
        "/v1/biodatas/{number}/unlock-contact": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["unlocks"],
                "summary": "Unlock the guardian contact section",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "402": {"description": "Payment Required"}}
            }
        },
        "/v1/memberships/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["memberships"],
                "summary": "Get the caller's current membership",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/memberships/purchase": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["memberships"],
                "summary": "Purchase or upgrade a membership",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/v1/shortlist": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["shortlist"],
                "summary": "List the caller's shortlisted biodatas",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/shortlist/{number}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["shortlist"],
                "summary": "Shortlist a biodata",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["shortlist"],
                "summary": "Remove a biodata from the shortlist",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Matrimony System API",
	Description:      "Matrimony-profile marketplace with credit-based unlock of gated profile sections.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
