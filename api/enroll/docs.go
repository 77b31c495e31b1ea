// Package enroll holds the Swagger definition served at /swagger/.
// Regenerate with `swag init -g internal/enroll/http/router.go -o api/enroll`.
package enroll

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Sentrang Team",
            "url": "https://github.com/sentrang/enroll"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version"}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version"},
                    "503": {"description": "service not ready"}
                }
            }
        },
        "/v1/invitations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "List Invitations",
                "responses": {
                    "200": {"description": "invitations with derived status"},
                    "401": {"description": "error, error_description"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Issue Invitation",
                "responses": {
                    "201": {"description": "invitation including its one-time token"},
                    "400": {"description": "error, error_description"},
                    "401": {"description": "error, error_description"}
                }
            }
        },
        "/v1/invitations/validate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Validate Invitation Token",
                "parameters": [
                    {"type": "string", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "state: VALID, EXPIRED, USED or NOT_FOUND"}
                }
            }
        },
        "/v1/invitations/accept": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Accept Invitation",
                "responses": {
                    "201": {"description": "the created account"},
                    "400": {"description": "error, error_description"},
                    "409": {"description": "token or email already used"},
                    "410": {"description": "token invalid or expired"}
                }
            }
        },
        "/v1/invitations/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Invitations"],
                "summary": "Cancel Invitation",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "cancelled"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "invitation already used"}
                }
            }
        },
        "/v1/invitations/{id}/resend": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Resend Invitation",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "invitation including its new one-time token"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "invitation already used"}
                }
            }
        },
        "/v1/submissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Submissions"],
                "summary": "List Submissions",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "submissions in the given review state"},
                    "400": {"description": "error, error_description"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Submissions"],
                "summary": "Submit Registration",
                "responses": {
                    "201": {"description": "the created submission"},
                    "400": {"description": "error, error_description"}
                }
            }
        },
        "/v1/submissions/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Submissions"],
                "summary": "List Own Submissions",
                "responses": {
                    "200": {"description": "the caller's submissions"}
                }
            }
        },
        "/v1/submissions/{id}/resubmit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Submissions"],
                "summary": "Resubmit Registration",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "the revised submission"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "only rejected submissions can be resubmitted"}
                }
            }
        },
        "/v1/submissions/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Submissions"],
                "summary": "Approve Submission",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "approved"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "submission not awaiting review"}
                }
            }
        },
        "/v1/submissions/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Submissions"],
                "summary": "Reject Submission",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "rejected"},
                    "400": {"description": "rejection reason is required"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "submission not awaiting review"}
                }
            }
        },
        "/v1/students/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Submissions"],
                "summary": "List Own Students",
                "responses": {
                    "200": {"description": "students linked to the caller"}
                }
            }
        },
        "/v1/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List Users",
                "parameters": [
                    {"type": "string", "name": "role", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "users holding the given role"},
                    "400": {"description": "error, error_description"}
                }
            }
        },
        "/v1/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get User",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "the user"},
                    "404": {"description": "error, error_description"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete User",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "deleted"},
                    "403": {"description": "cannot delete own account"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "cannot remove the last administrator"}
                }
            }
        },
        "/v1/users/{id}/role": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Change User Role",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "the updated user"},
                    "403": {"description": "cannot change own role"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "cannot remove the last administrator"}
                }
            }
        },
        "/v1/users/{id}/leader-profile": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Create Leader Profile",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "the created profile"},
                    "400": {"description": "error, error_description"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "cannot remove the last administrator"}
                }
            }
        },
        "/v1/leader-profiles/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete Leader Profile",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "deleted"},
                    "404": {"description": "error, error_description"},
                    "409": {"description": "cannot remove the last administrator"}
                }
            }
        },
        "/v1/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "List Notifications",
                "responses": {
                    "200": {"description": "the caller's inbox"}
                }
            }
        },
        "/v1/notifications/{id}/read": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Notifications"],
                "summary": "Mark Notification Read",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "marked"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Session token minted by the host application's login flow. Format: \"Bearer {token}\"."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Enrollment Service API",
	Description:      "Enrollment and identity lifecycle engine for a youth organization: token-based invitations, parent-authored student registrations with an admin review workflow, and role transitions with leader profiles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
