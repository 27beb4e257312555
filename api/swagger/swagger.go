package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Portal API",
        "description": "Campus portal backend: clubs, notices, events, attendance and the realtime feed",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Account registration and sessions"},
        {"name": "Users", "description": "Profile, role selection, attendance goal"},
        {"name": "Clubs", "description": "Club directory, following and dashboards"},
        {"name": "Announcements", "description": "Club announcements"},
        {"name": "Events", "description": "Club events"},
        {"name": "Notices", "description": "Campus-wide notice board"},
        {"name": "Attendance", "description": "Personal attendance tracking"},
        {"name": "Feed", "description": "Merged personalized feed"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Request password reset",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Reset password",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/users/role": {
            "put": {
                "tags": ["Users"],
                "summary": "Select account role",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Role already set"}
                }
            }
        },
        "/users/faculty": {
            "get": {
                "tags": ["Users"],
                "summary": "List faculty accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs": {
            "get": {
                "tags": ["Clubs"],
                "summary": "Club directory",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Clubs"],
                "summary": "Create a club",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClubRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/my-club": {
            "get": {
                "tags": ["Clubs"],
                "summary": "Representative dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Clubs"],
                "summary": "Update my club",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Clubs"],
                "summary": "Delete my club",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/clubs/{clubId}/follow": {
            "post": {
                "tags": ["Clubs"],
                "summary": "Follow a club",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Clubs"],
                "summary": "Unfollow a club",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/{clubId}/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Club announcements",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Post a club announcement",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/{clubId}/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Club events",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Post a club event",
                "parameters": [
                    {"name": "clubId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notices": {
            "get": {
                "tags": ["Notices"],
                "summary": "List active notices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Notices"],
                "summary": "Post a notice",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/posts/{id}": {
            "delete": {
                "tags": ["Notices"],
                "summary": "Delete a post",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/attendance/subjects": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List tracked subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Add a tracked subject",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Attendance"],
                "summary": "Delete subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/records": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Save attendance records",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/feed": {
            "get": {
                "tags": ["Feed"],
                "summary": "Personalized feed",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["name", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SetRoleRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["student", "faculty", "club"]}
            },
            "required": ["role"]
        },
        "CreateClubRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "logo_url": {"type": "string"},
                "member_count": {"type": "integer"},
                "team": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/TeamMember"}
                },
                "faculty_coordinator": {"type": "string"}
            },
            "required": ["name", "description", "member_count", "team"]
        },
        "TeamMember": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "FeedItem": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["notice", "announcement", "event"]},
                "sortDate": {"type": "string"},
                "notice": {"type": "object"},
                "announcement": {"type": "object"},
                "event": {"type": "object"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
