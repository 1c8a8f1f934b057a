package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Faculty API",
        "description": "Teacher-facing API for subjects, sessions, attendance, assignments and notes",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login, signup and token lifecycle"},
        {"name": "Directory", "description": "Provisioned departments, batches and subjects"},
        {"name": "Teachers", "description": "Authenticated teacher profile"},
        {"name": "Subjects", "description": "Roster resolution"},
        {"name": "Sessions", "description": "Class meeting ledger"},
        {"name": "Attendance", "description": "Toggle-style marking and rollups"},
        {"name": "Assignments", "description": "Per-session homework and submissions"},
        {"name": "Notes", "description": "Subject study material"},
        {"name": "Files", "description": "Uploads and share links"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register teacher account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Token expired or revoked"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Directory"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/departments/lookup": {
            "get": {
                "tags": ["Directory"],
                "summary": "Find department by name",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/departments/{id}/batches": {
            "get": {
                "tags": ["Directory"],
                "summary": "List department batches",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/batches/{id}/subjects": {
            "get": {
                "tags": ["Directory"],
                "summary": "List batch subjects",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Batch has no subjects"}
                }
            }
        },
        "/batches/subjects": {
            "get": {
                "tags": ["Directory"],
                "summary": "List subjects across several batches",
                "parameters": [
                    {"name": "ids", "in": "query", "type": "string", "required": true, "description": "Comma-separated batch IDs"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "No batch ids supplied"}
                }
            }
        },
        "/teachers/me": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get own profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Update own profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/subjects/{id}/roster": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Resolve subject roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/subjects/{id}/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List subject sessions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/subjects/{id}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Subject attendance aggregate",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/subjects/{id}/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export attendance register",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/subjects/{id}/overview": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Subject overview",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/subjects/{id}/notes": {
            "get": {
                "tags": ["Notes"],
                "summary": "List subject notes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Schedule a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Subject not found"}
                }
            }
        },
        "/sessions/upcoming": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List upcoming sessions",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Delete session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Completed sessions cannot be deleted"}
                }
            }
        },
        "/sessions/{id}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Session roll call",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/sessions/{id}/subject": {
            "get": {
                "tags": ["Directory"],
                "summary": "Resolve the subject of a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/sessions/{id}/assignment": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Get or create session assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MarkResult"}},
                    "400": {"description": "Invalid status"},
                    "404": {"description": "Student or session not found"}
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Assignments"],
                "summary": "Edit assignment details",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/assignments/{id}/files": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignment files",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Assignments"],
                "summary": "Replace assignment files",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Remove assignment files",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/assignments/{id}/submissions": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Partition roster by submission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/assignments/{id}/submissions/{studentId}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get a student's submission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "studentId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No submission"}
                }
            }
        },
        "/notes": {
            "post": {
                "tags": ["Notes"],
                "summary": "Publish a note",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/notes/{id}": {
            "delete": {
                "tags": ["Notes"],
                "summary": "Delete note",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/notes/{id}/files": {
            "put": {
                "tags": ["Notes"],
                "summary": "Replace note files",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/files": {
            "post": {
                "tags": ["Files"],
                "summary": "Upload a file",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/files/{key}": {
            "get": {
                "tags": ["Files"],
                "summary": "Download a file",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "key", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/files/{key}/share": {
            "post": {
                "tags": ["Files"],
                "summary": "Create a signed download link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "key", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/files/shared": {
            "get": {
                "tags": ["Files"],
                "summary": "Download via signed link",
                "parameters": [
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password", "dept_id", "batch_ids", "subject_ids"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "dept_id": {"type": "string"},
                "batch_ids": {"type": "array", "items": {"type": "string"}},
                "subject_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "required": ["name", "batch_ids", "subject_ids"],
            "properties": {
                "name": {"type": "string"},
                "dept_name": {"type": "string"},
                "batch_ids": {"type": "array", "items": {"type": "string"}},
                "subject_ids": {"type": "array", "items": {"type": "string"}},
                "image_url": {"type": "string"},
                "old_password": {"type": "string"},
                "new_password": {"type": "string", "minLength": 8}
            }
        },
        "CreateSessionRequest": {
            "type": "object",
            "required": ["subject_id", "date"],
            "properties": {
                "subject_id": {"type": "string"},
                "date": {"type": "string", "format": "date-time"},
                "title": {"type": "string"}
            }
        },
        "MarkRequest": {
            "type": "object",
            "required": ["student_id", "session_id", "status"],
            "properties": {
                "student_id": {"type": "string"},
                "session_id": {"type": "string"},
                "status": {"type": "string", "enum": ["PRESENT", "ABSENT", "LATE"]}
            }
        },
        "MarkResult": {
            "type": "object",
            "properties": {
                "removed": {"type": "boolean"},
                "record": {"type": "object"}
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
