// Package swagger registers the OpenAPI document served at /swagger.
package swagger

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
        "BasicAuth": {
            "type": "basic"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "status: ok", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "status: ok", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness check",
                "description": "Pings the configured store",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "status: ok", "schema": {"$ref": "#/definitions/http.HealthResponse"}},
                    "503": {"description": "status: unhealthy", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "tags": ["System"],
                "summary": "Get service version",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Version information", "schema": {"$ref": "#/definitions/http.VersionResponse"}}
                }
            }
        },
        "/admin/settings": {
            "get": {
                "security": [{"BasicAuth": []}],
                "tags": ["Settings"],
                "summary": "Get settings",
                "description": "Returns the current options and permalink previews",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.SettingsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BasicAuth": []}],
                "tags": ["Settings"],
                "summary": "Save settings",
                "description": "Validates a flat settings form (JSON object or form body) and stores the result",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.SettingsResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BasicAuth": []}],
                "tags": ["Settings"],
                "summary": "Reset settings",
                "description": "Deletes the stored settings so the defaults apply again",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.SettingsResponse"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}}
                }
            }
        },
        "/admin/settings/validate": {
            "post": {
                "security": [{"BasicAuth": []}],
                "tags": ["Settings"],
                "summary": "Validate settings",
                "description": "Dry run: returns the normalized options without storing them",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.SettingsResponse"}}
                }
            }
        },
        "/admin/managers": {
            "get": {
                "security": [{"BasicAuth": []}],
                "tags": ["Fields"],
                "summary": "List field managers",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.ManagersResponse"}}
                }
            }
        },
        "/admin/records/{recordID}/fields/{manager}": {
            "get": {
                "security": [{"BasicAuth": []}],
                "tags": ["Fields"],
                "summary": "Get stored field values",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "recordID", "in": "path", "required": true},
                    {"type": "string", "name": "manager", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.ValuesResponse"}},
                    "404": {"description": "Unknown manager", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BasicAuth": []}],
                "tags": ["Fields"],
                "summary": "Save posted field input",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "recordID", "in": "path", "required": true},
                    {"type": "string", "name": "manager", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.SaveResponse"}},
                    "404": {"description": "Unknown manager", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}}
                }
            }
        },
        "/admin/records/fields/{manager}": {
            "post": {
                "security": [{"BasicAuth": []}],
                "tags": ["Fields"],
                "summary": "Save posted field input for a new record",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "manager", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/admin.SaveResponse"}},
                    "404": {"description": "Unknown manager", "schema": {"$ref": "#/definitions/admin.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "error": {"type": "string"}
            }
        },
        "http.VersionResponse": {
            "type": "object",
            "properties": {
                "service": {"type": "string", "example": "themedesigner"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "admin.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string", "example": "unknown_manager"},
                        "message": {"type": "string"}
                    }
                }
            }
        },
        "admin.SettingsResponse": {
            "type": "object",
            "properties": {
                "settings": {"type": "object", "additionalProperties": true},
                "permalinks": {"type": "object", "additionalProperties": {"type": "string"}},
                "conflicts": {"type": "array", "items": {"type": "string"}}
            }
        },
        "admin.ManagersResponse": {
            "type": "object",
            "properties": {
                "namespace": {"type": "string", "example": "thds"},
                "managers": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "fields": {
                                "type": "array",
                                "items": {
                                    "type": "object",
                                    "properties": {
                                        "name": {"type": "string"},
                                        "type": {"type": "string"},
                                        "label": {"type": "string"},
                                        "description": {"type": "string"},
                                        "default": {"type": "string"},
                                        "inputs": {"type": "array", "items": {"type": "string"}},
                                        "hook_id": {"type": "string"}
                                    }
                                }
                            }
                        }
                    }
                }
            }
        },
        "admin.ValuesResponse": {
            "type": "object",
            "properties": {
                "record_id": {"type": "string"},
                "manager": {"type": "string"},
                "values": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "admin.SaveResponse": {
            "type": "object",
            "properties": {
                "record_id": {"type": "string"},
                "manager": {"type": "string"},
                "results": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "change": {"type": "string", "enum": ["none", "set", "delete"]},
                            "value": {"type": "string"}
                        }
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Theme Designer Admin API",
	Description:      "Settings validation and per-record field storage for a theme catalogue.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
