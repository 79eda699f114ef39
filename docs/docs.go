// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package docs holds the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/server/docs.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/shelfwise/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/admin/artifacts/reload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Loads the metadata table and similarity matrix again and swaps them in atomically. On failure the previous index keeps serving. Reloads are throttled.",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Reload similarity artifacts",
                "responses": {
                    "200": {"description": "Installed index", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.ReloadResponse"}}}]}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "403": {"description": "Caller may not reload artifacts", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "429": {"description": "Reload throttled", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Load failed; previous index kept", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/books/search": {
            "get": {
                "description": "Fuzzy title search over the loaded catalog. When user_id is given the query is also recorded in that user's search history.",
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search the catalog",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum hits (1-100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Record the query for this user", "name": "user_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Matching books", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.BookSearchResponse"}}}]}},
                    "400": {"description": "Missing or invalid parameters", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Search disabled or index not built", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/preferences": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the stored preferred books, authors and genres of the authenticated user. Users with nothing saved get empty lists.",
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Get the caller's preferences",
                "responses": {
                    "200": {"description": "Stored preferences", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Preferences"}}}]}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "User data store unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the preferred books, authors and genres of the authenticated user. Omitted lists are stored empty.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Save the caller's preferences",
                "parameters": [
                    {"description": "Preferences", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.PreferencesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved preferences", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Preferences"}}}]}},
                    "400": {"description": "Malformed body or invalid field", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "User data store unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/recommendations": {
            "post": {
                "description": "Ranks the catalog for liked books, searches, authors and genres. With user_id, stored preferences and recent searches are merged behind the explicit input. Pipeline failures are served as the popular fallback list; the cause is reported in metadata.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Rank books for a request",
                "parameters": [
                    {"description": "Ranking input", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RecommendationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ranked books", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Response"}}}]}},
                    "400": {"description": "Malformed body, invalid field or unknown profile", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/recommendations/profiles": {
            "get": {
                "description": "Returns every configured profile with its effective settings and request counters.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "List ranking profiles",
                "responses": {
                    "200": {"description": "Profiles", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.ProfilesResponse"}}}]}}
                }
            }
        },
        "/api/v1/recommendations/users/{userID}": {
            "get": {
                "description": "Ranks the catalog from the stored preferences and recent searches of a user.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Rank books from stored user data",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "string", "description": "Profile name", "name": "profile", "in": "query"},
                    {"type": "integer", "description": "Maximum results (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Ranked books", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Response"}}}]}},
                    "400": {"description": "Invalid user ID, limit or profile", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/search/log": {
            "post": {
                "description": "Appends a query to the search history of a user. Recent searches boost later recommendations.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Record a search query",
                "parameters": [
                    {"description": "Search to record", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SearchLogRequest"}}
                ],
                "responses": {
                    "200": {"description": "Search recorded", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Missing user_id or blank query", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "User data store unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "description": "Reports that the process is serving HTTP.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Alive", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}]}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "description": "Ready once a similarity index is loaded. A failing user data store degrades the status but does not fail readiness, since ranking works without it.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}]}},
                    "503": {"description": "No index loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"},
                "success": {"type": "boolean"}
            }
        },
        "api.BookSearchResponse": {
            "type": "object",
            "properties": {
                "hits": {"type": "array", "items": {"$ref": "#/definitions/search.Hit"}},
                "index_version": {"type": "string"},
                "query": {"type": "string"}
            }
        },
        "api.HealthStatus": {
            "type": "object",
            "properties": {
                "has_matrix": {"type": "boolean"},
                "index_books": {"type": "integer"},
                "index_loaded": {"type": "boolean"},
                "index_version": {"type": "string"},
                "status": {"type": "string"},
                "store_backend": {"type": "string"},
                "store_connected": {"type": "boolean"},
                "uptime_seconds": {"type": "number"},
                "version": {"type": "string"}
            }
        },
        "api.PreferencesRequest": {
            "type": "object",
            "properties": {
                "preferred_authors": {"type": "array", "maxItems": 100, "items": {"type": "string"}},
                "preferred_books": {"type": "array", "maxItems": 500, "items": {"type": "string"}},
                "preferred_genres": {"type": "array", "maxItems": 100, "items": {"type": "string"}}
            }
        },
        "api.ProfileInfo": {
            "type": "object",
            "properties": {
                "default": {"type": "boolean"},
                "name": {"type": "string"},
                "settings": {"type": "object"},
                "stats": {"$ref": "#/definitions/recommend.Stats"}
            }
        },
        "api.ProfilesResponse": {
            "type": "object",
            "properties": {
                "default": {"type": "string"},
                "profiles": {"type": "array", "items": {"$ref": "#/definitions/api.ProfileInfo"}}
            }
        },
        "api.RecommendationRequest": {
            "type": "object",
            "properties": {
                "authors": {"type": "array", "maxItems": 100, "items": {"type": "string"}},
                "books": {"type": "array", "maxItems": 500, "items": {"type": "string"}},
                "genres": {"type": "array", "maxItems": 100, "items": {"type": "string"}},
                "limit": {"type": "integer", "maximum": 100, "minimum": 1},
                "profile": {"type": "string"},
                "searches": {"type": "array", "maxItems": 100, "items": {"type": "string"}},
                "user_id": {"type": "integer", "minimum": 0}
            }
        },
        "api.ReloadResponse": {
            "type": "object",
            "properties": {
                "books": {"type": "integer"},
                "has_matrix": {"type": "boolean"},
                "loaded_at": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "api.SearchLogRequest": {
            "type": "object",
            "required": ["query", "user_id"],
            "properties": {
                "query": {"type": "string", "maxLength": 255},
                "user_id": {"type": "integer"}
            }
        },
        "recommend.Book": {
            "type": "object",
            "properties": {
                "authors": {"type": "string"},
                "description": {"type": "string"},
                "genres": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "recommend.Preferences": {
            "type": "object",
            "properties": {
                "preferred_authors": {"type": "array", "items": {"type": "string"}},
                "preferred_books": {"type": "array", "items": {"type": "string"}},
                "preferred_genres": {"type": "array", "items": {"type": "string"}},
                "updated_at": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "recommend.Record": {
            "type": "object",
            "properties": {
                "authors": {"type": "string"},
                "description": {"type": "string"},
                "genres": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "match_percent": {"type": "string"},
                "reason": {"type": "string"},
                "score": {"type": "number"},
                "title": {"type": "string"}
            }
        },
        "recommend.Response": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/recommend.Record"}},
                "metadata": {"$ref": "#/definitions/recommend.ResponseMetadata"}
            }
        },
        "recommend.ResponseMetadata": {
            "type": "object",
            "properties": {
                "applied_searches": {"type": "array", "items": {"type": "string"}},
                "backfilled": {"type": "integer"},
                "candidates": {"type": "integer"},
                "fallback": {"type": "boolean"},
                "fallback_cause": {"type": "string"},
                "index_version": {"type": "string"},
                "latency_ms": {"type": "integer"},
                "profile": {"type": "string"},
                "request_id": {"type": "string"},
                "resolved_liked": {"type": "integer"},
                "timestamp": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "recommend.Stats": {
            "type": "object",
            "properties": {
                "error_count": {"type": "integer"},
                "fallback_count": {"type": "integer"},
                "profile": {"type": "string"},
                "request_count": {"type": "integer"}
            }
        },
        "search.Hit": {
            "type": "object",
            "properties": {
                "book": {"$ref": "#/definitions/recommend.Book"},
                "score": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT issued by the account service, sent as 'Bearer <token>'.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"description": "Ranking endpoints", "name": "Recommendations"},
        {"description": "Search history and catalog search", "name": "Search"},
        {"description": "Stored user preferences", "name": "Preferences"},
        {"description": "Operational endpoints", "name": "Admin"},
        {"description": "Liveness and readiness probes", "name": "Health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Shelfwise API",
	Description:      "Content-based book recommendation ranking service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
