package swaggerkit

// doc is the OpenAPI document for /api/v1
const doc = `{
  "openapi": "3.0.3",
  "info": {"title": "matchlog API", "version": "1.0.0"},
  "servers": [{"url": "/api/v1"}],
  "components": {
    "securitySchemes": {"bearer": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}},
    "schemas": {
      "ErrorResponse": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "code": {"type": "integer"},
          "error": {"type": "string"},
          "field": {"type": "string"},
          "request_id": {"type": "string"}
        }
      },
      "Job": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "status": {"type": "string", "enum": ["pending", "processing", "completed", "failed"]},
          "progress": {"type": "number"},
          "message": {"type": "string"}
        }
      },
      "Upload": {
        "type": "object",
        "properties": {
          "job_id": {"type": "string"},
          "status": {"type": "string"},
          "events": {"type": "integer"}
        }
      }
    }
  },
  "paths": {
    "/uploads": {
      "post": {
        "summary": "Upload a Hinge export and start classification",
        "security": [{"bearer": []}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {
          "type": "array",
          "items": {"type": "object", "additionalProperties": {"type": "array", "items": {}}}
        }}}},
        "responses": {
          "202": {"description": "Job accepted", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Upload"}}}},
          "400": {"description": "Invalid payload", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/jobs/{id}": {
      "get": {
        "summary": "Job status",
        "security": [{"bearer": []}],
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Job", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Job"}}}},
          "404": {"description": "Unknown job", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/jobs/{id}/events": {
      "get": {
        "summary": "Job progress as server sent events",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "text/event-stream of job snapshots"}}
      }
    },
    "/persons": {
      "get": {
        "summary": "People from the latest upload, ten per page",
        "security": [{"bearer": []}],
        "parameters": [{"name": "page", "in": "query", "schema": {"type": "integer", "minimum": 1}}],
        "responses": {"200": {"description": "Page of persons"}, "404": {"description": "No persons"}}
      }
    },
    "/matches": {"get": {"summary": "Matches by timestamp", "security": [{"bearer": []}], "responses": {"200": {"description": "Matches"}}}},
    "/likes": {"get": {"summary": "Likes by timestamp", "security": [{"bearer": []}], "responses": {"200": {"description": "Likes"}}}},
    "/summary": {"get": {"summary": "Upload summary", "security": [{"bearer": []}], "responses": {"200": {"description": "Summary"}, "404": {"description": "No upload"}}}},
    "/meta/health": {"get": {"summary": "Service name and uptime", "responses": {"200": {"description": "Alive"}}}},
    "/meta/ready": {"get": {"summary": "Postgres readiness", "responses": {"200": {"description": "Checks with ok, fail or skipped"}}}},
    "/meta/version": {"get": {"summary": "Build info", "responses": {"200": {"description": "Version, commit and date"}}}}
  }
}`
