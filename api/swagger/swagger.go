package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MentorLink Course API",
        "description": "Enrollment status engine and student dashboards",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Enrollments", "description": "Stored enrollment states"},
        {"name": "Schedule", "description": "Live day view and completion"},
        {"name": "Payments", "description": "Payment outcome inlet"},
        {"name": "Recalculations", "description": "Admin recompute and audit"}
    ],
    "paths": {
        "/enrollments/ongoing": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List the student's ongoing enrollments",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string", "description": "Staff only; students always see their own"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/completed": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List the student's completed enrollments",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/export": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Export the enrollment report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        },
        "/sessions/today": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Today's schedule bucketed by enrollment state",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-items/{id}/complete": {
            "patch": {
                "tags": ["Schedule"],
                "summary": "Mark a schedule item completed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown schedule item"}
                }
            }
        },
        "/payments/{id}/status": {
            "post": {
                "tags": ["Payments"],
                "summary": "Record a payment outcome",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePaymentStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown payment"}
                }
            }
        },
        "/recalculations": {
            "post": {
                "tags": ["Recalculations"],
                "summary": "Recompute every enrollment's stored state",
                "responses": {
                    "200": {"description": "Batch report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/recalculations/enrollment": {
            "post": {
                "tags": ["Recalculations"],
                "summary": "Recompute one enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecalculateEnrollmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recomputed synchronously"},
                    "202": {"description": "Enqueued"}
                }
            }
        },
        "/recalculations/verify": {
            "post": {
                "tags": ["Recalculations"],
                "summary": "Audit stored states against fresh classifications",
                "responses": {
                    "200": {"description": "Audit report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "UpdatePaymentStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["SUCCESS", "PENDING", "FAILED"]}
            }
        },
        "RecalculateEnrollmentRequest": {
            "type": "object",
            "required": ["studentId", "mentorId", "skill"],
            "properties": {
                "studentId": {"type": "string"},
                "mentorId": {"type": "string"},
                "skill": {"type": "string"},
                "async": {"type": "boolean"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
