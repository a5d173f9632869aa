package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Presensi API",
        "description": "Fingerprint attendance core: scan ingestion, rule resolution, leave reconciliation",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scans", "description": "Device scan ingestion"},
        {"name": "Leaves", "description": "Leave interval submission and listing"},
        {"name": "Attendance", "description": "Attendance ledger reads"},
        {"name": "Jobs", "description": "Administrative job triggers"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/api/v1/scans": {
            "post": {
                "tags": ["Scans"],
                "summary": "Ingest a device scan event",
                "responses": {
                    "200": {"description": "Check-in or check-out recorded"},
                    "401": {"description": "Missing or invalid device token"},
                    "404": {"description": "Unknown badge or device"},
                    "409": {"description": "Already checked in or already completed"}
                }
            }
        },
        "/api/v1/leaves": {
            "get": {
                "tags": ["Leaves"],
                "summary": "List leave intervals for an attendee",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Leaves"],
                "summary": "Submit a leave interval",
                "responses": {
                    "201": {"description": "Leave applied"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/api/v1/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/jobs/absent-sweep": {
            "post": {
                "tags": ["Jobs"],
                "summary": "Run the absent-marking sweep",
                "responses": {
                    "200": {"description": "Sweep result"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Presensi API",
	Description:      "Fingerprint attendance core",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
