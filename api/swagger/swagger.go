package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Jieqi Converter API",
        "description": "Converts southern-hemisphere birth dates into their northern-hemisphere solar-term equivalents.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "SolarTerms", "description": "The 24 solar terms of a year"},
        {"name": "Conversion", "description": "Hemisphere date conversion"},
        {"name": "Legacy", "description": "Routes kept for the legacy front-end"}
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
                    "200": {"description": "Ready or degraded, with per-dependency checks"}
                }
            }
        },
        "/api/v1/solar-terms/{year}": {
            "get": {
                "tags": ["SolarTerms"],
                "summary": "List the 24 solar terms of a year",
                "produces": ["application/json", "text/csv"],
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer", "minimum": 1, "maximum": 9998},
                    {"name": "format", "in": "query", "required": false, "type": "string", "enum": ["json", "csv"], "default": "json"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SolarTermsEnvelope"}},
                    "400": {"description": "Invalid year", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/convert": {
            "post": {
                "tags": ["Conversion"],
                "summary": "Convert a birth date/time to the northern-hemisphere equivalent",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConvertRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ConvertEnvelope"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Mirrored term not found or unexpected failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/solar_terms/{year}": {
            "get": {
                "tags": ["Legacy"],
                "summary": "Solar terms in the legacy flat shape",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "success flag with terms and source, or success false with an error string"}
                }
            }
        },
        "/api/convert": {
            "post": {
                "tags": ["Legacy"],
                "summary": "Conversion in the legacy flat shape",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConvertRequest"}}
                ],
                "responses": {
                    "200": {"description": "success flag with data, or success false with an error string"}
                }
            }
        }
    },
    "definitions": {
        "SolarTerm": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "立春"},
                "date": {"type": "string", "example": "2008-02-04"},
                "time": {"type": "string", "example": "19:00"},
                "month": {"type": "integer"},
                "day": {"type": "integer"},
                "hour": {"type": "integer"},
                "minute": {"type": "integer"},
                "south_term": {"type": "string", "example": "立秋"}
            }
        },
        "SolarTermsResponse": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "source": {"type": "string", "enum": ["remote", "local-approximate"]},
                "terms": {"type": "array", "items": {"$ref": "#/definitions/SolarTerm"}}
            }
        },
        "ConvertRequest": {
            "type": "object",
            "properties": {
                "hemisphere": {"type": "string", "enum": ["north", "south"]},
                "year": {"type": "integer", "description": "number or numeric string", "example": 2008},
                "date": {"type": "string", "example": "2008-06-21"},
                "time": {"type": "string", "example": "12:00"}
            },
            "required": ["hemisphere", "year", "date", "time"]
        },
        "TermDetail": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "datetime": {"type": "string"},
                "display": {"type": "string", "example": "2008年6月21日 07:59"}
            }
        },
        "ConvertResponse": {
            "type": "object",
            "properties": {
                "input_hemisphere": {"type": "string"},
                "hemisphere": {"type": "string"},
                "year": {"type": "integer"},
                "input_datetime": {"type": "string"},
                "current_term": {"type": "string"},
                "actual_term": {"type": "string"},
                "output_datetime": {"type": "string"},
                "output_date": {"type": "string"},
                "output_time": {"type": "string"},
                "prev_term": {"$ref": "#/definitions/TermDetail"},
                "current_term_detail": {"$ref": "#/definitions/TermDetail"},
                "next_term": {"$ref": "#/definitions/TermDetail"},
                "output_prev_term": {"$ref": "#/definitions/TermDetail"},
                "output_current_term": {"$ref": "#/definitions/TermDetail"},
                "output_next_term": {"$ref": "#/definitions/TermDetail"},
                "south_term_detail": {"$ref": "#/definitions/TermDetail"},
                "source": {"type": "string"}
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
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "SolarTermsEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/SolarTermsResponse"},
                "meta": {"type": "object"}
            }
        },
        "ConvertEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/ConvertResponse"},
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
