package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EDU Registry API",
        "description": "Class and student registry with paginated listing and CSV/XLSX import/export",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Classes", "description": "Class roster management"},
        {"name": "Students", "description": "Student roster management"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List all classes",
                "responses": {"200": {"description": "Envelope with records"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create a class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate code"}
                }
            }
        },
        "/api/classes/page/{page}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Paginated class listing",
                "parameters": [
                    {"name": "page", "in": "path", "type": "integer", "required": true},
                    {"name": "size", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string", "description": "field:direction pairs joined by '-', direction 1 = descending"},
                    {"name": "columnlist", "in": "query", "type": "string"},
                    {"name": "toplist", "in": "query", "type": "string", "description": "ids pinned to the front of the page"}
                ],
                "responses": {
                    "200": {"description": "Envelope with page_info and records"},
                    "400": {"description": "Invalid order format or page out of range"}
                }
            }
        },
        "/api/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class by id",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Envelope with record"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Partially update a class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassPayload"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Duplicate code"}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete a class",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/classes/delete": {
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete multiple classes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDList"}}
                ],
                "responses": {
                    "200": {"description": "Deleted the found subset"},
                    "404": {"description": "No record matched"}
                }
            }
        },
        "/api/classes/{id}/copy": {
            "post": {
                "tags": ["Classes"],
                "summary": "Copy a class under a fresh code",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Copied"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/classes/import": {
            "post": {
                "tags": ["Classes"],
                "summary": "Import classes from CSV or XLSX (upsert by code)",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
                "responses": {
                    "200": {"description": "Import summary with created/updated/skipped"},
                    "400": {"description": "Unsupported format or empty file"}
                }
            }
        },
        "/api/classes/export": {
            "get": {
                "tags": ["Classes"],
                "summary": "Export all classes",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["csv", "xlsx"]},
                    {"name": "columnlist", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File download"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Export selected classes",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["csv", "xlsx"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDList"}}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/api/classes/export/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Export one class",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "type", "in": "query", "type": "string", "enum": ["csv", "xlsx"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/api/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List all students",
                "responses": {"200": {"description": "Envelope with records"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate code"}
                }
            }
        },
        "/api/students/page/{page}": {
            "get": {
                "tags": ["Students"],
                "summary": "Paginated student listing",
                "parameters": [
                    {"name": "page", "in": "path", "type": "integer", "required": true},
                    {"name": "size", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"},
                    {"name": "columnlist", "in": "query", "type": "string"},
                    {"name": "toplist", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Envelope with page_info and records"},
                    "400": {"description": "Invalid order format or page out of range"}
                }
            }
        },
        "/api/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student by id",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Envelope with record"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Partially update a student",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Duplicate code"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/students/delete": {
            "delete": {
                "tags": ["Students"],
                "summary": "Delete multiple students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDList"}}
                ],
                "responses": {
                    "200": {"description": "Deleted the found subset"},
                    "404": {"description": "No record matched"}
                }
            }
        },
        "/api/students/{id}/copy": {
            "post": {
                "tags": ["Students"],
                "summary": "Copy a student under a fresh code",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Copied"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from CSV or XLSX (upsert by code)",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
                "responses": {
                    "200": {"description": "Import summary with created/updated/skipped"},
                    "400": {"description": "Unsupported format or empty file"}
                }
            }
        },
        "/api/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Export all students",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["csv", "xlsx"]},
                    {"name": "columnlist", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File download"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Export selected students",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["csv", "xlsx"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDList"}}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/api/students/export/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Export one student",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "type", "in": "query", "type": "string", "enum": ["csv", "xlsx"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        }
    },
    "definitions": {
        "ClassPayload": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "StudentPayload": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "fullname": {"type": "string"},
                "dob": {"type": "string", "format": "date"},
                "sex": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "homecity": {"type": "string"},
                "phone": {"type": "string"},
                "class_id": {"type": "integer", "x-nullable": true},
                "username": {"type": "string"},
                "password": {"type": "string"},
                "attachment": {"type": "string"}
            }
        },
        "IDList": {
            "type": "object",
            "properties": {
                "idlist": {
                    "type": "array",
                    "items": {"type": "integer"}
                }
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "status": {"type": "string"},
                "message": {"type": "string"},
                "data": {"type": "object"}
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
