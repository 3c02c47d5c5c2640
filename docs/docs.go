// Package docs registra el documento OpenAPI servido en /swagger.
// Regenerar con: swag init -g cmd/api/main.go
package docs

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
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Registrar cuenta",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/user"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Iniciar sesión (setea cookie de sesión)",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/user"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}}
            }
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Cerrar sesión", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Usuario de la sesión", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/user"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}}}
        },
        "/admin/users": {
            "get": {"tags": ["admin"], "summary": "Listar usuarios", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/user"}}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}}},
            "post": {"tags": ["admin"], "summary": "Crear usuario", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/user"}}}}
        },
        "/admin/users/{userID}": {
            "put": {"tags": ["admin"], "summary": "Actualizar usuario", "parameters": [{"in": "path", "name": "userID", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/user"}}}},
            "delete": {"tags": ["admin"], "summary": "Borrar usuario (en cascada)", "parameters": [{"in": "path", "name": "userID", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/partnered-offices": {
            "get": {"tags": ["offices"], "summary": "Listar clínicas partner", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["offices"], "summary": "Crear clínica partner", "responses": {"201": {"description": "Created"}}}
        },
        "/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mascotas", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pet"}}}}},
            "post": {"tags": ["pets"], "summary": "Crear mascota", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/pet"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/pet"}}}}
        },
        "/pets/{petID}": {
            "get": {"tags": ["pets"], "summary": "Detalle con historial", "parameters": [{"in": "path", "name": "petID", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["pets"], "summary": "Reemplazar mascota", "parameters": [{"in": "path", "name": "petID", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["pets"], "summary": "Borrar mascota", "parameters": [{"in": "path", "name": "petID", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/vet/patients": {
            "get": {"tags": ["vet"], "summary": "Pacientes del vet", "parameters": [{"in": "query", "name": "status", "type": "string"}, {"in": "query", "name": "species", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["vet"], "summary": "Asignar paciente", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/vet/records": {
            "get": {"tags": ["vet"], "summary": "Registros del vet", "parameters": [{"in": "query", "name": "pet_id", "type": "string"}, {"in": "query", "name": "date_from", "type": "string"}, {"in": "query", "name": "date_to", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["vet"], "summary": "Cargar registro de visita", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/vet/stats": {
            "get": {"tags": ["vet"], "summary": "Estadísticas del vet", "responses": {"200": {"description": "OK"}}}
        },
        "/directory/search": {
            "get": {"tags": ["directory"], "summary": "Buscar clínicas por ZIP", "parameters": [{"in": "query", "name": "zip", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Directory fetch failed"}}}
        }
    },
    "definitions": {
        "credentials": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "type": {"type": "string", "enum": ["owner", "vet"]}}},
        "user": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "role": {"type": "string"}, "type": {"type": "string"}}},
        "pet": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "species": {"type": "string"}, "breed": {"type": "string"}, "birth_date": {"type": "string"}, "weight": {"type": "number"}}},
        "error": {"type": "object", "properties": {"error": {"type": "string"}, "message": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PetVet API",
	Description:      "Historias clínicas de mascotas, pacientes de veterinarios y directorio de clínicas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
