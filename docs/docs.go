// Package docs registra la documentación OpenAPI servida en /swagger.
// Los paths siguen las anotaciones godoc de los handlers.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "DebugUser": {"type": "apiKey", "name": "X-Debug-User-ID", "in": "header"}
    },
    "security": [{"BearerAuth": []}, {"DebugUser": []}],
    "paths": {
        "/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mascotas del usuario", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["pets"], "summary": "Registrar mascota", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "ValidationError"}, "401": {"description": "Unauthorized"}}}
        },
        "/pets/{petID}": {
            "parameters": [{"type": "integer", "name": "petID", "in": "path", "required": true}],
            "get": {"tags": ["pets"], "summary": "Ver mascota", "responses": {"200": {"description": "OK"}, "403": {"description": "AccessDenied"}, "404": {"description": "NotFound"}}},
            "patch": {"tags": ["pets"], "summary": "Actualizar mascota (parcial)", "responses": {"200": {"description": "OK"}, "400": {"description": "ValidationError"}, "403": {"description": "AccessDenied"}, "404": {"description": "NotFound"}}},
            "put": {"tags": ["pets"], "summary": "Actualizar mascota (igual que PATCH)", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["pets"], "summary": "Borrar mascota y todo lo asociado", "responses": {"204": {"description": "No Content"}, "403": {"description": "AccessDenied"}, "404": {"description": "NotFound"}}}
        },
        "/agenda": {
            "post": {"tags": ["agenda"], "summary": "Agendar procedimento", "responses": {"201": {"description": "Created"}, "400": {"description": "ValidationError"}, "403": {"description": "AccessDenied"}, "404": {"description": "NotFound"}}}
        },
        "/agenda/pet/{petID}": {
            "parameters": [
                {"type": "integer", "name": "petID", "in": "path", "required": true},
                {"type": "string", "name": "dataInicio", "in": "query"},
                {"type": "string", "name": "dataFim", "in": "query"},
                {"type": "string", "name": "procedimento", "in": "query"}
            ],
            "get": {"tags": ["agenda"], "summary": "Listar agenda de una mascota", "responses": {"200": {"description": "OK"}, "403": {"description": "AccessDenied"}, "404": {"description": "NotFound"}}}
        },
        "/agenda/{agendaID}": {
            "parameters": [{"type": "integer", "name": "agendaID", "in": "path", "required": true}],
            "get": {"tags": ["agenda"], "summary": "Ver turno", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["agenda"], "summary": "Actualizar turno (parcial)", "responses": {"200": {"description": "OK"}, "400": {"description": "ValidationError"}}},
            "put": {"tags": ["agenda"], "summary": "Actualizar turno (igual que PATCH)", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["agenda"], "summary": "Borrar turno", "responses": {"204": {"description": "No Content"}}}
        },
        "/agenda/{agendaID}/avaliar": {
            "parameters": [{"type": "integer", "name": "agendaID", "in": "path", "required": true}],
            "post": {"tags": ["agenda"], "summary": "Evaluar turno (nota 1 a 5, una sola vez)", "responses": {"200": {"description": "OK"}, "400": {"description": "ValidationError"}, "409": {"description": "Conflict"}}}
        },
        "/despesas": {
            "get": {"tags": ["despesas"], "summary": "Listar despesas (solo Tutores)", "responses": {"200": {"description": "OK"}, "403": {"description": "AccessDenied"}}},
            "post": {"tags": ["despesas"], "summary": "Registrar despesa", "responses": {"201": {"description": "Created"}, "400": {"description": "ValidationError"}, "403": {"description": "AccessDenied"}}}
        },
        "/despesas/summary": {
            "get": {"tags": ["despesas"], "summary": "Total y total por categoría", "responses": {"200": {"description": "OK"}}}
        },
        "/despesas/{despesaID}": {
            "parameters": [{"type": "integer", "name": "despesaID", "in": "path", "required": true}],
            "get": {"tags": ["despesas"], "summary": "Ver despesa", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["despesas"], "summary": "Actualizar despesa (parcial)", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["despesas"], "summary": "Actualizar despesa (igual que PATCH)", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["despesas"], "summary": "Borrar despesa", "responses": {"204": {"description": "No Content"}}}
        },
        "/registros-saude": {
            "get": {"tags": ["registros-saude"], "summary": "Listar registros de salud", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["registros-saude"], "summary": "Crear registro de salud (JSON o multipart con file)", "consumes": ["application/json", "multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "ValidationError"}}}
        },
        "/registros-saude/{registroID}": {
            "parameters": [{"type": "integer", "name": "registroID", "in": "path", "required": true}],
            "get": {"tags": ["registros-saude"], "summary": "Ver registro de salud", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["registros-saude"], "summary": "Actualizar registro (parcial)", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["registros-saude"], "summary": "Actualizar registro (igual que PATCH)", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["registros-saude"], "summary": "Borrar registro", "responses": {"204": {"description": "No Content"}, "403": {"description": "AccessDenied / deletion_not_allowed"}}}
        },
        "/registros-saude/{registroID}/arquivo": {
            "parameters": [{"type": "integer", "name": "registroID", "in": "path", "required": true}],
            "get": {"tags": ["registros-saude"], "summary": "Descargar adjunto", "produces": ["application/pdf", "image/png", "image/jpeg"], "responses": {"200": {"description": "OK"}, "404": {"description": "NotFound"}}}
        },
        "/relatorios/saude/{petID}": {
            "parameters": [
                {"type": "integer", "name": "petID", "in": "path", "required": true},
                {"type": "string", "name": "dataInicio", "in": "query"},
                {"type": "string", "name": "dataFim", "in": "query"}
            ],
            "get": {"tags": ["relatorios"], "summary": "Relatório de salud (solo Tutores)", "responses": {"200": {"description": "OK"}, "403": {"description": "AccessDenied"}}}
        },
        "/relatorios/financeiro": {
            "parameters": [
                {"type": "integer", "name": "petId", "in": "query"},
                {"type": "string", "name": "dataInicio", "in": "query"},
                {"type": "string", "name": "dataFim", "in": "query"}
            ],
            "get": {"tags": ["relatorios"], "summary": "Relatório financiero (solo Tutores)", "responses": {"200": {"description": "OK"}, "403": {"description": "AccessDenied"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Care Manager API",
	Description:      "Mascotas, agenda, despesas, registros de salud y relatórios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
