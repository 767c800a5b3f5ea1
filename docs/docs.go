// Package docs содержит описание API для swagger UI.
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
        "/houses": {
            "get": {"tags": ["houses"], "summary": "Список домов", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["houses"], "summary": "Создать дом", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/teams": {
            "get": {"tags": ["teams"], "summary": "Список команд", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["teams"], "summary": "Зарегистрировать команду", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/teams/{teamID}": {
            "get": {"tags": ["teams"], "summary": "Команда", "parameters": [{"type": "integer", "name": "teamID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["teams"], "summary": "Изменить команду", "parameters": [{"type": "integer", "name": "teamID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"tags": ["teams"], "summary": "Удалить команду", "parameters": [{"type": "integer", "name": "teamID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/teams/{teamID}/tables/{category}": {
            "put": {"tags": ["teams"], "summary": "Предпочтительный стол команды", "parameters": [{"type": "integer", "name": "teamID", "in": "path", "required": true}, {"type": "string", "name": "category", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["teams"], "summary": "Снять предпочтение стола", "parameters": [{"type": "integer", "name": "teamID", "in": "path", "required": true}, {"type": "string", "name": "category", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/tables": {
            "get": {"tags": ["tables"], "summary": "Игровые столы", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tables"], "summary": "Добавить стол", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/tables/{tableID}": {
            "patch": {"tags": ["tables"], "summary": "Изменить стол", "parameters": [{"type": "integer", "name": "tableID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/matches": {
            "get": {"tags": ["matches"], "summary": "Матчи", "parameters": [{"type": "string", "name": "status", "in": "query"}, {"type": "string", "name": "category", "in": "query"}, {"type": "integer", "name": "team_id", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/matches/generate": {
            "post": {"tags": ["matches"], "summary": "Сгенерировать расписание", "description": "Заменяет все существующие матчи.", "responses": {"201": {"description": "Created"}}}
        },
        "/matches/auto-assign-tables": {
            "post": {"tags": ["matches"], "summary": "Распределить ожидающие матчи по столам", "responses": {"200": {"description": "OK"}}}
        },
        "/matches/{matchID}": {
            "get": {"tags": ["matches"], "summary": "Матч", "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/matches/{matchID}/games/{gameNumber}": {
            "put": {"tags": ["matches"], "summary": "Записать счет партии", "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}, {"type": "integer", "name": "gameNumber", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/matches/{matchID}/start": {
            "post": {"tags": ["matches"], "summary": "Начать матч", "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/matches/{matchID}/finalize": {
            "post": {"tags": ["matches"], "summary": "Завершить матч вручную", "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/matches/{matchID}/table": {
            "put": {"tags": ["matches"], "summary": "Назначить стол", "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/standings": {
            "get": {"tags": ["standings"], "summary": "Турнирная таблица домов", "responses": {"200": {"description": "OK"}}}
        },
        "/house-points": {
            "get": {"tags": ["house-points"], "summary": "Очки домов за день", "parameters": [{"type": "string", "name": "date", "in": "query"}, {"type": "boolean", "name": "fresh", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/house-points/recalculate": {
            "post": {"tags": ["house-points"], "summary": "Пересчитать очки домов", "parameters": [{"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/spirit-marks": {
            "get": {"tags": ["house-points"], "summary": "Оценки духа за день", "parameters": [{"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/spirit-marks/{houseID}": {
            "put": {"tags": ["house-points"], "summary": "Сохранить оценку духа дома", "parameters": [{"type": "integer", "name": "houseID", "in": "path", "required": true}, {"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/dashboard": {
            "get": {"tags": ["dashboard"], "summary": "Сводка дня турнира", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/tournament.xlsx": {
            "get": {"tags": ["reports"], "summary": "Скачать отчет турнира", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/archive": {
            "post": {"tags": ["reports"], "summary": "Сохранить отчет в хранилище", "responses": {"201": {"description": "Created"}, "503": {"description": "Service Unavailable"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "House Tournament API",
	Description:      "Турнир домов по настольному теннису: расписание, счет, таблицы и очки домов.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
