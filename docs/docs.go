// Package docs 注册 Swagger 文档，修改处理器注释后用 swag init -g cmd/revenue-api/main.go 重新生成
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
        "/health": {"get": {"tags": ["运维"], "summary": "健康检查", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"tags": ["运维"], "summary": "就绪检查", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/v1/reports/weekly": {
            "get": {
                "tags": ["报表"],
                "summary": "生成区间周报",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "开始日期 YYYY-MM-DD", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "结束日期 YYYY-MM-DD", "name": "end_date", "in": "query"},
                    {"type": "integer", "description": "房间总数，默认取配置", "name": "total_rooms", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/reports/weekly/export": {
            "get": {
                "tags": ["报表"],
                "summary": "导出周报 Excel",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"type": "string", "description": "开始日期 YYYY-MM-DD", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "结束日期 YYYY-MM-DD", "name": "end_date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/revenues": {"post": {"tags": ["营收录入"], "summary": "新增营收记录", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/revenues/view": {
            "get": {
                "tags": ["营收录入"],
                "summary": "按年月浏览营收记录",
                "parameters": [
                    {"type": "integer", "description": "年份，默认今年", "name": "year", "in": "query"},
                    {"type": "integer", "description": "月份，默认本月，0 为全年", "name": "month", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/revenues/{id}": {
            "get": {"tags": ["营收录入"], "summary": "获取营收记录", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["营收录入"], "summary": "修改营收记录", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/dashboard": {"get": {"tags": ["看板"], "summary": "经营看板", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/analytics/query": {"post": {"tags": ["数据分析"], "summary": "结构化分析查询", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/login": {"post": {"tags": ["管理员认证"], "summary": "管理员登录", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/logout": {"post": {"security": [{"Bearer": []}], "tags": ["管理员认证"], "summary": "退出登录", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/me": {"get": {"security": [{"Bearer": []}], "tags": ["管理员认证"], "summary": "获取当前管理员", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/imports": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["管理-数据维护"],
                "summary": "导入营收 Excel",
                "parameters": [{"type": "file", "description": "Excel 文件", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/admin/stats": {"get": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "数据概况", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/records": {"get": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "营收记录列表", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/records/export": {"get": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "导出营收记录 CSV", "produces": ["text/csv"], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/records/{id}": {
            "get": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "营收记录详情", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "修改营收记录", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "删除营收记录", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/admin/records/delete_batch": {"post": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "批量删除营收记录", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/records/delete_by_date_range": {"post": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "按日期区间删除营收记录", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/records/clear_all": {"post": {"security": [{"Bearer": []}], "tags": ["管理-数据维护"], "summary": "清空全部营收记录", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "酒店营收周报 API",
	Description:      "酒店每日营收记录、周报、看板与数据管理后台",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
