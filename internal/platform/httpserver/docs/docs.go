// Package docs registers the OpenAPI document served under /swagger/.
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
		"/api/auth/register/creator": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a creator account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				}
			}
		},
		"/api/auth/register/consumer": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a consumer account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				}
			}
		},
		"/api/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Exchange credentials for a session token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				}
			}
		},
		"/api/users/me": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "Current profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/content": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "List published content with entitlement flags",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				}
			}
		},
		"/api/content/{id}": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Content detail with locked files redacted",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/creators": {
			"get": {
				"tags": [
					"creators"
				],
				"summary": "List creators",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				}
			}
		},
		"/api/creators/{id}": {
			"get": {
				"tags": [
					"creators"
				],
				"summary": "Creator profile with content",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/billing/status": {
			"get": {
				"tags": [
					"billing"
				],
				"summary": "Access pass, subscription and purchases",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/billing/purchase": {
			"post": {
				"tags": [
					"billing"
				],
				"summary": "Mock content purchase",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/stripe/checkout/pass": {
			"post": {
				"tags": [
					"stripe"
				],
				"summary": "Checkout an access pass",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/stripe/checkout/subscription": {
			"post": {
				"tags": [
					"stripe"
				],
				"summary": "Checkout a subscription",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/stripe/checkout/content": {
			"post": {
				"tags": [
					"stripe"
				],
				"summary": "Checkout a content purchase",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/stripe/checkout/request": {
			"post": {
				"tags": [
					"stripe"
				],
				"summary": "Checkout a custom request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/stripe/webhook": {
			"post": {
				"tags": [
					"stripe"
				],
				"summary": "Stripe webhook receiver",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				}
			}
		},
		"/api/requests": {
			"get": {
				"tags": [
					"requests"
				],
				"summary": "Requests sent and received",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/requests/{id}/accept": {
			"post": {
				"tags": [
					"requests"
				],
				"summary": "Accept a pending request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/requests/{id}/decline": {
			"post": {
				"tags": [
					"requests"
				],
				"summary": "Decline and refund a pending request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/requests/{id}/deliver": {
			"post": {
				"tags": [
					"requests"
				],
				"summary": "Deliver an accepted request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/chats": {
			"get": {
				"tags": [
					"chats"
				],
				"summary": "List chats of the caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/chats/{creator_id}": {
			"post": {
				"tags": [
					"chats"
				],
				"summary": "Open a chat with a creator",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "creator_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/chats/{chat_id}/messages": {
			"get": {
				"tags": [
					"chats"
				],
				"summary": "Recent chat messages",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "chat_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/reports": {
			"post": {
				"tags": [
					"reports"
				],
				"summary": "File a report",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/reports/{id}/status": {
			"post": {
				"tags": [
					"reports"
				],
				"summary": "Change a report status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/dashboard/creator": {
			"get": {
				"tags": [
					"dashboard"
				],
				"summary": "Creator sales and request summary",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/uploads": {
			"post": {
				"tags": [
					"uploads"
				],
				"summary": "Upload a content file",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/uploads/avatar": {
			"post": {
				"tags": [
					"uploads"
				],
				"summary": "Upload an avatar",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"httpserver.errorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "creatorhub API",
	Description:      "Paywalled creator content, custom requests, chat and moderation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
