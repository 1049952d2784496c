// Package auth holds the OpenAPI document served at /swagger/. Regenerate
// with swag init after changing handler annotations.
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "AussieBroadWAN Team",
			"url": "https://github.com/aussiebroadwan/reel"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/auth/webauthn/register/start": {
			"post": {
				"tags": [
					"WebAuthn"
				],
				"summary": "Start passkey registration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.RegisterStartResponse"
						}
					},
					"400": {
						"description": "invalid_request",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"422": {
						"description": "handle_email_required",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"429": {
						"description": "rate_limit_exceeded",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.RegisterStartRequest"
						}
					}
				]
			}
		},
		"/auth/webauthn/register/finish": {
			"post": {
				"tags": [
					"WebAuthn"
				],
				"summary": "Finish passkey registration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.SessionResponse"
						}
					},
					"400": {
						"description": "invalid_request, invalid_challenge",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"401": {
						"description": "passkey_invalid",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.RegisterFinishRequest"
						}
					}
				]
			}
		},
		"/auth/webauthn/login/start": {
			"post": {
				"tags": [
					"WebAuthn"
				],
				"summary": "Start passkey login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.LoginStartResponse"
						}
					},
					"404": {
						"description": "user_not_found",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"422": {
						"description": "handle_required",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.LoginStartRequest"
						}
					}
				]
			}
		},
		"/auth/webauthn/login/finish": {
			"post": {
				"tags": [
					"WebAuthn"
				],
				"summary": "Finish passkey login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.SessionResponse"
						}
					},
					"400": {
						"description": "invalid_challenge",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"401": {
						"description": "passkey_invalid",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"404": {
						"description": "user_not_found",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"422": {
						"description": "passkey_required",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.LoginFinishRequest"
						}
					}
				]
			}
		},
		"/auth/email/start": {
			"post": {
				"tags": [
					"Email"
				],
				"summary": "Start email login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.EmailStartResponse"
						}
					},
					"404": {
						"description": "user_not_found",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					},
					"422": {
						"description": "email_required",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.EmailStartRequest"
						}
					}
				]
			}
		},
		"/auth/email/finish": {
			"post": {
				"tags": [
					"Email"
				],
				"summary": "Finish email login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.SessionResponse"
						}
					},
					"400": {
						"description": "invalid_challenge, invalid_code",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.EmailFinishRequest"
						}
					}
				]
			}
		},
		"/auth/session": {
			"get": {
				"tags": [
					"Session"
				],
				"summary": "Session status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.SessionStatusResponse"
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
		"/auth/session/refresh": {
			"post": {
				"tags": [
					"Session"
				],
				"summary": "Refresh session",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.SessionRefreshResponse"
						}
					},
					"401": {
						"description": "not_authenticated",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
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
		"/auth/logout": {
			"post": {
				"tags": [
					"Session"
				],
				"summary": "Log out",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.OKResponse"
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
		"/auth/passkeys": {
			"get": {
				"tags": [
					"Passkeys"
				],
				"summary": "List passkeys",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.ListPasskeysResponse"
						}
					},
					"401": {
						"description": "not_authenticated",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
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
		"/auth/passkeys/{credentialId}": {
			"delete": {
				"tags": [
					"Passkeys"
				],
				"summary": "Delete a passkey",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.OKResponse"
						}
					},
					"401": {
						"description": "not_authenticated",
						"schema": {
							"$ref": "#/definitions/authsdk.APIError"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "credential id",
						"name": "credentialId",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/livez": {
			"get": {
				"tags": [
					"Health"
				],
				"summary": "Health Check Endpoint",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					}
				}
			}
		},
		"/readyz": {
			"get": {
				"tags": [
					"Health"
				],
				"summary": "Readiness Check Endpoint",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					},
					"503": {
						"description": "service not ready",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"authsdk.APIError": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"error_description": {
					"type": "string"
				}
			}
		},
		"authsdk.RegisterStartRequest": {
			"type": "object",
			"properties": {
				"handle": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"authsdk.RegisterStartResponse": {
			"type": "object",
			"properties": {
				"challenge": {
					"type": "string"
				},
				"handle": {
					"type": "string"
				},
				"authUserId": {
					"type": "string"
				},
				"publicKey": {
					"type": "object"
				}
			}
		},
		"authsdk.RegisterFinishRequest": {
			"type": "object",
			"properties": {
				"challenge": {
					"type": "string"
				},
				"passkey": {
					"type": "object"
				},
				"deviceLabel": {
					"type": "string"
				}
			}
		},
		"authsdk.LoginStartRequest": {
			"type": "object",
			"properties": {
				"handle": {
					"type": "string"
				}
			}
		},
		"authsdk.LoginStartResponse": {
			"type": "object",
			"properties": {
				"challenge": {
					"type": "string"
				},
				"handle": {
					"type": "string"
				},
				"publicKey": {
					"type": "object"
				}
			}
		},
		"authsdk.LoginFinishRequest": {
			"type": "object",
			"properties": {
				"challenge": {
					"type": "string"
				},
				"passkey": {
					"type": "object"
				}
			}
		},
		"authsdk.EmailStartRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				}
			}
		},
		"authsdk.EmailStartResponse": {
			"type": "object",
			"properties": {
				"challenge": {
					"type": "string"
				},
				"otpPreview": {
					"type": "string"
				}
			}
		},
		"authsdk.EmailFinishRequest": {
			"type": "object",
			"properties": {
				"challenge": {
					"type": "string"
				},
				"code": {
					"type": "string"
				}
			}
		},
		"authsdk.SessionResponse": {
			"type": "object",
			"properties": {
				"sessionToken": {
					"type": "string"
				},
				"sessionExpiresAt": {
					"type": "string"
				},
				"handle": {
					"type": "string"
				}
			}
		},
		"authsdk.SessionUser": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"handle": {
					"type": "string"
				}
			}
		},
		"authsdk.SessionStatusResponse": {
			"type": "object",
			"properties": {
				"authenticated": {
					"type": "boolean"
				},
				"sessionToken": {
					"type": "string"
				},
				"sessionExpiresAt": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/authsdk.SessionUser"
				}
			}
		},
		"authsdk.SessionRefreshResponse": {
			"type": "object",
			"properties": {
				"sessionExpiresAt": {
					"type": "string"
				}
			}
		},
		"authsdk.OKResponse": {
			"type": "object",
			"properties": {
				"ok": {
					"type": "boolean"
				}
			}
		},
		"authsdk.PasskeyItem": {
			"type": "object",
			"properties": {
				"credentialId": {
					"type": "string"
				},
				"deviceLabel": {
					"type": "string"
				},
				"transports": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"createdAt": {
					"type": "string"
				}
			}
		},
		"authsdk.ListPasskeysResponse": {
			"type": "object",
			"properties": {
				"passkeys": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/authsdk.PasskeyItem"
					}
				}
			}
		},
		"authsdk.HealthChecks": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"challenges": {
					"type": "string"
				}
			}
		},
		"authsdk.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"checks": {
					"$ref": "#/definitions/authsdk.HealthChecks"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Session token. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Reel Authentication Service API",
	Description:      "Passwordless sign-in with WebAuthn passkeys or emailed one-time codes.\n\nSuccessful ceremonies return an opaque session token used as a bearer credential.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
