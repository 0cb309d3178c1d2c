package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /swagger/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("GET /swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Bank Transfers API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Bank Transfers API",
    "version": "1.0.0"
  },
  "paths": {
    "/transfer-funds": {
      "post": {
        "summary": "Transfer funds from an account to a card",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "X-Account-ID",
            "in": "header",
            "required": false,
            "schema": {"type": "string", "format": "uuid"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["to_card", "amount"],
                "properties": {
                  "from_user_id": {"type": "string", "format": "uuid"},
                  "to_card": {"type": "string", "example": "4000 0000 0000 0001"},
                  "amount": {"oneOf": [{"type": "number"}, {"type": "string"}], "example": 250.50}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Transfer committed"},
          "400": {"description": "Validation error or insufficient funds"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts": {
      "post": {
        "summary": "Register account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "full_name", "password"],
                "properties": {
                  "email": {"type": "string", "format": "email"},
                  "full_name": {"type": "string"},
                  "password": {"type": "string", "minLength": 6}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "409": {"description": "Email already registered"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/{id}": {
      "get": {
        "summary": "Get account balance",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {"type": "string", "format": "uuid"}
          }
        ],
        "responses": {
          "200": {"description": "Account fetched"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/{id}/transactions": {
      "get": {
        "summary": "List account transactions in insertion order",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {"type": "string", "format": "uuid"}
          }
        ],
        "responses": {
          "200": {"description": "Transactions fetched"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/{id}/deposits": {
      "post": {
        "summary": "Deposit funds",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {"type": "string", "format": "uuid"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["amount"],
                "properties": {
                  "amount": {"oneOf": [{"type": "number"}, {"type": "string"}], "example": "1000.00"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Deposit completed"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/healthz": {
      "get": {
        "summary": "Store health",
        "responses": {
          "200": {"description": "Healthy"},
          "503": {"description": "Store unavailable"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    }
  }
}`
