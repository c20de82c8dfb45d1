// Package swaggerkit serves the registered OpenAPI document and the Swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"gridwatch/internal/platform/config"

	docs "gridwatch/internal/services/api/docs"
)

// docReader is a seam for feeding a broken document in tests
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// defaults are added to every operation that does not declare the status itself
var defaults = map[string]map[string]any{
	"400": errorResponse("Bad Request", 400, "validation", "group must look like 5.2 or GPV5.2"),
	"500": errorResponse("Internal Server Error", 500, "panic", "panic recovered"),
}

func errorResponse(desc string, status int, code, msg string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      desc,
					"code":        code,
					"error":       msg,
					"request_id":  "gw-host/abc-000001",
				},
			},
		},
	}
}

var errorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "string"},
		"error":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

// serveDocJSON serves the document as OpenAPI 3.0.3, the newest version the bundled UI renders
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		delete(spec, "swagger")
		if v, _ := spec["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
			spec["openapi"] = "3.0.3"
		}
		if _, ok := spec["servers"]; !ok {
			spec["servers"] = []any{map[string]any{"url": "/api"}}
		}
		if suffix := config.New().Prefix("API_").MayString("DOCS_TITLE_SUFFIX", ""); suffix != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				info["title"] = strings.TrimSpace(info["title"].(string) + " " + suffix)
			}
		}

		schemas := child(child(spec, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = errorSchema
		}
		paths, _ := spec["paths"].(map[string]any)
		for _, p := range paths {
			ops, _ := p.(map[string]any)
			for _, op := range ops {
				o, ok := op.(map[string]any)
				if !ok {
					continue
				}
				resps := child(o, "responses")
				for status, resp := range defaults {
					if _, ok := resps[status]; !ok {
						resps[status] = resp
					}
				}
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// child returns m[key] as an object, creating it when missing
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
