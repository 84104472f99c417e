package docs

import (
	"embed"
	"net/http"
)

//go:embed openapi.yaml swagger.html
var assets embed.FS

// asset sirve un archivo embebido con su content type.
func asset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assets.ReadFile(name)
		if err != nil {
			http.Error(w, name+" not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

// OpenAPIHandler sirve el contrato OpenAPI de la API de items.
func OpenAPIHandler() http.HandlerFunc {
	return asset("openapi.yaml", "application/yaml; charset=utf-8")
}

// SwaggerUIHandler sirve la página de Swagger UI que consume /docs/openapi.yaml.
func SwaggerUIHandler() http.HandlerFunc {
	return asset("swagger.html", "text/html; charset=utf-8")
}
