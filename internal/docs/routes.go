package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta Swagger UI en /docs/ y el contrato en /docs/openapi.yaml.
// Rutas planas: un r.Route("/docs") montaría un sub-router que tapa el redirect de /docs.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/", SwaggerUIHandler())
	r.Get("/docs/openapi.yaml", OpenAPIHandler())
}
