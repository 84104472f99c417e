package items

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de items en el router.
// Las rutas estáticas (category, month) conviven con /{id}: chi prioriza el segmento literal.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/items", func(route chi.Router) {
		route.Post("/", handler.Create)
		route.Get("/category/{category}", handler.ListByCategory)
		route.Get("/month/{year}/{month}", handler.ListByMonth)
		route.Get("/{id}", handler.GetByID)
		route.Patch("/{id}", handler.Update)
		route.Delete("/{id}", handler.Delete)
	})
}
