package items

import (
	"context"
	"errors"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput = errors.New("invalid input")
)

// Service orquesta la persistencia de items.
// Hoy es un pasamanos: acá se enganchan reglas de negocio futuras (p. ej. rechazar valores negativos)
// sin tocar ni el handler ni el repositorio.
type Service struct {
	repository Repository
}

// NewService crea un service de items.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Create delega el alta al repositorio.
func (service *Service) Create(ctx context.Context, input CreateItemInput) error {
	return service.repository.Create(ctx, input)
}

// Update delega el merge-patch al repositorio.
func (service *Service) Update(ctx context.Context, input UpdateItemInput) error {
	return service.repository.Update(ctx, input)
}

// Delete elimina un item por ID.
func (service *Service) Delete(ctx context.Context, id int64) error {
	return service.repository.Delete(ctx, id)
}

// Get obtiene un item por ID; ok=false si no existe.
func (service *Service) Get(ctx context.Context, id int64) (Item, bool, error) {
	return service.repository.FindByID(ctx, id)
}

func (service *Service) ListByCategory(ctx context.Context, category int64) ([]Item, error) {
	return service.repository.FindByCategory(ctx, category)
}

func (service *Service) ListByMonth(ctx context.Context, year, month int) ([]Item, error) {
	return service.repository.FindByMonth(ctx, year, month)
}
