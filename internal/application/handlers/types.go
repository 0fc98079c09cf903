package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/services"
)

// TypeHandler handles catalog type operations.
type TypeHandler struct {
	service *services.TypeCatalogService
}

// NewTypeHandler creates a new TypeHandler.
func NewTypeHandler(service *services.TypeCatalogService) *TypeHandler {
	return &TypeHandler{
		service: service,
	}
}

// HandleList returns all catalog types.
func (h *TypeHandler) HandleList(ctx context.Context) ([]entities.Type, error) {
	return h.service.List(ctx)
}

// HandleDescribe returns one catalog type.
func (h *TypeHandler) HandleDescribe(ctx context.Context, id uint32) (*entities.Type, error) {
	t, err := h.service.GetType(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("type %d: %w", id, entities.ErrNotFound)
	}
	return t, nil
}

// HandleLoadDefaults seeds the default types that are missing.
func (h *TypeHandler) HandleLoadDefaults(ctx context.Context) (int, error) {
	return h.service.LoadDefaults(ctx)
}
