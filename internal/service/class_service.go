package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnhub/lms-backend/internal/model"
)

// ClassStore is the persistence surface the catalog service needs.
// *repository.ClassRepository implements it; tests use an in-memory stub.
type ClassStore interface {
	List(ctx context.Context) ([]model.Class, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClassService handles class catalog business logic.
type ClassService struct {
	store ClassStore
	log   zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(store ClassStore, log zerolog.Logger) *ClassService {
	return &ClassService{
		store: store,
		log:   log.With().Str("component", "class_service").Logger(),
	}
}

// List retrieves all classes. No authorization required.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return s.store.List(ctx)
}

// Get retrieves a single class by ID.
func (s *ClassService) Get(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return s.store.GetByID(ctx, id)
}

// Create persists a new class and fills in its assigned ID and defaults.
func (s *ClassService) Create(ctx context.Context, class *model.Class) error {
	if err := s.store.Create(ctx, class); err != nil {
		return err
	}
	s.log.Info().Str("class_id", class.ID.String()).Str("name", class.Name).Msg("class created")
	return nil
}

// Update replaces all mutable fields of the class identified by class.ID.
// The ID comes from the request path, never the payload.
func (s *ClassService) Update(ctx context.Context, class *model.Class) error {
	return s.store.Update(ctx, class)
}

// Delete removes a class permanently. Deletion is immediate; there is no
// soft-delete.
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("class_id", id.String()).Msg("class deleted")
	return nil
}
