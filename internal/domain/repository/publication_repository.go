package repository

import (
	"context"

	"swapi/internal/domain/entity"
)

type PublicationRepository interface {
	// Create stores the publication at the front of the list.
	Create(ctx context.Context, publication *entity.Publication) error
	GetByID(ctx context.Context, id string) (*entity.Publication, error)
	// List returns every publication, newest first.
	List(ctx context.Context) ([]*entity.Publication, error)
	Modify(ctx context.Context, id string, fn func(publication *entity.Publication)) (*entity.Publication, error)
	Delete(ctx context.Context, id string) error
}
