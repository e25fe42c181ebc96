package repository

import (
	"context"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/infrastructure/kvstore"
	"swapi/pkg/errors"
)

const publicationsKey = "publications"

type kvPublicationRepository struct {
	publications *kvstore.Collection[entity.Publication]
}

func NewKVPublicationRepository(store *kvstore.Store) repository.PublicationRepository {
	return &kvPublicationRepository{
		publications: kvstore.NewCollection[entity.Publication](store, publicationsKey),
	}
}

func (r *kvPublicationRepository) Create(ctx context.Context, publication *entity.Publication) error {
	_, err := r.publications.Update(ctx, func(doc *kvstore.Document[entity.Publication]) (bool, error) {
		doc.Prepend(publication.ID, *publication)
		return true, nil
	})
	return err
}

func (r *kvPublicationRepository) GetByID(ctx context.Context, id string) (*entity.Publication, error) {
	doc, err := r.publications.Load(ctx)
	if err != nil {
		return nil, err
	}

	publication, ok := doc.Get(id)
	if !ok {
		return nil, errors.NotFound("Publication", nil)
	}
	return &publication, nil
}

func (r *kvPublicationRepository) List(ctx context.Context) ([]*entity.Publication, error) {
	doc, err := r.publications.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := doc.List()
	publications := make([]*entity.Publication, len(items))
	for i := range items {
		publications[i] = &items[i]
	}
	return publications, nil
}

func (r *kvPublicationRepository) Modify(ctx context.Context, id string, fn func(publication *entity.Publication)) (*entity.Publication, error) {
	var updated entity.Publication
	_, err := r.publications.Update(ctx, func(doc *kvstore.Document[entity.Publication]) (bool, error) {
		publication, ok := doc.Get(id)
		if !ok {
			return false, errors.NotFound("Publication", nil)
		}
		fn(&publication)
		publication.ID = id
		doc.Replace(id, publication)
		updated = publication
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *kvPublicationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.publications.Update(ctx, func(doc *kvstore.Document[entity.Publication]) (bool, error) {
		return doc.Delete(id), nil
	})
	return err
}
