package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/infrastructure/notify"
	"swapi/internal/session"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
)

var productCategories = []entity.Category{
	{ID: "hogar", Name: "Hogar: muebles, electrodomésticos, herramientas, jardín", Type: entity.PublicationTypeProduct, Icon: "home"},
	{ID: "ropa", Name: "Ropa: zapatos, bolsos, accesorios, ropa", Type: entity.PublicationTypeProduct, Icon: "shirt"},
	{ID: "juguetes", Name: "Juguetes: instrumentos musicales, libros", Type: entity.PublicationTypeProduct, Icon: "game-controller"},
	{ID: "tecnologia", Name: "Tecnología: dispositivos, cables, aparatos", Type: entity.PublicationTypeProduct, Icon: "phone-portrait"},
	{ID: "sostenible", Name: "Cambio productos sostenibles: semillas, compostaje, huerta urbana", Type: entity.PublicationTypeProduct, Icon: "leaf"},
}

var serviceCategories = []entity.Category{
	{ID: "tecnicos", Name: "Servicios técnicos, reparaciones", Type: entity.PublicationTypeService, Icon: "construct"},
	{ID: "hogar-limpieza", Name: "Hogar y limpieza", Type: entity.PublicationTypeService, Icon: "sparkles"},
	{ID: "educacion", Name: "Educación y clases", Type: entity.PublicationTypeService, Icon: "school"},
	{ID: "bienestar", Name: "Bienestar", Type: entity.PublicationTypeService, Icon: "heart"},
	{ID: "creativos", Name: "Creativos y artísticos", Type: entity.PublicationTypeService, Icon: "color-palette"},
}

type PublicationUseCase struct {
	publicationRepo repository.PublicationRepository
	session         *session.Session
	changes         *notify.Broker[[]*entity.Publication]
	now             func() time.Time
}

func NewPublicationUseCase(publicationRepo repository.PublicationRepository, sess *session.Session) *PublicationUseCase {
	return &PublicationUseCase{
		publicationRepo: publicationRepo,
		session:         sess,
		changes:         notify.NewBroker[[]*entity.Publication](),
		now:             time.Now,
	}
}

type CreatePublicationInput struct {
	Type        entity.PublicationType
	Category    string
	Title       string
	Description string
	Photo       string
	Location    *entity.Location
}

// PublicationUpdate carries the fields to change. Nil fields are kept.
type PublicationUpdate struct {
	Type        *entity.PublicationType
	Category    *string
	Title       *string
	Description *string
	Photo       *string
	Location    *entity.Location
	Active      *bool
}

func (u PublicationUpdate) apply(p *entity.Publication) {
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Photo != nil {
		p.Photo = *u.Photo
	}
	if u.Location != nil {
		location := *u.Location
		p.Location = &location
	}
	if u.Active != nil {
		p.Active = *u.Active
	}
}

func (uc *PublicationUseCase) Create(ctx context.Context, input CreatePublicationInput) (*entity.Publication, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, errors.NotAuthenticated()
	}

	if !input.Type.Valid() {
		return nil, errors.BadRequest("Type must be product or service", nil)
	}
	title := strings.TrimSpace(input.Title)
	category := strings.TrimSpace(input.Category)
	description := strings.TrimSpace(input.Description)
	if title == "" || category == "" || description == "" {
		return nil, errors.BadRequest("Title, category and description are required", nil)
	}

	publication := &entity.Publication{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		UserName:    user.Name,
		UserPhoto:   user.Photo,
		Type:        input.Type,
		Category:    category,
		Title:       title,
		Description: description,
		Photo:       input.Photo,
		Location:    input.Location,
		CreatedAt:   uc.now(),
		Active:      true,
	}

	if err := uc.publicationRepo.Create(ctx, publication); err != nil {
		logger.Error("Create publication failed: %v", err)
		return nil, err
	}
	logger.Info("User %s published %s", user.ID, publication.ID)

	uc.publish(ctx)
	return publication, nil
}

// GetAll returns every publication, newest first, including inactive ones.
func (uc *PublicationUseCase) GetAll(ctx context.Context) ([]*entity.Publication, error) {
	return uc.publicationRepo.List(ctx)
}

func (uc *PublicationUseCase) GetByID(ctx context.Context, id string) (*entity.Publication, error) {
	return uc.publicationRepo.GetByID(ctx, id)
}

func (uc *PublicationUseCase) GetActive(ctx context.Context) ([]*entity.Publication, error) {
	return uc.filter(ctx, func(p *entity.Publication) bool { return true })
}

func (uc *PublicationUseCase) GetByCategory(ctx context.Context, category string) ([]*entity.Publication, error) {
	return uc.filter(ctx, func(p *entity.Publication) bool { return p.Category == category })
}

func (uc *PublicationUseCase) GetByType(ctx context.Context, t entity.PublicationType) ([]*entity.Publication, error) {
	return uc.filter(ctx, func(p *entity.Publication) bool { return p.Type == t })
}

// GetMine returns the signed-in user's publications, active or not. Without a
// session the result is empty.
func (uc *PublicationUseCase) GetMine(ctx context.Context) ([]*entity.Publication, error) {
	user := uc.session.Current()
	if user == nil {
		return []*entity.Publication{}, nil
	}

	all, err := uc.publicationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]*entity.Publication, 0)
	for _, p := range all {
		if p.UserID == user.ID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

// Search matches query case-insensitively against title, description and
// category of active publications.
func (uc *PublicationUseCase) Search(ctx context.Context, query string) ([]*entity.Publication, error) {
	q := strings.ToLower(query)
	return uc.filter(ctx, func(p *entity.Publication) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	})
}

func (uc *PublicationUseCase) Update(ctx context.Context, id string, update PublicationUpdate) (*entity.Publication, error) {
	if update.Type != nil && !update.Type.Valid() {
		return nil, errors.BadRequest("Type must be product or service", nil)
	}
	for _, field := range []*string{update.Title, update.Category, update.Description} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return nil, errors.BadRequest("Title, category and description cannot be empty", nil)
		}
	}

	publication, err := uc.publicationRepo.Modify(ctx, id, update.apply)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx)
	return publication, nil
}

func (uc *PublicationUseCase) Deactivate(ctx context.Context, id string) (*entity.Publication, error) {
	active := false
	return uc.Update(ctx, id, PublicationUpdate{Active: &active})
}

// Delete removes the publication. Deleting an unknown id is not an error.
func (uc *PublicationUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.publicationRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx)
	return nil
}

func (uc *PublicationUseCase) ProductCategories() []entity.Category {
	return append([]entity.Category(nil), productCategories...)
}

func (uc *PublicationUseCase) ServiceCategories() []entity.Category {
	return append([]entity.Category(nil), serviceCategories...)
}

func (uc *PublicationUseCase) AllCategories() []entity.Category {
	return append(uc.ProductCategories(), serviceCategories...)
}

// Subscribe registers fn to receive the full publication list after every write.
func (uc *PublicationUseCase) Subscribe(fn func(publications []*entity.Publication)) (unsubscribe func()) {
	return uc.changes.Subscribe(fn)
}

// Refresh republishes the stored list to subscribers.
func (uc *PublicationUseCase) Refresh(ctx context.Context) error {
	publications, err := uc.publicationRepo.List(ctx)
	if err != nil {
		return err
	}
	uc.changes.Publish(publications)
	return nil
}

func (uc *PublicationUseCase) filter(ctx context.Context, keep func(p *entity.Publication) bool) ([]*entity.Publication, error) {
	all, err := uc.publicationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Publication, 0, len(all))
	for _, p := range all {
		if p.Active && keep(p) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (uc *PublicationUseCase) publish(ctx context.Context) {
	if err := uc.Refresh(ctx); err != nil {
		logger.Warn("Publication change notification skipped: %v", err)
	}
}
