package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapi/internal/domain/entity"
	"swapi/pkg/errors"
)

func createPublication(t *testing.T, app *testApp, typ entity.PublicationType, category, title string) *entity.Publication {
	t.Helper()
	p, err := app.publication.Create(context.Background(), CreatePublicationInput{
		Type:        typ,
		Category:    category,
		Title:       title,
		Description: "Descripción de " + title,
	})
	require.NoError(t, err)
	return p
}

func TestCreatePublicationRequiresSession(t *testing.T) {
	app := newTestApp(t)

	_, err := app.publication.Create(context.Background(), CreatePublicationInput{
		Type: entity.PublicationTypeProduct, Category: "hogar", Title: "Silla", Description: "Silla de madera",
	})
	assert.True(t, errors.Is(err, errors.CodeNotAuthenticated))
}

func TestCreatePublicationValidates(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")

	_, err := app.publication.Create(context.Background(), CreatePublicationInput{
		Type: "barter", Category: "hogar", Title: "Silla", Description: "Silla",
	})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = app.publication.Create(context.Background(), CreatePublicationInput{
		Type: entity.PublicationTypeProduct, Category: "hogar", Title: "  ", Description: "Silla",
	})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestCreatePublicationStampsOwnerAndPrepends(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	alice := app.register(t, "Alice", "alice@example.com", "secret1")

	first := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")
	second := createPublication(t, app, entity.PublicationTypeService, "educacion", "Clases de guitarra")

	assert.Equal(t, alice.ID, first.UserID)
	assert.Equal(t, "Alice", first.UserName)
	assert.True(t, first.Active)
	assert.False(t, first.CreatedAt.IsZero())
	assert.NotEqual(t, first.ID, second.ID)

	all, err := app.publication.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestOwnerSnapshotIsNotRefreshed(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")
	p := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")

	name := "Alicia"
	_, err := app.auth.UpdateProfile(ctx, ProfileUpdate{Name: &name})
	require.NoError(t, err)

	stored, err := app.publication.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.UserName)
}

func TestPublicationFilters(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")
	bike := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")
	guitar := createPublication(t, app, entity.PublicationTypeService, "educacion", "Clases de guitarra")
	phone := createPublication(t, app, entity.PublicationTypeProduct, "tecnologia", "Teléfono")

	_, err := app.publication.Deactivate(ctx, phone.ID)
	require.NoError(t, err)

	active, err := app.publication.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{guitar.ID, bike.ID}, ids(active))

	byCategory, err := app.publication.GetByCategory(ctx, "hogar")
	require.NoError(t, err)
	assert.Equal(t, []string{bike.ID}, ids(byCategory))

	byType, err := app.publication.GetByType(ctx, entity.PublicationTypeProduct)
	require.NoError(t, err)
	assert.Equal(t, []string{bike.ID}, ids(byType))

	found, err := app.publication.Search(ctx, "GUITARRA")
	require.NoError(t, err)
	assert.Equal(t, []string{guitar.ID}, ids(found))

	found, err = app.publication.Search(ctx, "educ")
	require.NoError(t, err)
	assert.Equal(t, []string{guitar.ID}, ids(found))

	found, err = app.publication.Search(ctx, "teléfono")
	require.NoError(t, err)
	assert.Empty(t, found)

	mine, err := app.publication.GetMine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestGetMineWithoutSessionIsEmpty(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")
	createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")
	require.NoError(t, app.auth.Logout(ctx))

	mine, err := app.publication.GetMine(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeactivateKeepsRecord(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")
	p := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")

	_, err := app.publication.Deactivate(ctx, p.ID)
	require.NoError(t, err)

	active, err := app.publication.GetActive(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids(active), p.ID)

	all, err := app.publication.GetAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(all), p.ID)
}

func TestUpdatePublication(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")
	p := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")

	title := "Bicicleta aro 26"
	updated, err := app.publication.Update(ctx, p.ID, PublicationUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, p.Description, updated.Description)
	assert.True(t, updated.Active)

	_, err = app.publication.Update(ctx, "missing", PublicationUpdate{Title: &title})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = app.publication.Deactivate(ctx, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDeletePublication(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")
	p := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")

	require.NoError(t, app.publication.Delete(ctx, p.ID))
	require.NoError(t, app.publication.Delete(ctx, p.ID))

	_, err := app.publication.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestPublicationSubscribers(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice@example.com", "secret1")

	var lengths []int
	app.publication.Subscribe(func(ps []*entity.Publication) { lengths = append(lengths, len(ps)) })

	p := createPublication(t, app, entity.PublicationTypeProduct, "hogar", "Bicicleta")
	createPublication(t, app, entity.PublicationTypeProduct, "ropa", "Zapatos")
	require.NoError(t, app.publication.Delete(context.Background(), p.ID))

	assert.Equal(t, []int{1, 2, 1}, lengths)
}

func TestCategories(t *testing.T) {
	app := newTestApp(t)

	products := app.publication.ProductCategories()
	services := app.publication.ServiceCategories()
	assert.Len(t, products, 5)
	assert.Len(t, services, 5)
	assert.Len(t, app.publication.AllCategories(), 10)

	for _, c := range products {
		assert.Equal(t, entity.PublicationTypeProduct, c.Type)
	}
	for _, c := range services {
		assert.Equal(t, entity.PublicationTypeService, c.Type)
	}

	products[0].Name = "mutated"
	assert.NotEqual(t, "mutated", app.publication.ProductCategories()[0].Name)
}

func ids(publications []*entity.Publication) []string {
	result := make([]string, len(publications))
	for i, p := range publications {
		result[i] = p.ID
	}
	return result
}
