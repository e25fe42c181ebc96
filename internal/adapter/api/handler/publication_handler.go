package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"swapi/internal/domain/entity"
	"swapi/internal/usecase"
	"swapi/pkg/errors"
	"swapi/pkg/response"
)

type PublicationHandler struct {
	publicationUseCase *usecase.PublicationUseCase
}

func NewPublicationHandler(publicationUseCase *usecase.PublicationUseCase) *PublicationHandler {
	return &PublicationHandler{
		publicationUseCase: publicationUseCase,
	}
}

type createPublicationRequest struct {
	Type        string           `json:"type" validate:"required,oneof=product service"`
	Category    string           `json:"category" validate:"required,notblank"`
	Title       string           `json:"title" validate:"required,notblank,max=120"`
	Description string           `json:"description" validate:"required,notblank,max=2000"`
	Photo       string           `json:"photo" validate:"omitempty,url"`
	Location    *entity.Location `json:"location"`
}

type updatePublicationRequest struct {
	Type        *string          `json:"type" validate:"omitempty,oneof=product service"`
	Category    *string          `json:"category" validate:"omitempty,notblank"`
	Title       *string          `json:"title" validate:"omitempty,notblank,max=120"`
	Description *string          `json:"description" validate:"omitempty,notblank,max=2000"`
	Photo       *string          `json:"photo" validate:"omitempty,url"`
	Location    *entity.Location `json:"location"`
	Active      *bool            `json:"active"`
}

func (h *PublicationHandler) Create(c echo.Context) error {
	var req createPublicationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	publication, err := h.publicationUseCase.Create(c.Request().Context(), usecase.CreatePublicationInput{
		Type:        entity.PublicationType(req.Type),
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Photo:       req.Photo,
		Location:    req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, publication)
}

// List serves the listing views. mine and all take precedence, then q,
// category and type. Without filters it returns the active listings.
func (h *PublicationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		publications []*entity.Publication
		err          error
	)
	switch {
	case queryBool(c, "mine"):
		publications, err = h.publicationUseCase.GetMine(ctx)
	case queryBool(c, "all"):
		publications, err = h.publicationUseCase.GetAll(ctx)
	case c.QueryParam("q") != "":
		publications, err = h.publicationUseCase.Search(ctx, c.QueryParam("q"))
	case c.QueryParam("category") != "":
		publications, err = h.publicationUseCase.GetByCategory(ctx, c.QueryParam("category"))
	case c.QueryParam("type") != "":
		t := entity.PublicationType(c.QueryParam("type"))
		if !t.Valid() {
			return response.Error(c, errors.BadRequest("type must be product or service", nil))
		}
		publications, err = h.publicationUseCase.GetByType(ctx, t)
	default:
		publications, err = h.publicationUseCase.GetActive(ctx)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, publications)
}

func (h *PublicationHandler) GetByID(c echo.Context) error {
	publication, err := h.publicationUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, publication)
}

func (h *PublicationHandler) Update(c echo.Context) error {
	var req updatePublicationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	id := c.Param("id")
	if err := h.ensureOwner(c, id); err != nil {
		return response.Error(c, err)
	}

	update := usecase.PublicationUpdate{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Photo:       req.Photo,
		Location:    req.Location,
		Active:      req.Active,
	}
	if req.Type != nil {
		t := entity.PublicationType(*req.Type)
		update.Type = &t
	}

	publication, err := h.publicationUseCase.Update(c.Request().Context(), id, update)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, publication)
}

func (h *PublicationHandler) Deactivate(c echo.Context) error {
	id := c.Param("id")
	if err := h.ensureOwner(c, id); err != nil {
		return response.Error(c, err)
	}

	publication, err := h.publicationUseCase.Deactivate(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, publication)
}

func (h *PublicationHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	err := h.ensureOwner(c, id)
	switch {
	case errors.Is(err, errors.CodeNotFound):
		// Deleting an unknown publication is a no-op.
	case err != nil:
		return response.Error(c, err)
	default:
		if err := h.publicationUseCase.Delete(c.Request().Context(), id); err != nil {
			return response.Error(c, err)
		}
	}

	return response.Success(c, map[string]string{"id": id})
}

func (h *PublicationHandler) Categories(c echo.Context) error {
	switch c.QueryParam("type") {
	case string(entity.PublicationTypeProduct):
		return response.Success(c, h.publicationUseCase.ProductCategories())
	case string(entity.PublicationTypeService):
		return response.Success(c, h.publicationUseCase.ServiceCategories())
	case "":
		return response.Success(c, h.publicationUseCase.AllCategories())
	default:
		return response.Error(c, errors.BadRequest("type must be product or service", nil))
	}
}

// ensureOwner allows changes only to the signed-in user's own publications.
func (h *PublicationHandler) ensureOwner(c echo.Context, id string) error {
	publication, err := h.publicationUseCase.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	uid, _ := c.Get("uid").(string)
	if publication.UserID != uid {
		return errors.Forbidden("You can only change your own publications", nil)
	}
	return nil
}

func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && v
}
