package handler

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/domain/entity"
	"swapi/internal/usecase"
	"swapi/pkg/errors"
	"swapi/pkg/response"
)

type UserHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewUserHandler(authUseCase *usecase.AuthUseCase) *UserHandler {
	return &UserHandler{
		authUseCase: authUseCase,
	}
}

type updateProfileRequest struct {
	Name     *string          `json:"name" validate:"omitempty,notblank,max=80"`
	Photo    *string          `json:"photo" validate:"omitempty,url"`
	Location *entity.Location `json:"location"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.UpdateProfile(c.Request().Context(), usecase.ProfileUpdate{
		Name:     req.Name,
		Photo:    req.Photo,
		Location: req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.authUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
