package handler

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/domain/entity"
	"swapi/internal/session"
	"swapi/internal/usecase"
	"swapi/pkg/errors"
	"swapi/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse tells the client where to go next alongside the user.
type authResponse struct {
	User     *entity.User `json:"user,omitempty"`
	Navigate string       `json:"navigate"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, authResponse{
		User:     user,
		Navigate: session.NavigateAuthenticated,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, authResponse{
		User:     user,
		Navigate: session.NavigateAuthenticated,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUseCase.Logout(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, authResponse{Navigate: session.NavigateLogin})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := h.authUseCase.CurrentUser()
	if user == nil {
		return response.Error(c, errors.NotAuthenticated())
	}
	return response.Success(c, user)
}

// Status reports whether a signed-in user is persisted. It never fails for
// anonymous clients.
func (h *AuthHandler) Status(c echo.Context) error {
	authenticated, err := h.authUseCase.IsAuthenticated(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"authenticated": authenticated,
		"user":          h.authUseCase.CurrentUser(),
	})
}
