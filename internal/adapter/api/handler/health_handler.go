package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"swapi/internal/infrastructure/kvstore"
)

type HealthHandler struct {
	store  *kvstore.Store
	driver string
}

func NewHealthHandler(store *kvstore.Store, driver string) *HealthHandler {
	return &HealthHandler{
		store:  store,
		driver: driver,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckStorageHealth lists the namespace keys to prove the backend answers.
func (h *HealthHandler) CheckStorageHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	keys, err := h.store.Keys(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Storage connection failed",
			"driver": h.driver,
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "Storage connected successfully",
		"driver":    h.driver,
		"namespace": h.store.Namespace(),
		"keys":      len(keys),
	})
}
