package api

import (
	"errors"
	"net/http"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/labstack/echo/v4"
)

// writeError maps domain sentinels onto HTTP statuses. State conflicts
// carry the current status so the admin UI can explain what happened.
func writeError(c echo.Context, err error) error {
	var reviewed *models.AlreadyReviewedError
	if errors.As(err, &reviewed) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "already reviewed",
			"status": reviewed.Status,
		})
	}

	var transition *models.InvalidTransitionError
	if errors.As(err, &transition) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": transition.Error(),
			"from":  transition.From,
			"to":    transition.To,
		})
	}

	switch {
	case errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrPastDate),
		errors.Is(err, models.ErrMaxDuration),
		errors.Is(err, models.ErrNoTasksAvailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, models.ErrShiftAlreadyExists),
		errors.Is(err, models.ErrDuplicatePendingRequest),
		errors.Is(err, models.ErrReportNotAccepting),
		errors.Is(err, models.ErrAwaitingPhoto),
		errors.Is(err, models.ErrAttemptsExceeded),
		errors.Is(err, models.ErrDuplicatePhoto):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})

	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNoCurrentTask),
		errors.Is(err, models.ErrNoOpenShift):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
