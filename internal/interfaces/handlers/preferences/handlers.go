package preferences

import (
	"errors"

	prefsvc "estate-backend/internal/application/preferences"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *prefsvc.Service
}

// Get GET /api/preferences
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, prefsvc.ErrMissingUser.Error())
	}
	pref, err := h.Service.GetPreference(c.UserContext(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Preference retrieved successfully", pref, nil)
}

// Put PUT /api/preferences replaces the session user's preference.
func (h *Handlers) Put(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, prefsvc.ErrMissingUser.Error())
	}
	var in prefsvc.SavePreferenceInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	pref, err := h.Service.SavePreference(c.UserContext(), userID, in)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Preference saved successfully", pref, nil)
}

func mapError(c *fiber.Ctx, err error) error {
	var verr *prefsvc.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Error())
	case errors.Is(err, prefsvc.ErrPreferenceNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, prefsvc.ErrMissingUser):
		return response.Unauthorized(c, err.Error())
	default:
		log.Error().Err(err).Msg("Preference request failed")
		return response.Internal(c)
	}
}
