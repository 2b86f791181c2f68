package personalization

import (
	"errors"

	personalsvc "estate-backend/internal/application/personalization"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *personalsvc.Service
}

// Personalized GET /api/properties/personalized[?explain=true]
func (h *Handlers) Personalized(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, personalsvc.ErrMissingUser.Error())
	}
	feed, err := h.Service.Personalize(c.UserContext(), userID, c.QueryBool("explain"))
	if err != nil {
		if errors.Is(err, personalsvc.ErrMissingUser) {
			return response.Unauthorized(c, err.Error())
		}
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("user_id", userID.String()).
			Msg("Failed to build personalized feed")
		return response.Error(c, "Error fetching personalized properties", fiber.StatusInternalServerError, nil)
	}

	message := "Personalized properties retrieved successfully"
	if !feed.Personalized {
		message = "No preference saved, returning default properties"
	}
	return response.Success(c, message, feed, fiber.Map{"count": len(feed.Properties)})
}
