package user

import (
	"errors"

	usersvc "estate-backend/internal/application/user"
	"estate-backend/internal/domain"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds the user service plus what is needed to log a new user in.
type Handlers struct {
	Service *usersvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// CreateStaffRequest is the admin body for POST /api/users.
type CreateStaffRequest struct {
	usersvc.RegisterInput
	Role string `json:"role"`
}

// Register POST /api/users/register: create a user account and log it in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req usersvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Missing required fields")
	}
	if req.UserName == "" || req.Email == "" || req.Password == "" || req.Fullname == "" {
		return response.BadRequest(c, "Missing required fields")
	}

	u, err := h.Service.Register(c.UserContext(), req)
	if err != nil {
		return mapCreateError(c, err)
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   u.UserID.String(),
		Fullname: u.Fullname,
		Email:    u.Email,
		Role:     u.Role,
	})
	if h.Rdb != nil {
		_ = h.Rdb.SAdd(c.UserContext(), userSessionsPrefix+u.UserID.String(), sid).Err()
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// CreateStaff POST /api/users (admin): create an account with an explicit role.
func (h *Handlers) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "Missing required fields")
	}
	u, err := h.Service.CreateWithRole(c.UserContext(), req.RegisterInput, req.Role)
	if err != nil {
		return mapCreateError(c, err)
	}
	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// Profile GET /api/users/me
func (h *Handlers) Profile(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.ViewUser(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("Failed to load user profile")
		return response.Internal(c)
	}
	return response.Success(c, "User retrieved successfully", fiber.Map{"user": safeUser(u)}, nil)
}

func safeUser(u *domain.User) fiber.Map {
	return fiber.Map{
		"user_id":    u.UserID.String(),
		"user_name":  u.UserName,
		"fullname":   u.Fullname,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

func mapCreateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usersvc.ErrUserNameRequired),
		errors.Is(err, usersvc.ErrInvalidEmail),
		errors.Is(err, usersvc.ErrInvalidPassword),
		errors.Is(err, usersvc.ErrFullnameRequired),
		errors.Is(err, usersvc.ErrInvalidFullname),
		errors.Is(err, usersvc.ErrInvalidRole):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, usersvc.ErrEmailTaken), errors.Is(err, usersvc.ErrUserNameTaken):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	default:
		log.Error().Err(err).Msg("Failed to create user")
		return response.Internal(c)
	}
}
