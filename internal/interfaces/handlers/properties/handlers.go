package properties

import (
	"errors"
	"strconv"

	propsvc "estate-backend/internal/application/properties"
	"estate-backend/internal/domain"
	"estate-backend/internal/infrastructure/store"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handlers struct {
	Service *propsvc.Service
}

// CreatePropertyRequest is the body of POST /api/properties.
type CreatePropertyRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Purpose      string   `json:"purpose"`
	Price        *float64 `json:"price"`
	PropertyType string   `json:"property_type"`
	ProjectID    string   `json:"project_id"`
	City         string   `json:"city"`
	Address      string   `json:"address"`
	Bedrooms     int      `json:"bedrooms"`
}

// UpdatePropertyRequest is the body of PATCH /api/properties/:id. Omitted fields are unchanged.
type UpdatePropertyRequest struct {
	Title        *string  `json:"title"`
	Purpose      *string  `json:"purpose"`
	Price        *float64 `json:"price"`
	PropertyType *string  `json:"property_type"`
}

// List GET /api/properties?purpose=&type=&min_price=&max_price=&limit=&offset=
func (h *Handlers) List(c *fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	props, err := h.Service.ListProperties(c.UserContext(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list properties")
		return response.Error(c, "Failed to fetch properties", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Properties retrieved successfully", props, response.Page{
		Count:  len(props),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get GET /api/properties/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid property id")
	}
	prop, err := h.Service.GetProperty(c.UserContext(), id)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Property retrieved successfully", prop, nil)
}

// Types GET /api/property-types
func (h *Handlers) Types(c *fiber.Ctx) error {
	types, err := h.Service.ListPropertyTypes(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Property types retrieved successfully", types, nil)
}

// Create POST /api/properties (agent or admin). The session user becomes the listing agent.
func (h *Handlers) Create(c *fiber.Ctx) error {
	agentID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	purpose, err := domain.ParseListingPurpose(req.Purpose)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	in := propsvc.CreatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Purpose:      purpose,
		Price:        req.Price,
		PropertyType: req.PropertyType,
		AgentID:      &agentID,
		City:         req.City,
		Address:      req.Address,
		Bedrooms:     req.Bedrooms,
	}
	if req.ProjectID != "" {
		pid, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return response.BadRequest(c, "Invalid project_id")
		}
		in.ProjectID = &pid
	}

	prop, err := h.Service.CreateProperty(c.UserContext(), in)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Property created successfully", prop, nil)
}

// Update PATCH /api/properties/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actorID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid property id")
	}
	var req UpdatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	in := propsvc.UpdatePropertyInput{Title: req.Title, Price: req.Price, PropertyType: req.PropertyType}
	if req.Purpose != nil {
		purpose, err := domain.ParseListingPurpose(*req.Purpose)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		in.Purpose = &purpose
	}
	prop, err := h.Service.UpdateProperty(c.UserContext(), id, actorID, middleware.CurrentRole(c), in)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Property updated successfully", prop, nil)
}

// Archive POST /api/properties/:id/archive
func (h *Handlers) Archive(c *fiber.Ctx) error {
	actorID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid property id")
	}
	prop, err := h.Service.ArchiveProperty(c.UserContext(), id, actorID, middleware.CurrentRole(c))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Property archived successfully", prop, nil)
}

// Events GET /api/properties/:id/events
func (h *Handlers) Events(c *fiber.Ctx) error {
	actorID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid property id")
	}
	events, err := h.Service.Events(c.UserContext(), id, actorID, middleware.CurrentRole(c))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Property events retrieved successfully", events, nil)
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name      string `json:"name"`
	Developer string `json:"developer"`
}

// CreateProject POST /api/projects
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	project, err := h.Service.CreateProject(c.UserContext(), propsvc.CreateProjectInput{
		Name:      req.Name,
		Developer: req.Developer,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Project created successfully", project, nil)
}

// Projects GET /api/projects
func (h *Handlers) Projects(c *fiber.Ctx) error {
	projects, err := h.Service.ListProjects(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Projects retrieved successfully", projects, nil)
}

func parseListFilter(c *fiber.Ctx) (store.ListingFilter, error) {
	filter := store.ListingFilter{
		Status:   domain.PropertyStatusActive,
		TypeName: c.Query("type"),
		Limit:    defaultPageSize,
	}
	if p := c.Query("purpose"); p != "" {
		purpose, err := domain.ParseListingPurpose(p)
		if err != nil {
			return filter, err
		}
		filter.Purpose = purpose
	}
	var err error
	if filter.MinPrice, err = optionalFloat(c.Query("min_price"), "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalFloat(c.Query("max_price"), "max_price"); err != nil {
		return filter, err
	}
	if s := c.Query("agent_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, errors.New("Invalid agent_id")
		}
		filter.AgentID = &id
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return filter, errors.New("limit must be a positive integer")
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		filter.Limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}

func optionalFloat(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, errors.New(name + " must be a non-negative number")
	}
	return &v, nil
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, propsvc.ErrPropertyNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, propsvc.ErrMissingTitle),
		errors.Is(err, propsvc.ErrInvalidPrice),
		errors.Is(err, propsvc.ErrPropertyTypeNotFound),
		errors.Is(err, propsvc.ErrProjectNotFound),
		errors.Is(err, propsvc.ErrNoChanges),
		errors.Is(err, propsvc.ErrMissingProjectName),
		errors.Is(err, domain.ErrUnknownPurpose):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, propsvc.ErrNotActive):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, propsvc.ErrUnauthorized):
		return response.Forbidden(c, err.Error())
	default:
		log.Error().Err(err).Msg("Property request failed")
		return response.Internal(c)
	}
}
