package properties

import "errors"

var (
	ErrPropertyNotFound     = errors.New("Property not found")
	ErrPropertyTypeNotFound = errors.New("Property type not found")
	ErrProjectNotFound      = errors.New("Project not found")
	ErrMissingProjectName   = errors.New("project name is required")
	ErrMissingTitle         = errors.New("title is required")
	ErrInvalidPrice         = errors.New("Invalid price")
	ErrNotActive            = errors.New("Property is not active")
	ErrUnauthorized         = errors.New("Unauthorized property change")
	ErrNoChanges            = errors.New("No valid changes provided")
)
