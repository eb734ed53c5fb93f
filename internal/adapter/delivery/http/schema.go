package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

// dataURLRequest is the caller-settable part of a data url entry.
type dataURLRequest struct {
	Key []string `json:"key" validate:"required,min=1"`
	URL *string  `json:"url" validate:"required,max=200"`
}

func (req dataURLRequest) toEntity() *entity.DataURL {
	return &entity.DataURL{
		Key: req.Key,
		URL: *req.URL,
	}
}

type dataURLResponse struct {
	ID  int64    `json:"id"`
	Key []string `json:"key"`
	URL string   `json:"url"`
}

func toDataURLResponse(e *entity.DataURL) dataURLResponse {
	return dataURLResponse{
		ID:  e.ID,
		Key: e.Key,
		URL: e.URL,
	}
}

// locationRequest is the caller-settable part of a location entry. Coordinates
// are pointers so that 0 stays a valid value while a missing field does not.
type locationRequest struct {
	Message   *string  `json:"message" validate:"required,max=200"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

func (req locationRequest) toEntity() *entity.Location {
	return &entity.Location{
		Message:   *req.Message,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
}

type locationResponse struct {
	ID        int64   `json:"id"`
	Message   string  `json:"message"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func toLocationResponse(e *entity.Location) locationResponse {
	return locationResponse{
		ID:        e.ID,
		Message:   e.Message,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}
}

// validationError describes one violated constraint.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "min":
		return "should contain at least " + param + " element(s)"
	case "max":
		return "should not be longer than " + param + " characters"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag(), e.Param()),
			})
		}
	}

	return validationErrs
}
