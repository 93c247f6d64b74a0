package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"sophia/api/services"
)

// FieldError is one entry of the validation error list in the envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": status < 400, "message": message})
}

// respondBindingError turns validator failures into the field-level list;
// malformed JSON gets a single generic entry.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: "failed validation: " + fe.Tag(),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation failed", "errors": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
}

// respondServiceError maps the service error kinds onto HTTP statuses.
// Unexpected errors are logged and surfaced as an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondMessage(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrUnauthorized):
		respondMessage(c, http.StatusUnauthorized, "You do not own this resource")
	case errors.Is(err, services.ErrAlreadyExists):
		respondMessage(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, services.ErrNotConfigured):
		respondMessage(c, http.StatusBadRequest, "Analytics tracking is not configured for this business")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

func currentUserID(c *gin.Context) int {
	return c.MustGet("user_id").(int)
}
