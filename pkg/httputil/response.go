package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/salon-api/pkg/errors"
)

// ErrorBody is the error envelope every endpoint answers with.
type ErrorBody struct {
	Error string `json:"error"`
}

// DeletedBody is returned by successful deletes.
type DeletedBody struct {
	Success bool `json:"success"`
}

// RespondWithSuccess sends a 200 response with data as the body
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondWithCreated sends a 201 response with data as the body
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondWithDeleted sends {"success": true}
func RespondWithDeleted(c *gin.Context) {
	c.JSON(http.StatusOK, DeletedBody{Success: true})
}

// RespondWithBadRequest sends a 400 with the given message.
func RespondWithBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// RespondWithError sends an error response. Domain errors carry their own
// status and message; anything else is a store failure and its message is
// passed through with a 500.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := err.Error()

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.StatusCode()
		if appErr.Code != errors.ErrInternal {
			message = appErr.Message
		}
	}

	if statusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: message})
}
