package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mclub-backend/internal/models"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError maps domain error kinds to HTTP status codes. Unclassified
// errors become 500s with a generic message; the detail goes to the log, not
// the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch models.ErrorKindOf(err) {
	case models.ErrorKindValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case models.ErrorKindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case models.ErrorKindConflict:
		status = http.StatusConflict
		message = err.Error()
	case models.ErrorKindInvalidState:
		status = http.StatusUnprocessableEntity
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		c.Error(err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}
