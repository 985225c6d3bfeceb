package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// respondError maps typed errors onto HTTP statuses. Anything unrecognized
// is a 500 with a generic body; the detail stays in the log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrInvalidStateTransition:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		fields := make([]gin.H, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = gin.H{"field": f.Field, "message": f.Message}
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  e.Error(),
			"fields": fields,
		})
	case *errors.ErrUntrustedChannel:
		logger.Error("Refused untrusted delivery channel", zap.String("url", e.URL))
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery channel rejected"})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
