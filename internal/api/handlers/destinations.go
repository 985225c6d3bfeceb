package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/catalog"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
)

type DestinationResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Cost         string              `json:"cost"`
	ShippingMode domain.ShippingMode `json:"shipping_mode"`
}

// HandleListDestinations returns the active shipping destinations. When the
// backing table is unreachable or empty the hardcoded list keeps checkout
// usable; the client cannot tell the difference.
func HandleListDestinations(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		destinations, err := repos.Destination.ListActive(c.Request.Context())
		if err != nil {
			logger.Warn("Destination lookup failed, serving fallback list", zap.Error(err))
			destinations = catalog.FallbackDestinations()
		}
		if len(destinations) == 0 {
			logger.Warn("No active destinations stored, serving fallback list")
			destinations = catalog.FallbackDestinations()
		}

		resp := make([]DestinationResponse, len(destinations))
		for i, dest := range destinations {
			resp[i] = DestinationResponse{
				ID:           dest.ID.String(),
				Name:         dest.Name,
				Cost:         dest.Cost.StringFixed(2),
				ShippingMode: dest.ShippingMode,
			}
		}

		c.JSON(http.StatusOK, gin.H{"destinations": resp})
	}
}
