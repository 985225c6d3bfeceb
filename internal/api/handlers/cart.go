package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// CartLineRequest is one line of a cart replace. The stored line snapshots
// the product's current name, SKU and price; a later price change does not
// reprice an existing cart.
type CartLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CartUpdateRequest struct {
	Lines []CartLineRequest `json:"lines" binding:"required"`
}

type CartLineResponse struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total string             `json:"total"`
}

func toCartResponse(cart *domain.Cart) CartResponse {
	resp := CartResponse{
		Lines: make([]CartLineResponse, len(cart.Lines)),
		Total: cart.Total().StringFixed(2),
	}
	for i, l := range cart.Lines {
		resp.Lines[i] = CartLineResponse{
			ProductID: l.ProductID.String(),
			SKU:       l.SKU,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Subtotal:  l.Subtotal().StringFixed(2),
		}
	}
	return resp
}

func HandleGetCart(sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := sessions.Cart.Get(c.Request.Context(), middleware.GetSessionKey(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleUpdateCart replaces the session cart wholesale. Lines referencing
// unknown or inactive products are rejected as a validation error.
func HandleUpdateCart(repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		verr := &errors.ErrValidation{}

		ids := make([]uuid.UUID, 0, len(req.Lines))
		for _, line := range req.Lines {
			id, err := uuid.Parse(line.ProductID)
			if err != nil {
				verr.Add("lines", "invalid product id: "+line.ProductID)
				continue
			}
			ids = append(ids, id)
		}
		if verr.HasErrors() {
			respondError(c, logger, verr)
			return
		}

		products, err := repos.Product.ListByIDs(c.Request.Context(), ids)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		byID := make(map[uuid.UUID]*domain.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		cart := &domain.Cart{
			SessionKey: middleware.GetSessionKey(c),
			Lines:      make([]domain.CartLine, 0, len(req.Lines)),
			UpdatedAt:  time.Now(),
		}

		for i, line := range req.Lines {
			product, ok := byID[ids[i]]
			if !ok || !product.IsActive {
				verr.Add("lines", "unknown product: "+line.ProductID)
				continue
			}
			cart.Lines = append(cart.Lines, domain.CartLine{
				ProductID: product.ID,
				SKU:       product.SKU,
				Name:      product.Name,
				Quantity:  line.Quantity,
				UnitPrice: product.UnitPrice,
			})
		}
		if verr.HasErrors() {
			respondError(c, logger, verr)
			return
		}

		if err := sessions.Cart.Save(c.Request.Context(), cart); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func HandleClearCart(sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.Cart.Clear(c.Request.Context(), middleware.GetSessionKey(c)); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
	}
}

// HandleAddCartItem adds one product to the session cart, or bumps its
// quantity when the line already exists.
func HandleAddCartItem(repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			verr := &errors.ErrValidation{}
			verr.Add("product_id", "invalid product id")
			respondError(c, logger, verr)
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if !product.IsActive {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: productID.String()})
			return
		}

		cart, err := sessions.Cart.Get(c.Request.Context(), middleware.GetSessionKey(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		found := false
		for i := range cart.Lines {
			if cart.Lines[i].ProductID == productID {
				cart.Lines[i].Quantity += req.Quantity
				found = true
				break
			}
		}
		if !found {
			cart.Lines = append(cart.Lines, domain.CartLine{
				ProductID: product.ID,
				SKU:       product.SKU,
				Name:      product.Name,
				Quantity:  req.Quantity,
				UnitPrice: product.UnitPrice,
			})
		}

		if err := sessions.Cart.Save(c.Request.Context(), cart); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// HandleUpdateCartItem sets the quantity of one existing line.
func HandleUpdateCartItem(sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("productID"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "cart line", ID: c.Param("productID")})
			return
		}

		var req CartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		cart, err := sessions.Cart.Get(c.Request.Context(), middleware.GetSessionKey(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		found := false
		for i := range cart.Lines {
			if cart.Lines[i].ProductID == productID {
				cart.Lines[i].Quantity = req.Quantity
				found = true
				break
			}
		}
		if !found {
			respondError(c, logger, &errors.ErrNotFound{Resource: "cart line", ID: productID.String()})
			return
		}

		if err := sessions.Cart.Save(c.Request.Context(), cart); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleRemoveCartItem drops one line from the session cart. Removing a line
// that is not present is a no-op, not an error.
func HandleRemoveCartItem(sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("productID"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "cart line", ID: c.Param("productID")})
			return
		}

		cart, err := sessions.Cart.Get(c.Request.Context(), middleware.GetSessionKey(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		kept := cart.Lines[:0]
		for _, line := range cart.Lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		cart.Lines = kept

		if err := sessions.Cart.Save(c.Request.Context(), cart); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}
