package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type ProductResponse struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	UnitPrice   string  `json:"unit_price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		UnitPrice:   p.UnitPrice.StringFixed(2),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
	}
}

func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		params := repository.ListProductsParams{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   offset,
		}

		products, total, err := repos.Product.List(c.Request.Context(), params)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]ProductResponse, len(products))
		for i, p := range products {
			resp[i] = toProductResponse(p)
		}

		c.JSON(http.StatusOK, gin.H{
			"products": resp,
			"total":    total,
			"limit":    limit,
			"offset":   offset,
		})
	}
}

func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: c.Param("id")})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product))
	}
}

type ProductUpsertRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	UnitPrice   string  `json:"unit_price" binding:"required"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url"`
}

func (r *ProductUpsertRequest) parsePrice() (decimal.Decimal, *errors.ErrValidation) {
	price, err := decimal.NewFromString(r.UnitPrice)
	if err != nil || price.IsNegative() {
		verr := &errors.ErrValidation{}
		verr.Add("unit_price", "must be a non-negative decimal amount")
		return decimal.Zero, verr
	}
	return price, nil
}

func HandleCreateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductUpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		price, verr := req.parsePrice()
		if verr != nil {
			respondError(c, logger, verr)
			return
		}

		product := &domain.Product{
			SKU:         req.SKU,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Brand:       req.Brand,
			UnitPrice:   price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
			IsActive:    true,
		}

		if err := repos.Product.Create(c.Request.Context(), product); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Product created",
			zap.String("product_id", product.ID.String()),
			zap.String("sku", product.SKU),
		)

		c.JSON(http.StatusCreated, toProductResponse(product))
	}
}

func HandleUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: c.Param("id")})
			return
		}

		var req ProductUpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		price, verr := req.parsePrice()
		if verr != nil {
			respondError(c, logger, verr)
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		product.Name = req.Name
		product.Description = req.Description
		product.Category = req.Category
		product.Brand = req.Brand
		product.UnitPrice = price
		product.Stock = req.Stock
		product.ImageURL = req.ImageURL

		if err := repos.Product.Update(c.Request.Context(), product); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product))
	}
}

// HandleDeactivateProduct soft-deletes: the product stays resolvable for
// existing order history but drops out of listings and cart resolution.
func HandleDeactivateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: c.Param("id")})
			return
		}

		if err := repos.Product.Deactivate(c.Request.Context(), id); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Product deactivated", zap.String("product_id", id.String()))

		c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
	}
}
