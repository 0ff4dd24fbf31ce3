package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stepuplabz/market/internal/audit"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/middleware"
	"github.com/stepuplabz/market/internal/models"
)

type ProductHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProductHandler(db *gorm.DB, audit *audit.Dispatcher) *ProductHandler {
	return &ProductHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Barcode  *string `json:"barcode"`
	Category string  `json:"category"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Stock    int     `json:"stock" binding:"gte=0"`
	UnitType string  `json:"unitType" binding:"omitempty,oneof=piece kg"`
	ImageURL string  `json:"imageUrl"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty"`
	Barcode  *string  `json:"barcode,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	UnitType *string  `json:"unitType,omitempty" binding:"omitempty,oneof=piece kg"`
	ImageURL *string  `json:"imageUrl,omitempty"`

	IsCampaign        *bool      `json:"isCampaign,omitempty"`
	CampaignPrice     *float64   `json:"campaignPrice,omitempty"`
	CampaignStartDate *time.Time `json:"campaignStartDate,omitempty"`
	CampaignEndDate   *time.Time `json:"campaignEndDate,omitempty"`
}

// --------- Handlers ---------

// List returns non-deleted products, optionally filtered by category name
// and a free-text query over name and barcode.
func (h *ProductHandler) List(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("is_deleted = ?", false)

	if category != "" {
		q = q.Where("category = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR barcode = ?", like, query)
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Could not list products.")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetByID also serves soft-deleted rows: historical order item snapshots
// reference products long after an admin removed them from the catalog.
func (h *ProductHandler) GetByID(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "product_not_found", "Product not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_product", "Could not fetch product.")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	unitType := req.UnitType
	if unitType == "" {
		unitType = models.UnitPiece
	}

	product := models.Product{
		Name:     req.Name,
		Barcode:  req.Barcode,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		UnitType: unitType,
		ImageURL: req.ImageURL,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.BadRequest(c, "failed_to_create_product", "Could not create product (barcode may already exist).")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "product_created",
		Entity:   "product",
		EntityID: &product.ID,
	})

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(string)

	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "product_not_found", "Product not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_product", "Could not fetch product.")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.UnitType != nil {
		product.UnitType = *req.UnitType
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := applyCampaign(&product, &req); err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			httperr.BadRequest(c, code, "Campaign fields are inconsistent.")
			return
		}
		httperr.Internal(c, "failed_to_update_product", "Could not update product.")
		return
	}

	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not update product.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "product_updated",
		Entity:   "product",
		EntityID: &product.ID,
	})

	c.JSON(http.StatusOK, product)
}

// applyCampaign keeps the campaign invariant: while a campaign is active,
// price holds the discounted value and originalPrice the pre-campaign one;
// turning the campaign off restores the original price and clears the
// campaign fields.
func applyCampaign(product *models.Product, req *UpdateProductRequest) error {
	if req.IsCampaign == nil {
		if req.CampaignPrice != nil && product.IsCampaign {
			product.Price = *req.CampaignPrice
		}
		return nil
	}

	switch {
	case *req.IsCampaign && !product.IsCampaign:
		if req.CampaignPrice == nil {
			return httperr.ErrBusiness("missing_campaign_price")
		}
		prior := product.Price
		product.OriginalPrice = &prior
		product.Price = *req.CampaignPrice
		product.IsCampaign = true
		product.CampaignStartDate = req.CampaignStartDate
		product.CampaignEndDate = req.CampaignEndDate

	case *req.IsCampaign && product.IsCampaign:
		if req.CampaignPrice != nil {
			product.Price = *req.CampaignPrice
		}
		if req.CampaignStartDate != nil {
			product.CampaignStartDate = req.CampaignStartDate
		}
		if req.CampaignEndDate != nil {
			product.CampaignEndDate = req.CampaignEndDate
		}

	case !*req.IsCampaign && product.IsCampaign:
		if product.OriginalPrice != nil {
			product.Price = *product.OriginalPrice
		}
		product.OriginalPrice = nil
		product.IsCampaign = false
		product.CampaignStartDate = nil
		product.CampaignEndDate = nil
	}

	return nil
}

func (h *ProductHandler) Delete(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(string)

	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "product_not_found", "Product not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_product", "Could not fetch product.")
		return
	}

	// soft delete, the row keeps serving historical order snapshots
	product.IsDeleted = true
	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_product", "Could not delete product.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "product_deleted",
		Entity:   "product",
		EntityID: &product.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
