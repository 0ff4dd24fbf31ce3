package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stepuplabz/market/internal/audit"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/middleware"
	"github.com/stepuplabz/market/internal/models"
)

type CategoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCategoryHandler(db *gorm.DB, audit *audit.Dispatcher) *CategoryHandler {
	return &CategoryHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
	Icon  string `json:"icon"`
}

// --------- Handlers ---------

func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		httperr.Internal(c, "failed_to_list_categories", "Could not list categories.")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	category := models.Category{
		Name:  req.Name,
		Image: req.Image,
		Icon:  req.Icon,
	}

	if err := h.db.Create(&category).Error; err != nil {
		httperr.Internal(c, "failed_to_create_category", "Could not create category.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "category_created",
		Entity:   "category",
		EntityID: &category.ID,
	})

	c.JSON(http.StatusCreated, category)
}

// Update and Delete intentionally respond 501. The admin client exposes the
// controls but the backend has never supported them; failing loudly beats
// silently no-opping.

func (h *CategoryHandler) Update(c *gin.Context) {
	httperr.NotImplemented(c, "not_implemented", "Category update is not supported.")
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	httperr.NotImplemented(c, "not_implemented", "Category delete is not supported.")
}
