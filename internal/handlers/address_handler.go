package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/middleware"
	"github.com/stepuplabz/market/internal/models"
)

type AddressHandler struct {
	db *gorm.DB
}

func NewAddressHandler(db *gorm.DB) *AddressHandler {
	return &AddressHandler{db: db}
}

// --------- Requests ---------

type CreateAddressRequest struct {
	Title    string `json:"title"`
	Address  string `json:"address" binding:"required"`
	City     string `json:"city"`
	District string `json:"district"`
}

// --------- Handlers ---------

func (h *AddressHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var addresses []models.Address
	if err := h.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&addresses).Error; err != nil {
		httperr.Internal(c, "failed_to_list_addresses", "Could not list addresses.")
		return
	}

	c.JSON(http.StatusOK, addresses)
}

func (h *AddressHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	address := models.Address{
		UserID:   userID,
		Title:    "Ev",
		Address:  req.Address,
		City:     req.City,
		District: req.District,
	}
	if req.Title != "" {
		address.Title = req.Title
	}

	if err := h.db.Create(&address).Error; err != nil {
		httperr.Internal(c, "failed_to_create_address", "Could not save address.")
		return
	}

	c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var address models.Address
	if err := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "address_not_found", "Address not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_address", "Could not fetch address.")
		return
	}

	if err := h.db.Delete(&address).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_address", "Could not delete address.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
