package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyagabagae/backend/internal/dto"
	"github.com/voyagabagae/backend/internal/http/handlers/common"
	"github.com/voyagabagae/backend/internal/pkg/apperror"
	"github.com/voyagabagae/backend/internal/repository"
	"github.com/voyagabagae/backend/internal/service"
)

// AnnouncementHandler предоставляет HTTP слой для объявлений.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler создаёт хэндлер.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// List обрабатывает GET /api/announcements.
// Критерии фильтра: search, origin, destination, package_type, price_range.
func (h *AnnouncementHandler) List(c *gin.Context) {
	priceMin, priceMax, err := repository.ParsePriceRange(c.Query("price_range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plage de prix invalide"})
		return
	}

	limit, offset := common.GetPagination(c)
	params := repository.ListFilterParams{
		Search:      c.Query("search"),
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		PackageType: c.Query("package_type"),
		PriceMin:    priceMin,
		PriceMax:    priceMax,
		Limit:       limit,
		Offset:      offset,
	}

	res, err := h.announcements.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Get обрабатывает GET /api/announcements/:id.
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	a, photos, err := h.announcements.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AnnouncementResponse{Announcement: a, Photos: photos})
}

// Create обрабатывает POST /api/announcements.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		_ = c.Error(apperror.ErrUnauthorized)
		return
	}

	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}

	a, err := h.announcements.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// ListMy обрабатывает GET /api/announcements/my.
func (h *AnnouncementHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		_ = c.Error(apperror.ErrUnauthorized)
		return
	}

	items, err := h.announcements.ListMy(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Update обрабатывает PUT /api/announcements/:id.
func (h *AnnouncementHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		_ = c.Error(apperror.ErrUnauthorized)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}

	a, err := h.announcements.Update(c.Request.Context(), id, userID, req.ToInput())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// UpdateStatus обрабатывает PATCH /api/announcements/:id/status.
func (h *AnnouncementHandler) UpdateStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		_ = c.Error(apperror.ErrUnauthorized)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}

	a, err := h.announcements.UpdateStatus(c.Request.Context(), id, userID, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// Delete обрабатывает DELETE /api/announcements/:id.
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		_ = c.Error(apperror.ErrUnauthorized)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	if err := h.announcements.Delete(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
