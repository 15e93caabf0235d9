package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/voyagabagae/backend/internal/dto"
	"github.com/voyagabagae/backend/internal/http/handlers/common"
	"github.com/voyagabagae/backend/internal/models"
	"github.com/voyagabagae/backend/internal/pkg/apperror"
	"github.com/voyagabagae/backend/internal/service"
	"github.com/voyagabagae/backend/internal/storage"
)

// Разрешённые типы файлов для загрузки
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// MediaHandler отвечает за загрузку фотографий объявлений.
type MediaHandler struct {
	announcements *service.AnnouncementService
	photos        *storage.PhotoStorage
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(announcements *service.AnnouncementService, photos *storage.PhotoStorage) *MediaHandler {
	return &MediaHandler{announcements: announcements, photos: photos}
}

// UploadPhoto обрабатывает POST /api/announcements/:id/photos.
// Принимает multipart поле "photo" и проверяет реальный тип по магическим байтам.
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		_ = c.Error(apperror.ErrUnauthorized)
		return
	}

	announcementID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fichier manquant"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("extension non supportée (%s)", ext)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(fmt.Errorf("media handler: open upload %w", err))
		return
	}
	defer file.Close()

	// Проверяем магические байты: расширению доверять нельзя.
	buffer := make([]byte, 261)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fichier illisible"})
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seules les images JPEG, PNG et WebP sont acceptées"})
		return
	}

	if _, err := file.Seek(0, 0); err != nil {
		_ = c.Error(fmt.Errorf("media handler: seek upload %w", err))
		return
	}

	relativePath, size, err := h.photos.Save(c.Request.Context(), announcementID, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le fichier est trop volumineux"})
			return
		}
		_ = c.Error(err)
		return
	}

	photo := &models.AnnouncementPhoto{
		AnnouncementID: announcementID,
		FilePath:       relativePath,
		FileSize:       size,
	}
	if err := h.announcements.AttachPhoto(c.Request.Context(), userID, photo); err != nil {
		// Запись не прошла лимит или права: файл на диске больше не нужен.
		_ = h.photos.Delete(c.Request.Context(), relativePath)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.PhotoUploadResponse{Photo: photo})
}
