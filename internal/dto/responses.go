package dto

import (
	"github.com/voyagabagae/backend/internal/models"
	"github.com/voyagabagae/backend/internal/service"
)

// AuthResponse ответ на регистрацию, вход и обновление токенов.
type AuthResponse struct {
	User      *models.User       `json:"user,omitempty"`
	TokenPair *service.TokenPair `json:"tokens"`
}

// AnnouncementResponse объявление с фотографиями.
type AnnouncementResponse struct {
	*models.Announcement
	Photos []models.AnnouncementPhoto `json:"photos,omitempty"`
}

// PhotoUploadResponse ответ на загрузку фотографии.
type PhotoUploadResponse struct {
	Photo *models.AnnouncementPhoto `json:"photo"`
}
