package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/voyagabagae/backend/internal/models"
	"github.com/voyagabagae/backend/internal/pkg/apperror"
	"github.com/voyagabagae/backend/internal/repository"
	"github.com/voyagabagae/backend/internal/validation"
)

// AnnouncementStore описывает зависимости сервиса от слоя хранилища.
// Интерфейсу удовлетворяют и postgres, и in-memory репозитории.
type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	List(ctx context.Context, params repository.ListFilterParams) (*repository.ListResult, error)
	ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	UpdateStatus(ctx context.Context, id, shipperID uuid.UUID, status string) (*models.Announcement, error)
	Delete(ctx context.Context, id, shipperID uuid.UUID) error
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
	AddPhoto(ctx context.Context, photo *models.AnnouncementPhoto) error
	CountPhotos(ctx context.Context, announcementID uuid.UUID) (int, error)
	ListPhotos(ctx context.Context, announcementID uuid.UUID) ([]models.AnnouncementPhoto, error)
}

// AnnouncementNotifier получает уведомления о новых объявлениях (WS рассылка).
type AnnouncementNotifier interface {
	AnnouncementCreated(a *models.Announcement)
}

// AnnouncementService инкапсулирует бизнес-логику объявлений.
type AnnouncementService struct {
	store    AnnouncementStore
	notifier AnnouncementNotifier
	submits  singleflight.Group
}

// NewAnnouncementService создаёт сервис объявлений. notifier может быть nil.
func NewAnnouncementService(store AnnouncementStore, notifier AnnouncementNotifier) *AnnouncementService {
	return &AnnouncementService{store: store, notifier: notifier}
}

// ListResultWithMessage страница выдачи плюс готовая строка счётчика.
type ListResultWithMessage struct {
	*repository.ListResult
	Message string `json:"message"`
}

// Create проверяет форму и создаёт объявление. Повторная отправка той же
// формы тем же пользователем, пока первая ещё обрабатывается, склеивается
// в один запрос и создаёт одно объявление.
func (s *AnnouncementService) Create(ctx context.Context, shipperID uuid.UUID, in validation.AnnouncementInput) (*models.Announcement, error) {
	if errs := validation.ValidateAnnouncement(in); !errs.Valid() {
		return nil, apperror.NewValidation(errs)
	}

	key := fmt.Sprintf("%s|%s|%s|%s|%s", shipperID, in.Title, in.Departure, in.Arrival, in.Date)
	v, err, _ := s.submits.Do(key, func() (interface{}, error) {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, fmt.Errorf("announcement service: parse date %w", err)
		}

		a := &models.Announcement{
			ShipperID:   shipperID,
			Title:       in.Title,
			Description: in.Description,
			Origin:      in.Departure,
			Destination: in.Arrival,
			Date:        date,
			PackageType: in.PackageType,
			Weight:      in.Weight,
			Dimensions: models.Dimensions{
				Length: in.Length,
				Width:  in.Width,
				Height: in.Height,
			},
			Price:        in.Price,
			IsUrgent:     in.IsUrgent,
			ContactPhone: in.ContactPhone,
			Status:       models.AnnouncementStatusActive,
		}

		if err := s.store.Create(ctx, a); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	a := v.(*models.Announcement)
	if s.notifier != nil {
		s.notifier.AnnouncementCreated(a)
	}
	return a, nil
}

// List возвращает страницу объявлений и строку счётчика для интерфейса.
func (s *AnnouncementService) List(ctx context.Context, params repository.ListFilterParams) (*ListResultWithMessage, error) {
	if params.Status == "" {
		params.Status = models.AnnouncementStatusActive
	}
	res, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &ListResultWithMessage{
		ListResult: res,
		Message:    FormatResultCount(res.Total),
	}, nil
}

// Get возвращает объявление с фотографиями.
func (s *AnnouncementService) Get(ctx context.Context, id uuid.UUID) (*models.Announcement, []models.AnnouncementPhoto, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return nil, nil, apperror.ErrAnnouncementNotFound
		}
		return nil, nil, err
	}
	photos, err := s.store.ListPhotos(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return a, photos, nil
}

// ListMy возвращает объявления пользователя во всех статусах.
func (s *AnnouncementService) ListMy(ctx context.Context, shipperID uuid.UUID) ([]models.Announcement, error) {
	return s.store.ListByShipper(ctx, shipperID)
}

// Update проверяет форму и изменяет объявление владельца.
func (s *AnnouncementService) Update(ctx context.Context, id, shipperID uuid.UUID, in validation.AnnouncementInput) (*models.Announcement, error) {
	if errs := validation.ValidateAnnouncement(in); !errs.Valid() {
		return nil, apperror.NewValidation(errs)
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("announcement service: parse date %w", err)
	}

	a := &models.Announcement{
		ID:          id,
		ShipperID:   shipperID,
		Title:       in.Title,
		Description: in.Description,
		Origin:      in.Departure,
		Destination: in.Arrival,
		Date:        date,
		PackageType: in.PackageType,
		Weight:      in.Weight,
		Dimensions: models.Dimensions{
			Length: in.Length,
			Width:  in.Width,
			Height: in.Height,
		},
		Price:        in.Price,
		IsUrgent:     in.IsUrgent,
		ContactPhone: in.ContactPhone,
	}

	if err := s.store.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return nil, apperror.ErrAnnouncementNotFound
		}
		return nil, err
	}

	// Перечитываем запись: хранилище заполняет статус, created_at и данные
	// отправителя, которых нет во входной форме.
	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus переводит объявление владельца в указанный статус.
// Переходы между статусами не ограничены.
func (s *AnnouncementService) UpdateStatus(ctx context.Context, id, shipperID uuid.UUID, status string) (*models.Announcement, error) {
	if _, ok := models.ValidAnnouncementStatuses[status]; !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "statut inconnu")
	}

	a, err := s.store.UpdateStatus(ctx, id, shipperID, status)
	if err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return nil, apperror.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return a, nil
}

// Delete безвозвратно удаляет объявление владельца.
func (s *AnnouncementService) Delete(ctx context.Context, id, shipperID uuid.UUID) error {
	if err := s.store.Delete(ctx, id, shipperID); err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return apperror.ErrAnnouncementNotFound
		}
		return err
	}
	return nil
}

// AttachPhoto прикрепляет фотографию, соблюдая лимит на объявление.
func (s *AnnouncementService) AttachPhoto(ctx context.Context, shipperID uuid.UUID, photo *models.AnnouncementPhoto) error {
	a, err := s.store.GetByID(ctx, photo.AnnouncementID)
	if err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return apperror.ErrAnnouncementNotFound
		}
		return err
	}
	if a.ShipperID != shipperID {
		return apperror.ErrForbidden
	}

	count, err := s.store.CountPhotos(ctx, photo.AnnouncementID)
	if err != nil {
		return err
	}
	if count >= models.MaxImagesPerAnnouncement {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("Vous ne pouvez ajouter que %d images maximum", models.MaxImagesPerAnnouncement))
	}

	return s.store.AddPhoto(ctx, photo)
}

// FormatResultCount формирует строку счётчика выдачи: "3 annonces trouvées",
// "1 annonce trouvée". Единственное число только при ровно одном результате,
// ноль склоняется как множественное: "0 annonces trouvées".
func FormatResultCount(n int) string {
	if n == 1 {
		return fmt.Sprintf("%d annonce trouvée", n)
	}
	return fmt.Sprintf("%d annonces trouvées", n)
}
