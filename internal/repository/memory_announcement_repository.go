package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voyagabagae/backend/internal/models"
)

// MemoryAnnouncementRepository хранит объявления в памяти.
// Используется как хранилище в режиме без БД и как эталон семантики фильтра:
// новые объявления добавляются в начало списка, выдача сохраняет порядок
// источника, пустой набор критериев возвращает список без изменений.
type MemoryAnnouncementRepository struct {
	mu       sync.RWMutex
	items    []models.Announcement // новые в начале
	photos   map[uuid.UUID][]models.AnnouncementPhoto
	shippers ShipperResolver
}

// ShipperResolver отдаёт карточку отправителя для денормализации в выдаче.
type ShipperResolver interface {
	ResolveShipper(ctx context.Context, userID uuid.UUID) (*models.ShipperInfo, error)
}

// NewMemoryAnnouncementRepository создаёт пустое in-memory хранилище.
func NewMemoryAnnouncementRepository(shippers ShipperResolver) *MemoryAnnouncementRepository {
	return &MemoryAnnouncementRepository{
		photos:   make(map[uuid.UUID][]models.AnnouncementPhoto),
		shippers: shippers,
	}
}

// Create добавляет объявление в начало списка.
func (r *MemoryAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.New()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.fillShipper(ctx, a)

	r.items = append([]models.Announcement{*a}, r.items...)
	return nil
}

// GetByID возвращает копию объявления.
func (r *MemoryAnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			a := r.items[i]
			return &a, nil
		}
	}
	return nil, ErrAnnouncementNotFound
}

// List возвращает объявления, удовлетворяющие конъюнкции активных критериев,
// в порядке источника. Без активных критериев возвращается весь список.
func (r *MemoryAnnouncementRepository) List(ctx context.Context, params ListFilterParams) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Announcement{}
	for i := range r.items {
		if params.Matches(&r.items[i]) {
			filtered = append(filtered, r.items[i])
		}
	}

	total := len(filtered)

	// Пагинация применяется после фильтрации.
	if params.Offset > 0 {
		if params.Offset >= len(filtered) {
			filtered = []models.Announcement{}
		} else {
			filtered = filtered[params.Offset:]
		}
	}
	if params.Limit > 0 && params.Limit < len(filtered) {
		filtered = filtered[:params.Limit]
	}

	return &ListResult{Items: filtered, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// ListByShipper возвращает объявления пользователя, новые сверху.
func (r *MemoryAnnouncementRepository) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]models.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Announcement{}
	for i := range r.items {
		if r.items[i].ShipperID == shipperID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

// Update изменяет объявление владельца.
func (r *MemoryAnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == a.ID && r.items[i].ShipperID == a.ShipperID {
			a.CreatedAt = r.items[i].CreatedAt
			a.Status = r.items[i].Status
			a.UpdatedAt = time.Now()
			r.fillShipper(ctx, a)
			r.items[i] = *a
			return nil
		}
	}
	return ErrAnnouncementNotFound
}

// UpdateStatus меняет статус объявления владельца; любой статус достижим из любого.
func (r *MemoryAnnouncementRepository) UpdateStatus(ctx context.Context, id, shipperID uuid.UUID, status string) (*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id && r.items[i].ShipperID == shipperID {
			r.items[i].Status = status
			r.items[i].UpdatedAt = time.Now()
			a := r.items[i]
			return &a, nil
		}
	}
	return nil, ErrAnnouncementNotFound
}

// Delete безвозвратно удаляет объявление владельца.
func (r *MemoryAnnouncementRepository) Delete(ctx context.Context, id, shipperID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id && r.items[i].ShipperID == shipperID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			delete(r.photos, id)
			return nil
		}
	}
	return ErrAnnouncementNotFound
}

// ExpireBefore переводит активные объявления с прошедшей датой в expired.
func (r *MemoryAnnouncementRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for i := range r.items {
		if r.items[i].Status == models.AnnouncementStatusActive && r.items[i].Date.Before(cutoff) {
			r.items[i].Status = models.AnnouncementStatusExpired
			r.items[i].UpdatedAt = time.Now()
			affected++
		}
	}
	return affected, nil
}

// AddPhoto прикрепляет фотографию к объявлению.
func (r *MemoryAnnouncementRepository) AddPhoto(ctx context.Context, photo *models.AnnouncementPhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	photo.ID = uuid.New()
	photo.CreatedAt = time.Now()
	r.photos[photo.AnnouncementID] = append(r.photos[photo.AnnouncementID], *photo)
	return nil
}

// CountPhotos возвращает количество фотографий объявления.
func (r *MemoryAnnouncementRepository) CountPhotos(ctx context.Context, announcementID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.photos[announcementID]), nil
}

// ListPhotos возвращает фотографии объявления в порядке добавления.
func (r *MemoryAnnouncementRepository) ListPhotos(ctx context.Context, announcementID uuid.UUID) ([]models.AnnouncementPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AnnouncementPhoto, len(r.photos[announcementID]))
	copy(out, r.photos[announcementID])
	return out, nil
}

// fillShipper подставляет карточку отправителя, если резолвер доступен.
func (r *MemoryAnnouncementRepository) fillShipper(ctx context.Context, a *models.Announcement) {
	if r.shippers == nil || a.Shipper != nil {
		return
	}
	if info, err := r.shippers.ResolveShipper(ctx, a.ShipperID); err == nil {
		a.Shipper = info
	}
}
