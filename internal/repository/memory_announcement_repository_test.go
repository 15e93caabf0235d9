package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voyagabagae/backend/internal/models"
)

func TestMemoryAnnouncementRepository_CRUD(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(nil)
	ctx := context.Background()
	shipperID := uuid.New()

	a := sampleAnnouncement("Colis Casablanca-Rabat", "Casablanca", "Rabat", models.PackageTypeSmall, 120)
	a.ShipperID = shipperID
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Fatalf("create должен присвоить идентификатор")
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get вернул ошибку: %v", err)
	}
	if got.Title != a.Title {
		t.Fatalf("ожидался заголовок %q, получили %q", a.Title, got.Title)
	}

	// Чужой пользователь не может изменить или удалить объявление.
	if _, err := repo.UpdateStatus(ctx, a.ID, uuid.New(), models.AnnouncementStatusCompleted); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Fatalf("смена статуса чужого объявления должна возвращать ErrAnnouncementNotFound, получили %v", err)
	}
	if err := repo.Delete(ctx, a.ID, uuid.New()); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Fatalf("удаление чужого объявления должно возвращать ErrAnnouncementNotFound, получили %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, a.ID, shipperID, models.AnnouncementStatusInactive)
	if err != nil {
		t.Fatalf("смена статуса вернула ошибку: %v", err)
	}
	if updated.Status != models.AnnouncementStatusInactive {
		t.Fatalf("ожидался статус inactive, получили %q", updated.Status)
	}

	if err := repo.Delete(ctx, a.ID, shipperID); err != nil {
		t.Fatalf("удаление вернуло ошибку: %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Fatalf("после удаления ожидался ErrAnnouncementNotFound, получили %v", err)
	}
}

func TestMemoryAnnouncementRepository_Pagination(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a := sampleAnnouncement("Annonce", "Casablanca", "Rabat", models.PackageTypeSmall, 100+i)
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create вернул ошибку: %v", err)
		}
	}

	res, err := repo.List(ctx, ListFilterParams{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list вернул ошибку: %v", err)
	}
	if res.Total != 5 {
		t.Fatalf("total должен считаться до пагинации, получили %d", res.Total)
	}
	if len(res.Items) != 2 {
		t.Fatalf("ожидались 2 элемента страницы, получили %d", len(res.Items))
	}

	// Offset за пределами выборки даёт пустую страницу, не ошибку.
	res, err = repo.List(ctx, ListFilterParams{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("list вернул ошибку: %v", err)
	}
	if len(res.Items) != 0 || res.Total != 5 {
		t.Fatalf("ожидалась пустая страница с total=5, получили %d/%d", len(res.Items), res.Total)
	}
}

func TestMemoryAnnouncementRepository_ExpireBefore(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(nil)
	ctx := context.Background()

	past := sampleAnnouncement("Ancienne annonce", "Fès", "Tanger", models.PackageTypeSmall, 100)
	past.Date = time.Now().AddDate(0, 0, -2)
	future := sampleAnnouncement("Nouvelle annonce", "Fès", "Tanger", models.PackageTypeSmall, 100)

	for _, a := range []*models.Announcement{past, future} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create вернул ошибку: %v", err)
		}
	}

	affected, err := repo.ExpireBefore(ctx, time.Now())
	if err != nil {
		t.Fatalf("expire вернул ошибку: %v", err)
	}
	if affected != 1 {
		t.Fatalf("ожидалось одно истёкшее объявление, получили %d", affected)
	}

	got, _ := repo.GetByID(ctx, past.ID)
	if got.Status != models.AnnouncementStatusExpired {
		t.Fatalf("прошедшее объявление должно стать expired, получили %q", got.Status)
	}
	got, _ = repo.GetByID(ctx, future.ID)
	if got.Status != models.AnnouncementStatusActive {
		t.Fatalf("будущее объявление должно остаться active, получили %q", got.Status)
	}
}

func TestMemoryAnnouncementRepository_Photos(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(nil)
	ctx := context.Background()

	a := sampleAnnouncement("Annonce", "Casablanca", "Rabat", models.PackageTypeSmall, 100)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	for i := 0; i < 3; i++ {
		photo := &models.AnnouncementPhoto{AnnouncementID: a.ID, FilePath: "/media/photo.jpg", FileSize: 1024}
		if err := repo.AddPhoto(ctx, photo); err != nil {
			t.Fatalf("add photo вернул ошибку: %v", err)
		}
	}

	count, err := repo.CountPhotos(ctx, a.ID)
	if err != nil {
		t.Fatalf("count photos вернул ошибку: %v", err)
	}
	if count != 3 {
		t.Fatalf("ожидались 3 фотографии, получили %d", count)
	}

	photos, err := repo.ListPhotos(ctx, a.ID)
	if err != nil {
		t.Fatalf("list photos вернул ошибку: %v", err)
	}
	if len(photos) != 3 {
		t.Fatalf("ожидались 3 фотографии в списке, получили %d", len(photos))
	}
}
