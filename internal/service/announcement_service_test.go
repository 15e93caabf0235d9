package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voyagabagae/backend/internal/models"
	"github.com/voyagabagae/backend/internal/pkg/apperror"
	"github.com/voyagabagae/backend/internal/repository"
	"github.com/voyagabagae/backend/internal/validation"
)

// recordingNotifier собирает уведомления о созданных объявлениях.
type recordingNotifier struct {
	mu      sync.Mutex
	created []uuid.UUID
}

func (n *recordingNotifier) AnnouncementCreated(a *models.Announcement) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, a.ID)
}

func announcementInput() validation.AnnouncementInput {
	return validation.AnnouncementInput{
		Title:        "Transport de colis Casablanca-Rabat",
		Description:  "Petit colis à livrer rapidement",
		Departure:    "Casablanca",
		Arrival:      "Rabat",
		Date:         time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		PackageType:  "small",
		Weight:       4.5,
		Length:       30,
		Width:        20,
		Height:       10,
		Price:        150,
		ContactPhone: "0612345678",
	}
}

func TestAnnouncementService_Create(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewAnnouncementService(repository.NewMemoryAnnouncementRepository(nil), notifier)
	ctx := context.Background()
	shipperID := uuid.New()

	a, err := svc.Create(ctx, shipperID, announcementInput())
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if a.Status != models.AnnouncementStatusActive {
		t.Fatalf("новое объявление должно быть active, получили %q", a.Status)
	}
	if a.ShipperID != shipperID {
		t.Fatalf("объявление должно принадлежать создателю")
	}
	if len(notifier.created) != 1 || notifier.created[0] != a.ID {
		t.Fatalf("ожидалось одно уведомление о создании, получили %v", notifier.created)
	}
}

func TestAnnouncementService_CreateInvalid(t *testing.T) {
	svc := NewAnnouncementService(repository.NewMemoryAnnouncementRepository(nil), nil)

	in := announcementInput()
	in.Arrival = in.Departure
	in.Weight = 60

	_, err := svc.Create(context.Background(), uuid.New(), in)
	var vErr *apperror.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ожидалась ошибка валидации, получили %v", err)
	}
	if _, ok := vErr.Fields[validation.FieldArrival]; !ok {
		t.Fatalf("ожидалась ошибка города назначения, получили %v", vErr.Fields)
	}
	if _, ok := vErr.Fields[validation.FieldWeight]; !ok {
		t.Fatalf("ожидалась ошибка веса, получили %v", vErr.Fields)
	}
}

func TestAnnouncementService_ListDefaultsToActive(t *testing.T) {
	store := repository.NewMemoryAnnouncementRepository(nil)
	svc := NewAnnouncementService(store, nil)
	ctx := context.Background()
	shipperID := uuid.New()

	a, err := svc.Create(ctx, shipperID, announcementInput())
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	in := announcementInput()
	in.Title = "Annonce désactivée"
	b, err := svc.Create(ctx, shipperID, in)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, b.ID, shipperID, models.AnnouncementStatusInactive); err != nil {
		t.Fatalf("смена статуса вернула ошибку: %v", err)
	}

	res, err := svc.List(ctx, repository.ListFilterParams{})
	if err != nil {
		t.Fatalf("list вернул ошибку: %v", err)
	}
	if res.Total != 1 || res.Items[0].ID != a.ID {
		t.Fatalf("выдача по умолчанию должна содержать только активные, получили %+v", res.ListResult)
	}
	if res.Message != "1 annonce trouvée" {
		t.Fatalf("ожидалось сообщение '1 annonce trouvée', получили %q", res.Message)
	}
}

func TestAnnouncementService_UpdateStatusUnknown(t *testing.T) {
	svc := NewAnnouncementService(repository.NewMemoryAnnouncementRepository(nil), nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "archived")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeBadRequest {
		t.Fatalf("неизвестный статус должен давать BAD_REQUEST, получили %v", err)
	}
}

func TestAnnouncementService_AttachPhotoLimit(t *testing.T) {
	svc := NewAnnouncementService(repository.NewMemoryAnnouncementRepository(nil), nil)
	ctx := context.Background()
	shipperID := uuid.New()

	a, err := svc.Create(ctx, shipperID, announcementInput())
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	for i := 0; i < models.MaxImagesPerAnnouncement; i++ {
		photo := &models.AnnouncementPhoto{AnnouncementID: a.ID, FilePath: "/media/p.jpg", FileSize: 100}
		if err := svc.AttachPhoto(ctx, shipperID, photo); err != nil {
			t.Fatalf("фото %d: вернулась ошибка %v", i, err)
		}
	}

	photo := &models.AnnouncementPhoto{AnnouncementID: a.ID, FilePath: "/media/p.jpg", FileSize: 100}
	err = svc.AttachPhoto(ctx, shipperID, photo)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeValidation {
		t.Fatalf("превышение лимита фото должно давать ошибку валидации, получили %v", err)
	}

	// Чужой пользователь не может прикреплять фотографии.
	err = svc.AttachPhoto(ctx, uuid.New(), photo)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("чужое объявление: ожидался ErrForbidden, получили %v", err)
	}
}

func TestAnnouncementService_DeleteNotOwned(t *testing.T) {
	svc := NewAnnouncementService(repository.NewMemoryAnnouncementRepository(nil), nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, uuid.New(), announcementInput())
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	if err := svc.Delete(ctx, a.ID, uuid.New()); !errors.Is(err, apperror.ErrAnnouncementNotFound) {
		t.Fatalf("удаление чужого объявления должно давать not found, получили %v", err)
	}
}

func TestAnnouncementService_UpdateReturnsStoredRecord(t *testing.T) {
	svc := NewAnnouncementService(repository.NewMemoryAnnouncementRepository(nil), nil)
	ctx := context.Background()
	shipperID := uuid.New()

	a, err := svc.Create(ctx, shipperID, announcementInput())
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	in := announcementInput()
	in.Title = "Nouveau titre"
	updated, err := svc.Update(ctx, a.ID, shipperID, in)
	if err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}

	// Форма не содержит статус и created_at: их должно вернуть хранилище.
	if updated.Title != "Nouveau titre" {
		t.Fatalf("заголовок не обновился, получили %q", updated.Title)
	}
	if updated.Status != models.AnnouncementStatusActive {
		t.Fatalf("статус после обновления должен остаться active, получили %q", updated.Status)
	}
	if !updated.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("created_at не должен меняться при обновлении")
	}
}

func TestFormatResultCount(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		// Ноль во множественном числе, единственное только при ровно одном.
		{0, "0 annonces trouvées"},
		{1, "1 annonce trouvée"},
		{2, "2 annonces trouvées"},
		{15, "15 annonces trouvées"},
	}
	for _, tc := range cases {
		if got := FormatResultCount(tc.n); got != tc.want {
			t.Fatalf("FormatResultCount(%d) = %q, ожидали %q", tc.n, got, tc.want)
		}
	}
}

func TestExpirySweeper_Sweep(t *testing.T) {
	store := repository.NewMemoryAnnouncementRepository(nil)
	svc := NewAnnouncementService(store, nil)
	ctx := context.Background()
	shipperID := uuid.New()

	a, err := svc.Create(ctx, shipperID, announcementInput())
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	// Дату нельзя создать в прошлом через сервис, двигаем напрямую.
	stale := *a
	stale.Date = time.Now().AddDate(0, 0, -1)
	if err := store.Update(ctx, &stale); err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}

	sweeper := NewExpirySweeper(store, time.Hour)
	sweeper.sweep(ctx)

	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get вернул ошибку: %v", err)
	}
	if got.Status != models.AnnouncementStatusExpired {
		t.Fatalf("просроченное объявление должно стать expired, получили %q", got.Status)
	}
}
