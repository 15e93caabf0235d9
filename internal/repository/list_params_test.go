package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voyagabagae/backend/internal/models"
)

func sampleAnnouncement(title, origin, destination, packageType string, price int) *models.Announcement {
	return &models.Announcement{
		ID:          uuid.New(),
		Title:       title,
		Description: "Transport de colis entre villes",
		Origin:      origin,
		Destination: destination,
		Date:        time.Now().AddDate(0, 0, 7),
		PackageType: packageType,
		Weight:      10,
		Price:       price,
		Status:      models.AnnouncementStatusActive,
	}
}

func TestListFilterParams_EmptyMatchesEverything(t *testing.T) {
	items := []*models.Announcement{
		sampleAnnouncement("Casablanca vers Rabat", "Casablanca", "Rabat", models.PackageTypeSmall, 100),
		sampleAnnouncement("Livraison urgente", "Fès", "Tanger", models.PackageTypeBulky, 900),
	}

	var params ListFilterParams
	if !params.IsEmpty() {
		t.Fatalf("пустые параметры должны считаться пустыми")
	}
	for _, a := range items {
		if !params.Matches(a) {
			t.Fatalf("пустой фильтр должен пропускать %q", a.Title)
		}
	}
}

func TestListFilterParams_SearchCaseInsensitive(t *testing.T) {
	a := sampleAnnouncement("Colis URGENT vers Rabat", "Casablanca", "Rabat", models.PackageTypeSmall, 100)

	params := ListFilterParams{Search: "urgent"}
	if !params.Matches(a) {
		t.Fatalf("поиск должен игнорировать регистр в заголовке")
	}

	params = ListFilterParams{Search: "ENTRE VILLES"}
	if !params.Matches(a) {
		t.Fatalf("поиск должен охватывать описание")
	}

	params = ListFilterParams{Search: "meubles"}
	if params.Matches(a) {
		t.Fatalf("несовпадающий поиск не должен пропускать объявление")
	}
}

func TestListFilterParams_Conjunction(t *testing.T) {
	a := sampleAnnouncement("Casablanca vers Rabat", "Casablanca", "Rabat", models.PackageTypeMedium, 150)

	params := ListFilterParams{Origin: "Casablanca", PackageType: models.PackageTypeMedium}
	if !params.Matches(a) {
		t.Fatalf("все активные критерии совпадают, ожидался match")
	}

	// Один несовпавший критерий отклоняет объявление целиком.
	params.Destination = "Agadir"
	if params.Matches(a) {
		t.Fatalf("несовпавший критерий назначения должен отклонить объявление")
	}
}

func TestListFilterParams_PriceRangeBounds(t *testing.T) {
	prices := []int{80, 150, 600}
	min, max := 100, 200
	params := ListFilterParams{PriceMin: &min, PriceMax: &max}

	var kept []int
	for _, p := range prices {
		a := sampleAnnouncement("Annonce", "Casablanca", "Rabat", models.PackageTypeSmall, p)
		if params.Matches(a) {
			kept = append(kept, p)
		}
	}

	if len(kept) != 1 || kept[0] != 150 {
		t.Fatalf("для диапазона 100-200 ожидалась только цена 150, получили %v", kept)
	}

	// Границы диапазона включительные.
	edge := sampleAnnouncement("Annonce", "Casablanca", "Rabat", models.PackageTypeSmall, 100)
	if !params.Matches(edge) {
		t.Fatalf("нижняя граница должна входить в диапазон")
	}
	edge.Price = 200
	if !params.Matches(edge) {
		t.Fatalf("верхняя граница должна входить в диапазон")
	}
}

func TestParsePriceRange(t *testing.T) {
	min, max, err := ParsePriceRange("100-200")
	if err != nil {
		t.Fatalf("разбор диапазона вернул ошибку: %v", err)
	}
	if min == nil || *min != 100 || max == nil || *max != 200 {
		t.Fatalf("ожидался диапазон 100-200")
	}

	// Открытый сверху диапазон: "500-0" и "500-" означают 500+.
	min, max, err = ParsePriceRange("500-0")
	if err != nil {
		t.Fatalf("разбор открытого диапазона вернул ошибку: %v", err)
	}
	if min == nil || *min != 500 || max != nil {
		t.Fatalf("ожидался открытый сверху диапазон от 500")
	}

	if _, _, err = ParsePriceRange("abc"); err == nil {
		t.Fatalf("некорректный диапазон должен возвращать ошибку")
	}
}

func TestMemoryAnnouncementRepository_FilterPreservesOrderAndIdempotent(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(nil)
	ctx := context.Background()

	titles := []string{"Premier colis", "Deuxième colis", "Troisième colis"}
	for _, title := range titles {
		a := sampleAnnouncement(title, "Casablanca", "Rabat", models.PackageTypeSmall, 100)
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create вернул ошибку: %v", err)
		}
	}

	params := ListFilterParams{Origin: "Casablanca"}
	first, err := repo.List(ctx, params)
	if err != nil {
		t.Fatalf("list вернул ошибку: %v", err)
	}

	// Новые объявления добавляются в начало списка.
	if len(first.Items) != 3 || first.Items[0].Title != "Troisième colis" {
		t.Fatalf("ожидался порядок 'новые сверху', получили %v", first.Items)
	}

	// Повторное применение того же фильтра даёт тот же результат.
	second, err := repo.List(ctx, params)
	if err != nil {
		t.Fatalf("повторный list вернул ошибку: %v", err)
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("фильтр должен быть идемпотентным")
	}
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID {
			t.Fatalf("повторная фильтрация изменила порядок на позиции %d", i)
		}
	}
}
