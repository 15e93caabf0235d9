package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voyagabagae/backend/internal/models"
)

// ListFilterParams содержит критерии фильтрации выдачи объявлений.
// Все критерии необязательны; активные критерии объединяются по И.
type ListFilterParams struct {
	Search      string // подстрока без учёта регистра в заголовке ИЛИ описании
	Origin      string // точное совпадение города отправления
	Destination string // точное совпадение города назначения
	PackageType string // точное совпадение типа колли
	PriceMin    *int   // нижняя граница цены включительно
	PriceMax    *int   // верхняя граница цены включительно, nil — без ограничения
	Status      string
	Limit       int
	Offset      int
}

// ListResult содержит страницу объявлений и метаданные пагинации.
type ListResult struct {
	Items  []models.Announcement `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// Matches проверяет объявление против всех активных критериев.
// Это эталонная, чистая реализация семантики фильтра; SQL репозиторий
// строит WHERE с теми же условиями.
func (p ListFilterParams) Matches(a *models.Announcement) bool {
	if p.Search != "" {
		needle := strings.ToLower(p.Search)
		if !strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) {
			return false
		}
	}
	if p.Origin != "" && a.Origin != p.Origin {
		return false
	}
	if p.Destination != "" && a.Destination != p.Destination {
		return false
	}
	if p.PackageType != "" && a.PackageType != p.PackageType {
		return false
	}
	if p.PriceMin != nil && a.Price < *p.PriceMin {
		return false
	}
	if p.PriceMax != nil && a.Price > *p.PriceMax {
		return false
	}
	if p.Status != "" && a.Status != p.Status {
		return false
	}
	return true
}

// IsEmpty сообщает, что ни один критерий не активен (identity-фильтр).
func (p ListFilterParams) IsEmpty() bool {
	return p.Search == "" && p.Origin == "" && p.Destination == "" &&
		p.PackageType == "" && p.PriceMin == nil && p.PriceMax == nil && p.Status == ""
}

// ParsePriceRange разбирает диапазон вида "min-max" ("100-200", "500-1000").
// Пустая строка означает отсутствие фильтра по цене. Отсутствующий или
// нулевой max означает открытую верхнюю границу.
func ParsePriceRange(raw string) (min, max *int, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, nil
	}

	parts := strings.SplitN(raw, "-", 2)
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || lo < 0 {
		return nil, nil, fmt.Errorf("repository: некорректный диапазон цен %q", raw)
	}
	min = &lo

	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || hi < 0 {
			return nil, nil, fmt.Errorf("repository: некорректный диапазон цен %q", raw)
		}
		if hi > 0 {
			max = &hi
		}
	}

	return min, max, nil
}
