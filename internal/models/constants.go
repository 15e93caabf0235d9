package models

// AnnouncementStatus константы статусов объявлений.
// Канонический набор совпадает с модулем констант фронтенда (ANNOUNCEMENT_STATUS).
const (
	AnnouncementStatusActive    = "active"
	AnnouncementStatusInactive  = "inactive"
	AnnouncementStatusExpired   = "expired"
	AnnouncementStatusCompleted = "completed"
)

// PackageType константы типов колли.
const (
	PackageTypeSmall  = "small"
	PackageTypeMedium = "medium"
	PackageTypeLarge  = "large"
	PackageTypeBulky  = "bulky"
)

// Лимиты приложения (APP_LIMITS фронтенда).
const (
	MaxPackageWeight         = 50.0 // кг
	MaxPackageDimensions     = 200  // см, сумма трёх измерений
	MaxDimensionSide         = 100  // см, каждое измерение
	MaxDescriptionLength     = 500
	MaxTitleLength           = 100
	MaxPrice                 = 10000 // MAD
	MinContactPhoneLength    = 10
	MaxImagesPerAnnouncement = 5
	MinPasswordLength        = 6
)

// ValidAnnouncementStatuses список валидных статусов объявлений.
// Переходы не ограничены: любой статус достижим из любого.
var ValidAnnouncementStatuses = map[string]struct{}{
	AnnouncementStatusActive:    {},
	AnnouncementStatusInactive:  {},
	AnnouncementStatusExpired:   {},
	AnnouncementStatusCompleted: {},
}

// PackageTypeMaxWeights максимальный вес (кг) для каждого типа колли.
var PackageTypeMaxWeights = map[string]float64{
	PackageTypeSmall:  5,
	PackageTypeMedium: 15,
	PackageTypeLarge:  30,
	PackageTypeBulky:  50,
}

// MoroccanCities закрытый список городов, между которыми возможна доставка.
var MoroccanCities = []string{
	"Casablanca", "Rabat", "Marrakech", "Fès", "Tanger", "Agadir",
	"Meknès", "Oujda", "Tétouan", "Safi", "El Jadida", "Nador",
	"Kénitra", "Témara", "Mohammedia", "Béni Mellal", "Taza", "Larache",
}

// PriceRange описывает ценовой диапазон фильтра (MAD).
type PriceRange struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
}

// PriceRanges предустановленные диапазоны цен для фильтрации.
// Max = 0 означает открытую верхнюю границу.
var PriceRanges = []PriceRange{
	{Min: 0, Max: 100, Label: "0 - 100 MAD"},
	{Min: 100, Max: 200, Label: "100 - 200 MAD"},
	{Min: 200, Max: 300, Label: "200 - 300 MAD"},
	{Min: 300, Max: 500, Label: "300 - 500 MAD"},
	{Min: 500, Max: 0, Label: "500+ MAD"},
}

// IsValidCity проверяет, входит ли город в закрытый список.
func IsValidCity(city string) bool {
	for _, c := range MoroccanCities {
		if c == city {
			return true
		}
	}
	return false
}

// IsValidPackageType проверяет тип колли.
func IsValidPackageType(t string) bool {
	_, ok := PackageTypeMaxWeights[t]
	return ok
}
