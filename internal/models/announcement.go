package models

import (
	"time"

	"github.com/google/uuid"
)

// Dimensions габариты колли в сантиметрах.
type Dimensions struct {
	Length int `db:"dim_length" json:"length"`
	Width  int `db:"dim_width" json:"width"`
	Height int `db:"dim_height" json:"height"`
}

// Sum возвращает сумму трёх измерений.
func (d Dimensions) Sum() int {
	return d.Length + d.Width + d.Height
}

// Announcement описывает объявление о перевозке колли.
type Announcement struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ShipperID    uuid.UUID  `db:"shipper_id" json:"shipper_id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Origin       string     `db:"origin" json:"origin"`
	Destination  string     `db:"destination" json:"destination"`
	Date         time.Time  `db:"date" json:"date"`
	PackageType  string     `db:"package_type" json:"package_type"`
	Weight       float64    `db:"weight" json:"weight"`
	Dimensions   Dimensions `db:"dimensions" json:"dimensions"`
	Price        int        `db:"price" json:"price"`
	IsUrgent     bool       `db:"is_urgent" json:"is_urgent"`
	ContactPhone string     `db:"contact_phone" json:"contact_phone"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	// Денормализованная информация об отправителе для карточки объявления.
	Shipper *ShipperInfo `db:"-" json:"shipper,omitempty"`
}

// ShipperInfo краткая карточка отправителя в выдаче объявлений.
type ShipperInfo struct {
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// AnnouncementPhoto фотография, прикреплённая к объявлению.
type AnnouncementPhoto struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AnnouncementID uuid.UUID `db:"announcement_id" json:"announcement_id"`
	FilePath       string    `db:"file_path" json:"file_path"`
	FileSize       int64     `db:"file_size" json:"file_size"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
