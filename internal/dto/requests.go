package dto

import "github.com/voyagabagae/backend/internal/validation"

// RegisterRequest форма регистрации.
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// ToInput преобразует форму в сервисный ввод.
func (r RegisterRequest) ToInput() validation.RegisterInput {
	return validation.RegisterInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		AcceptTerms:     r.AcceptTerms,
	}
}

// LoginRequest форма входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest запрос обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest форма редактирования профиля.
type UpdateProfileRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	IsCarrier bool    `json:"isCarrier"`
	Avatar    *string `json:"avatar"`
}

// AnnouncementRequest форма создания и редактирования объявления.
// Имена полей совпадают с формой фронтенда.
type AnnouncementRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Departure    string  `json:"departure"`
	Arrival      string  `json:"arrival"`
	Date         string  `json:"date"` // календарная дата 2006-01-02
	PackageType  string  `json:"packageType"`
	Weight       float64 `json:"weight"`
	Length       int     `json:"length"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Price        int     `json:"price"`
	IsUrgent     bool    `json:"isUrgent"`
	ContactPhone string  `json:"contactPhone"`
}

// ToInput преобразует форму в сервисный ввод.
func (r AnnouncementRequest) ToInput() validation.AnnouncementInput {
	return validation.AnnouncementInput{
		Title:        r.Title,
		Description:  r.Description,
		Departure:    r.Departure,
		Arrival:      r.Arrival,
		Date:         r.Date,
		PackageType:  r.PackageType,
		Weight:       r.Weight,
		Length:       r.Length,
		Width:        r.Width,
		Height:       r.Height,
		Price:        r.Price,
		IsUrgent:     r.IsUrgent,
		ContactPhone: r.ContactPhone,
	}
}

// UpdateStatusRequest запрос смены статуса объявления.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
