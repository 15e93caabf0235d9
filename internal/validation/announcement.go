package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/voyagabagae/backend/internal/models"
)

// Ключи полей в карте ошибок. Совпадают с именами полей формы фронтенда.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldDeparture    = "departure"
	FieldArrival      = "arrival"
	FieldDate         = "date"
	FieldPackageType  = "packageType"
	FieldWeight       = "weight"
	FieldDimensions   = "dimensions"
	FieldPrice        = "price"
	FieldContactPhone = "contactPhone"
	FieldGeneral      = "general"
)

// Сообщения на французском: их видит пользователь платформы.
const (
	MsgRequiredField       = "Ce champ est requis"
	MsgDepartureRequired   = "Ville de départ requise"
	MsgArrivalRequired     = "Ville d'arrivée requise"
	MsgCitiesMustDiffer    = "Les villes de départ et d'arrivée doivent être différentes"
	MsgUnknownCity         = "Ville inconnue"
	MsgDateRequired        = "Date requise"
	MsgDateInPast          = "La date ne peut pas être dans le passé"
	MsgPackageTypeRequired = "Type de colis requis"
	MsgWeightTooSmall      = "Le poids doit être supérieur à 0"
	MsgDimensionsPositive  = "Toutes les dimensions doivent être supérieures à 0"
	MsgPriceTooSmall       = "Le prix doit être supérieur à 0"
	MsgPriceTooLarge       = "Le prix ne peut pas dépasser 10,000 MAD"
	MsgPhoneRequired       = "Numéro de téléphone requis"
	MsgPhoneInvalid        = "Numéro de téléphone invalide"
	MsgSubmitFailed        = "Erreur lors de la création de l'annonce. Veuillez réessayer."
)

// FieldErrors карта "имя поля -> сообщение об ошибке". Пустая карта означает,
// что все проверки пройдены.
type FieldErrors map[string]string

// Valid сообщает, что ошибок нет.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// AnnouncementInput кандидат на создание объявления, как его присылает форма.
type AnnouncementInput struct {
	Title        string
	Description  string
	Departure    string
	Arrival      string
	Date         string // календарная дата в формате 2006-01-02
	PackageType  string
	Weight       float64
	Length       int
	Width        int
	Height       int
	Price        int
	IsUrgent     bool
	ContactPhone string
}

// ValidateAnnouncement проверяет все поля объявления и возвращает карту ошибок.
// Проверки не прерываются на первой ошибке: пользователь видит сразу все
// невалидные поля. Порядок и формулировки повторяют форму создания объявления.
func ValidateAnnouncement(in AnnouncementInput) FieldErrors {
	return ValidateAnnouncementAt(in, time.Now())
}

// ValidateAnnouncementAt то же, что ValidateAnnouncement, но с явным "сегодня".
func ValidateAnnouncementAt(in AnnouncementInput, now time.Time) FieldErrors {
	errs := FieldErrors{}

	// Заголовок
	if strings.TrimSpace(in.Title) == "" {
		errs[FieldTitle] = MsgRequiredField
	} else if utf8.RuneCountInString(in.Title) > models.MaxTitleLength {
		errs[FieldTitle] = fmt.Sprintf("Le titre ne peut pas dépasser %d caractères", models.MaxTitleLength)
	}

	// Описание
	if strings.TrimSpace(in.Description) == "" {
		errs[FieldDescription] = MsgRequiredField
	} else if utf8.RuneCountInString(in.Description) > models.MaxDescriptionLength {
		errs[FieldDescription] = fmt.Sprintf("La description ne peut pas dépasser %d caractères", models.MaxDescriptionLength)
	}

	// Города
	if in.Departure == "" {
		errs[FieldDeparture] = MsgDepartureRequired
	} else if !models.IsValidCity(in.Departure) {
		errs[FieldDeparture] = MsgUnknownCity
	}
	if in.Arrival == "" {
		errs[FieldArrival] = MsgArrivalRequired
	} else if !models.IsValidCity(in.Arrival) {
		errs[FieldArrival] = MsgUnknownCity
	}
	// Проверка равенства требует непустого departure, иначе два пустых
	// значения по умолчанию ошибочно считались бы совпадением.
	if in.Departure == in.Arrival && in.Departure != "" {
		errs[FieldArrival] = MsgCitiesMustDiffer
	}

	// Дата: сравнение с "сегодня" после усечения до полуночи, сам день валиден.
	if in.Date == "" {
		errs[FieldDate] = MsgDateRequired
	} else if parsed, err := time.ParseInLocation("2006-01-02", in.Date, now.Location()); err != nil {
		errs[FieldDate] = MsgDateRequired
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if parsed.Before(today) {
			errs[FieldDate] = MsgDateInPast
		}
	}

	// Тип колли
	if in.PackageType == "" {
		errs[FieldPackageType] = MsgPackageTypeRequired
	} else if !models.IsValidPackageType(in.PackageType) {
		errs[FieldPackageType] = MsgPackageTypeRequired
	}

	// Вес
	if in.Weight <= 0 {
		errs[FieldWeight] = MsgWeightTooSmall
	} else if in.Weight > models.MaxPackageWeight {
		errs[FieldWeight] = fmt.Sprintf("Le poids ne peut pas dépasser %dkg", int(models.MaxPackageWeight))
	}

	// Габариты: одна общая ошибка для неположительных значений, отдельная для
	// превышения суммы.
	if in.Length <= 0 || in.Width <= 0 || in.Height <= 0 {
		errs[FieldDimensions] = MsgDimensionsPositive
	} else if in.Length+in.Width+in.Height > models.MaxPackageDimensions {
		errs[FieldDimensions] = fmt.Sprintf("La somme des dimensions ne peut pas dépasser %dcm", models.MaxPackageDimensions)
	} else if in.Length > models.MaxDimensionSide || in.Width > models.MaxDimensionSide || in.Height > models.MaxDimensionSide {
		errs[FieldDimensions] = fmt.Sprintf("Chaque dimension ne peut pas dépasser %dcm", models.MaxDimensionSide)
	}

	// Цена
	if in.Price <= 0 {
		errs[FieldPrice] = MsgPriceTooSmall
	} else if in.Price > models.MaxPrice {
		errs[FieldPrice] = MsgPriceTooLarge
	}

	// Телефон: только обязательность и минимальная длина, формат не проверяем.
	if strings.TrimSpace(in.ContactPhone) == "" {
		errs[FieldContactPhone] = MsgPhoneRequired
	} else if utf8.RuneCountInString(in.ContactPhone) < models.MinContactPhoneLength {
		errs[FieldContactPhone] = MsgPhoneInvalid
	}

	return errs
}
