package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voyagabagae/backend/internal/models"
)

// Ошибки уровня репозитория.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementRepository отвечает за работу с таблицей announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository создаёт новый экземпляр.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

const announcementColumns = `
	a.id, a.shipper_id, a.title, a.description, a.origin, a.destination, a.date,
	a.package_type, a.weight, a.dim_length, a.dim_width, a.dim_height,
	a.price, a.is_urgent, a.contact_phone, a.status, a.created_at, a.updated_at,
	u.first_name, u.last_name, u.rating, u.reviews
`

// scanAnnouncement читает строку с колонками announcementColumns.
func scanAnnouncement(row interface{ Scan(...interface{}) error }) (*models.Announcement, error) {
	var a models.Announcement
	var firstName, lastName string
	var rating float64
	var reviews int

	if err := row.Scan(
		&a.ID, &a.ShipperID, &a.Title, &a.Description, &a.Origin, &a.Destination, &a.Date,
		&a.PackageType, &a.Weight, &a.Dimensions.Length, &a.Dimensions.Width, &a.Dimensions.Height,
		&a.Price, &a.IsUrgent, &a.ContactPhone, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&firstName, &lastName, &rating, &reviews,
	); err != nil {
		return nil, err
	}

	shipper := models.User{FirstName: firstName, LastName: lastName}
	a.Shipper = &models.ShipperInfo{
		Name:    shipper.DisplayName(),
		Rating:  rating,
		Reviews: reviews,
	}
	return &a, nil
}

// Create сохраняет новое объявление.
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements
			(shipper_id, title, description, origin, destination, date, package_type,
			 weight, dim_length, dim_width, dim_height, price, is_urgent, contact_phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		a.ShipperID, a.Title, a.Description, a.Origin, a.Destination, a.Date, a.PackageType,
		a.Weight, a.Dimensions.Length, a.Dimensions.Width, a.Dimensions.Height,
		a.Price, a.IsUrgent, a.ContactPhone, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("announcement repository: create %w", err)
	}

	return nil
}

// GetByID возвращает объявление по идентификатору вместе с карточкой отправителя.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements a
		JOIN users u ON u.id = a.shipper_id
		WHERE a.id = $1
	`
	a, err := scanAnnouncement(r.db.QueryRowxContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("announcement repository: get by id %w", err)
	}
	return a, nil
}

// List возвращает объявления по критериям фильтра, новые сверху.
// Порядок по created_at DESC соответствует добавлению новых объявлений в
// начало списка на фронтенде.
func (r *AnnouncementRepository) List(ctx context.Context, params ListFilterParams) (*ListResult, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM announcements a
		JOIN users u ON u.id = a.shipper_id
		WHERE 1=1
	`
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements a
		JOIN users u ON u.id = a.shipper_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	appendClause := func(clause string, value interface{}) {
		query += clause
		countQuery += clause
		args = append(args, value)
		argIndex++
	}

	if params.Search != "" {
		clause := fmt.Sprintf(" AND (a.title ILIKE $%d OR a.description ILIKE $%d)", argIndex, argIndex)
		appendClause(clause, "%"+params.Search+"%")
	}
	if params.Origin != "" {
		appendClause(fmt.Sprintf(" AND a.origin = $%d", argIndex), params.Origin)
	}
	if params.Destination != "" {
		appendClause(fmt.Sprintf(" AND a.destination = $%d", argIndex), params.Destination)
	}
	if params.PackageType != "" {
		appendClause(fmt.Sprintf(" AND a.package_type = $%d", argIndex), params.PackageType)
	}
	if params.PriceMin != nil {
		appendClause(fmt.Sprintf(" AND a.price >= $%d", argIndex), *params.PriceMin)
	}
	if params.PriceMax != nil {
		appendClause(fmt.Sprintf(" AND a.price <= $%d", argIndex), *params.PriceMax)
	}
	if params.Status != "" {
		appendClause(fmt.Sprintf(" AND a.status = $%d", argIndex), params.Status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("announcement repository: count %w", err)
	}

	query += " ORDER BY a.created_at DESC"

	limit := params.Limit
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
	}
	offset := params.Offset
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, offset)
		argIndex++
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("announcement repository: list %w", err)
	}
	defer rows.Close()

	items := []models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("announcement repository: scan %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("announcement repository: rows %w", err)
	}

	return &ListResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ListByShipper возвращает объявления пользователя, новые сверху.
func (r *AnnouncementRepository) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements a
		JOIN users u ON u.id = a.shipper_id
		WHERE a.shipper_id = $1
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, shipperID)
	if err != nil {
		return nil, fmt.Errorf("announcement repository: list by shipper %w", err)
	}
	defer rows.Close()

	items := []models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("announcement repository: scan %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Update изменяет объявление. Обновлять может только владелец.
func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $1,
		    description = $2,
		    origin = $3,
		    destination = $4,
		    date = $5,
		    package_type = $6,
		    weight = $7,
		    dim_length = $8,
		    dim_width = $9,
		    dim_height = $10,
		    price = $11,
		    is_urgent = $12,
		    contact_phone = $13,
		    updated_at = NOW()
		WHERE id = $14 AND shipper_id = $15
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := r.db.QueryRowxContext(
		ctx, query,
		a.Title, a.Description, a.Origin, a.Destination, a.Date, a.PackageType,
		a.Weight, a.Dimensions.Length, a.Dimensions.Width, a.Dimensions.Height,
		a.Price, a.IsUrgent, a.ContactPhone,
		a.ID, a.ShipperID,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("announcement repository: update %w", err)
	}
	a.UpdatedAt = updatedAt
	return nil
}

// UpdateStatus меняет статус объявления владельца. Переходы не ограничены.
func (r *AnnouncementRepository) UpdateStatus(ctx context.Context, id, shipperID uuid.UUID, status string) (*models.Announcement, error) {
	query := `
		UPDATE announcements
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND shipper_id = $3
		RETURNING id
	`
	var updated uuid.UUID
	if err := r.db.QueryRowxContext(ctx, query, status, id, shipperID).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("announcement repository: update status %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет объявление владельца. Отмена невозможна.
func (r *AnnouncementRepository) Delete(ctx context.Context, id, shipperID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1 AND shipper_id = $2`, id, shipperID)
	if err != nil {
		return fmt.Errorf("announcement repository: delete %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("announcement repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

// ExpireBefore переводит активные объявления с прошедшей датой в статус expired.
// Возвращает количество затронутых записей.
func (r *AnnouncementRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE announcements
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND date < $3
	`
	res, err := r.db.ExecContext(ctx, query, models.AnnouncementStatusExpired, models.AnnouncementStatusActive, cutoff)
	if err != nil {
		return 0, fmt.Errorf("announcement repository: expire %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("announcement repository: expire rows affected %w", err)
	}
	return affected, nil
}

// AddPhoto прикрепляет фотографию к объявлению.
func (r *AnnouncementRepository) AddPhoto(ctx context.Context, photo *models.AnnouncementPhoto) error {
	query := `
		INSERT INTO announcement_photos (announcement_id, file_path, file_size)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, photo.AnnouncementID, photo.FilePath, photo.FileSize).
		Scan(&photo.ID, &photo.CreatedAt); err != nil {
		return fmt.Errorf("announcement repository: add photo %w", err)
	}
	return nil
}

// CountPhotos возвращает количество фотографий объявления.
func (r *AnnouncementRepository) CountPhotos(ctx context.Context, announcementID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM announcement_photos WHERE announcement_id = $1`, announcementID); err != nil {
		return 0, fmt.Errorf("announcement repository: count photos %w", err)
	}
	return count, nil
}

// ListPhotos возвращает фотографии объявления в порядке добавления.
func (r *AnnouncementRepository) ListPhotos(ctx context.Context, announcementID uuid.UUID) ([]models.AnnouncementPhoto, error) {
	photos := []models.AnnouncementPhoto{}
	query := `
		SELECT id, announcement_id, file_path, file_size, created_at
		FROM announcement_photos
		WHERE announcement_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &photos, query, announcementID); err != nil {
		return nil, fmt.Errorf("announcement repository: list photos %w", err)
	}
	return photos, nil
}
