package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voyagabagae/backend/internal/models"
)

// MemoryUserRepository хранит пользователей и сессии в памяти.
// Производственный режим без БД и фейк для тестов сервисного слоя.
type MemoryUserRepository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	byEmail  map[string]uuid.UUID
	sessions map[string]models.Session // ключ — refresh токен
}

// NewMemoryUserRepository создаёт пустое хранилище пользователей.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:    make(map[uuid.UUID]models.User),
		byEmail:  make(map[string]uuid.UUID),
		sessions: make(map[string]models.Session),
	}
}

// Create регистрирует пользователя; email сравнивается без учёта регистра.
func (r *MemoryUserRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrEmailTaken
	}

	u.ID = uuid.New()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.users[u.ID] = *u
	r.byEmail[key] = u.ID
	return nil
}

// GetByEmail находит пользователя по email.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.users[id]
	return &u, nil
}

// GetByID находит пользователя по идентификатору.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// UpdateProfile обновляет редактируемые поля профиля.
func (r *MemoryUserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return ErrUserNotFound
	}
	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.Phone = u.Phone
	stored.IsCarrier = u.IsCarrier
	stored.Avatar = u.Avatar
	stored.UpdatedAt = time.Now()
	r.users[u.ID] = stored
	*u = stored
	return nil
}

// UpdateLastLoginAt фиксирует время последнего входа.
func (r *MemoryUserRepository) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	r.users[id] = u
	return nil
}

// ResolveShipper отдаёт карточку отправителя для объявлений.
func (r *MemoryUserRepository) ResolveShipper(ctx context.Context, userID uuid.UUID) (*models.ShipperInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &models.ShipperInfo{Name: u.DisplayName(), Rating: u.Rating, Reviews: u.Reviews}, nil
}

// CreateSession сохраняет refresh-сессию.
func (r *MemoryUserRepository) CreateSession(ctx context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sessions[s.RefreshToken] = *s
	return nil
}

// GetSessionByRefreshToken возвращает сессию по refresh токену.
func (r *MemoryUserRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[refreshToken]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *MemoryUserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, refreshToken)
	return nil
}

// DeleteAllSessions удаляет все сессии пользователя.
func (r *MemoryUserRepository) DeleteAllSessions(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}
