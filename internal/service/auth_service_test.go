package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voyagabagae/backend/internal/pkg/apperror"
	"github.com/voyagabagae/backend/internal/repository"
	"github.com/voyagabagae/backend/internal/validation"
)

func registerInput() validation.RegisterInput {
	return validation.RegisterInput{
		FirstName:       "Yasmine",
		LastName:        "Benali",
		Email:           "yasmine@example.com",
		Phone:           "0612345678",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AcceptTerms:     true,
	}
}

func newAuthService() (*AuthService, *repository.MemoryUserRepository) {
	repo := repository.NewMemoryUserRepository()
	tm := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(repo, tm), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput(), map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}
	if res.TokenPair.AccessToken == "" || res.TokenPair.RefreshToken == "" {
		t.Fatalf("регистрация должна выдавать пару токенов")
	}
	if res.User.PasswordHash == "secret123" {
		t.Fatalf("пароль должен храниться в виде хеша")
	}

	login, err := svc.Login(ctx, LoginInput{Email: "Yasmine@Example.com", Password: "secret123"}, nil)
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}
	if login.User.ID != res.User.ID {
		t.Fatalf("login должен возвращать того же пользователя")
	}
}

func TestAuthService_LoginGenericError(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput(), nil); err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	// Неизвестный email и неверный пароль дают одно и то же сообщение.
	_, errUnknown := svc.Login(ctx, LoginInput{Email: "inconnu@example.com", Password: "secret123"}, nil)
	_, errWrongPass := svc.Login(ctx, LoginInput{Email: "yasmine@example.com", Password: "mauvais"}, nil)

	if !errors.Is(errUnknown, apperror.ErrInvalidCredentials) {
		t.Fatalf("неизвестный email: ожидался ErrInvalidCredentials, получили %v", errUnknown)
	}
	if !errors.Is(errWrongPass, apperror.ErrInvalidCredentials) {
		t.Fatalf("неверный пароль: ожидался ErrInvalidCredentials, получили %v", errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Fatalf("сообщения об отказе должны совпадать: %q vs %q", errUnknown, errWrongPass)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput(), nil); err != nil {
		t.Fatalf("первая регистрация вернула ошибку: %v", err)
	}

	_, err := svc.Register(ctx, registerInput(), nil)
	var vErr *apperror.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("повторная регистрация должна давать ошибку валидации, получили %v", err)
	}
	if _, ok := vErr.Fields[validation.FieldEmail]; !ok {
		t.Fatalf("ошибка должна относиться к полю email, получили %v", vErr.Fields)
	}
}

func TestAuthService_RegisterInvalidForm(t *testing.T) {
	svc, _ := newAuthService()

	in := registerInput()
	in.Password = "123"
	in.ConfirmPassword = "123"
	in.AcceptTerms = false

	_, err := svc.Register(context.Background(), in, nil)
	var vErr *apperror.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ожидалась ошибка валидации, получили %v", err)
	}
	if len(vErr.Fields) < 2 {
		t.Fatalf("ожидались ошибки по нескольким полям, получили %v", vErr.Fields)
	}
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput(), nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	pair, err := svc.Refresh(ctx, res.TokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}
	if pair.RefreshToken == res.TokenPair.RefreshToken {
		t.Fatalf("refresh должен ротировать токен")
	}

	// Старая сессия закрыта: повторный refresh тем же токеном отклоняется.
	if _, err := svc.Refresh(ctx, res.TokenPair.RefreshToken, nil); err == nil {
		t.Fatalf("использованный refresh токен должен отклоняться")
	}

	if _, err := repo.GetSessionByRefreshToken(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("новая сессия должна существовать: %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput(), nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if err := svc.Logout(ctx, res.TokenPair.RefreshToken); err != nil {
		t.Fatalf("logout вернул ошибку: %v", err)
	}
	if _, err := repo.GetSessionByRefreshToken(ctx, res.TokenPair.RefreshToken); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("после logout сессия должна быть удалена, получили %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput(), nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, res.User.ID, ProfileUpdateInput{
		FirstName: "Yasmine",
		LastName:  "El Fassi",
		Phone:     "0698765432",
		IsCarrier: true,
	})
	if err != nil {
		t.Fatalf("update profile вернул ошибку: %v", err)
	}
	if updated.LastName != "El Fassi" || !updated.IsCarrier {
		t.Fatalf("профиль не обновился: %+v", updated)
	}

	_, err = svc.UpdateProfile(ctx, res.User.ID, ProfileUpdateInput{FirstName: "", LastName: ""})
	var vErr *apperror.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("пустые имя и фамилия должны давать ошибку валидации, получили %v", err)
	}
}
