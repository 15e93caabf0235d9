package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/voyagabagae/backend/internal/models"
)

// Ключи полей регистрационной формы.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldAcceptTerms     = "acceptTerms"
)

// Сообщения регистрации и входа.
const (
	MsgFirstNameRequired  = "Le prénom est requis"
	MsgLastNameRequired   = "Le nom est requis"
	MsgEmailRequired      = "L'email est requis"
	MsgEmailInvalid       = "Veuillez entrer une adresse email valide"
	MsgPhoneFieldRequired = "Le numéro de téléphone est requis"
	MsgPasswordRequired   = "Le mot de passe est requis"
	MsgPasswordTooShort   = "Le mot de passe doit contenir au moins 6 caractères"
	MsgConfirmRequired    = "Veuillez confirmer votre mot de passe"
	MsgPasswordsMismatch  = "Les mots de passe ne correspondent pas"
	MsgTermsNotAccepted   = "Vous devez accepter les conditions d'utilisation"
	MsgInvalidCredentials = "Email ou mot de passe incorrect"
)

// RegisterInput кандидат на регистрацию.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// ValidateRegister проверяет регистрационную форму целиком.
func ValidateRegister(in RegisterInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(in.FirstName) == "" {
		errs[FieldFirstName] = MsgFirstNameRequired
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs[FieldLastName] = MsgLastNameRequired
	}

	if strings.TrimSpace(in.Email) == "" {
		errs[FieldEmail] = MsgEmailRequired
	} else if !IsValidEmail(in.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if strings.TrimSpace(in.Phone) == "" {
		errs[FieldPhone] = MsgPhoneFieldRequired
	} else if utf8.RuneCountInString(in.Phone) < models.MinContactPhoneLength {
		errs[FieldPhone] = MsgPhoneInvalid
	}

	if in.Password == "" {
		errs[FieldPassword] = MsgPasswordRequired
	} else if utf8.RuneCountInString(in.Password) < models.MinPasswordLength {
		errs[FieldPassword] = MsgPasswordTooShort
	}

	if in.ConfirmPassword == "" {
		errs[FieldConfirmPassword] = MsgConfirmRequired
	} else if in.Password != in.ConfirmPassword {
		errs[FieldConfirmPassword] = MsgPasswordsMismatch
	}

	if !in.AcceptTerms {
		errs[FieldAcceptTerms] = MsgTermsNotAccepted
	}

	return errs
}

// IsValidEmail выполняет базовую проверку формата email.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}
