package validation

import "testing"

func validRegister() RegisterInput {
	return RegisterInput{
		FirstName:       "Yasmine",
		LastName:        "Benali",
		Email:           "yasmine@example.com",
		Phone:           "0612345678",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AcceptTerms:     true,
	}
}

func TestValidateRegister_Valid(t *testing.T) {
	if errs := ValidateRegister(validRegister()); !errs.Valid() {
		t.Fatalf("валидная форма не должна давать ошибок, получили %v", errs)
	}
}

func TestValidateRegister_PasswordRules(t *testing.T) {
	in := validRegister()
	in.Password = "12345"
	in.ConfirmPassword = "12345"
	errs := ValidateRegister(in)
	if errs[FieldPassword] != MsgPasswordTooShort {
		t.Fatalf("короткий пароль должен давать ошибку длины, получили %v", errs)
	}

	in = validRegister()
	in.ConfirmPassword = "autre-mot-de-passe"
	errs = ValidateRegister(in)
	if errs[FieldConfirmPassword] != MsgPasswordsMismatch {
		t.Fatalf("несовпадающие пароли должны давать ошибку, получили %v", errs)
	}
}

func TestValidateRegister_TermsRequired(t *testing.T) {
	in := validRegister()
	in.AcceptTerms = false
	errs := ValidateRegister(in)
	if errs[FieldAcceptTerms] != MsgTermsNotAccepted {
		t.Fatalf("без согласия с условиями форма невалидна, получили %v", errs)
	}
}

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"prenom.nom@mail.co.ma", true},
		{"", false},
		{"sans-arobase.com", false},
		{"@example.com", false},
		{"user@", false},
		{"user@domaine", false},
		{"user@@example.com", false},
		{"user@.com", false},
	}

	for _, tc := range cases {
		if got := IsValidEmail(tc.email); got != tc.want {
			t.Fatalf("IsValidEmail(%q) = %v, ожидали %v", tc.email, got, tc.want)
		}
	}
}
