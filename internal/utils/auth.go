package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/validately/startup-validator-backend/internal/apierr"
	"github.com/validately/startup-validator-backend/internal/normalization"
	"github.com/validately/startup-validator-backend/internal/types"
)

func ValidateRegistrationInput(user *types.User) error {
	if user == nil {
		return apierr.Validation(fmt.Errorf("no user given, cannot proceed with registration"))
	}
	if user.Username == "" {
		return apierr.Validation(fmt.Errorf("a username is required to register"))
	}
	if user.Email == "" {
		return apierr.Validation(fmt.Errorf("an email is required to register"))
	}
	if user.Password == "" {
		return apierr.Validation(fmt.Errorf("a password is required to register"))
	}
	return nil
}

func ValidateLoginInput(email, password string) error {
	if email == "" {
		return apierr.Validation(fmt.Errorf("email is required to login"))
	}
	if password == "" {
		return apierr.Validation(fmt.Errorf("password is required to login"))
	}
	return nil
}

func HashPassword(user *types.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	return nil
}

func NormalizeUserFields(user *types.User) {
	user.Username = normalization.ParseInputString(user.Username)
	user.Email = normalization.ParseInputString(user.Email)
}
