package db

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "costbook/internal/log"
	"costbook/models"
)

// CreateUser stores a new user with a bcrypt hash of password.
func CreateUser(ctx context.Context, database *gorm.DB, email, name, password string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        models.NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByEmail looks a user up case-insensitively. It returns
// gorm.ErrRecordNotFound when nobody matches.
func FindUserByEmail(ctx context.Context, database *gorm.DB, email string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	user := &models.User{}
	err := database.WithContext(ctx).Where("lower(email) = ?", models.NormalizeEmail(email)).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(user *models.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// EnsureUser makes sure the configured operator account exists and accepts
// password, creating it or resetting its hash as needed.
func EnsureUser(ctx context.Context, database *gorm.DB, email, name, password string) (*models.User, error) {
	user, err := FindUserByEmail(ctx, database, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		applog.Info(ctx, "creating bootstrap user", "email", models.NormalizeEmail(email))
		return CreateUser(ctx, database, email, name, password)
	case err != nil:
		return nil, err
	}

	if CheckPassword(user, password) {
		return user, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hashed)
	if err := database.WithContext(ctx).Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return nil, err
	}
	applog.Info(ctx, "reset bootstrap user password", "email", user.Email)
	return user, nil
}
