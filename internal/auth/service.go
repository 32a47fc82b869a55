package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials covers both unknown username and wrong password,
// so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service registers and authenticates users. Token issuance stays at the
// HTTP boundary.
type Service struct {
	DB *gorm.DB
}

func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := User{Username: username, PasswordHash: hash}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		// the unique index is the arbiter when two registrations race
		if isDuplicateKey(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
