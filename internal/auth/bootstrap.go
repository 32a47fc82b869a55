package auth

import "context"

// SeedAdmin creates a default account when the user store is empty, so a
// fresh deployment has a login. Reports whether the account was created.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Register(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}
