package repo

import (
	"context"
	"time"

	"github.com/santu/marketplace/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserRole(ctx context.Context, id string) (models.Role, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Select("role").Where("id = ?", id).First(&user).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

func (r *GormRepo) SetUserRole(ctx context.Context, id string, role models.Role) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) RevokeSession(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

// DeleteExpiredSessions drops a user's sessions that can no longer authenticate.
func (r *GormRepo) DeleteExpiredSessions(ctx context.Context, userID string, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND (expires_at <= ? OR revoked = ?)", userID, now, true).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
