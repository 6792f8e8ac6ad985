package sqlite

import (
	"context"
	"errors"

	"github.com/nakamauwu/casa/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUser mirrors the profile given by the identity collaborator.
func (s *SQLite) UpsertUser(ctx context.Context, u types.User) error {
	row := userRow{
		ID:       u.ID,
		Role:     u.Role.String(),
		FullName: u.FullName,
		Email:    u.Email,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "full_name", "email", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return dbErr("sqlite upsert user", err)
	}

	return nil
}

func (s *SQLite) User(ctx context.Context, userID string) (types.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.User{}, types.ErrUserNotFound
	}

	if err != nil {
		return types.User{}, dbErr("sqlite select user", err)
	}

	return row.user(), nil
}

// SupportAdmin picks the administrator that receives new support
// conversations. excludeUserID is never picked.
func (s *SQLite) SupportAdmin(ctx context.Context, excludeUserID string) (types.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).
		Where("role = ? AND id != ?", types.RoleAdmin.String(), excludeUserID).
		Order("id").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.User{}, types.ErrSupportTargetNotFound
	}

	if err != nil {
		return types.User{}, dbErr("sqlite select support admin", err)
	}

	return row.user(), nil
}
