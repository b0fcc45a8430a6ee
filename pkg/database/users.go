package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore reads and writes the users table
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert registers the user or refreshes the display fields of a known one
func (s *UserStore) Upsert(ctx context.Context, telegramID int64, fullName, username string) (*models.User, error) {
	user := models.User{TelegramID: telegramID, FullName: fullName, Username: username}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "username"}),
	}).Create(&user).Error
	if err != nil {
		return nil, classify(err, "", "")
	}
	return s.Get(ctx, telegramID)
}

// Get returns the user with the given Telegram id
func (s *UserStore) Get(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if err != nil {
		return nil, classify(err, "Foydalanuvchi topilmadi", "")
	}
	return &user, nil
}

// UpdateVIP writes the VIP flag and expiry together. A nil expire stores NULL.
func (s *UserStore) UpdateVIP(ctx context.Context, telegramID int64, isVIP bool, expire *string) error {
	var expireValue interface{}
	if expire != nil {
		expireValue = *expire
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Updates(map[string]interface{}{"is_vip": isVIP, "vip_expire_date": expireValue})
	if res.Error != nil {
		return classify(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Foydalanuvchi topilmadi")
	}
	return nil
}

// IDs returns the Telegram ids of every known user in join order
func (s *UserStore) IDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Order("id").Pluck("telegram_id", &ids).Error
	return ids, classify(err, "", "")
}

// Count returns the number of users
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, classify(err, "", "")
}
