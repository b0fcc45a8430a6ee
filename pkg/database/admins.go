package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
)

// AdminStore holds the runtime-managed admins
type AdminStore struct {
	db *gorm.DB
}

func NewAdminStore(db *gorm.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) Add(ctx context.Context, a *models.Admin) error {
	if a.Role == "" {
		a.Role = "admin"
	}
	return classify(s.db.WithContext(ctx).Create(a).Error, "", "Bu foydalanuvchi allaqachon admin")
}

func (s *AdminStore) Remove(ctx context.Context, telegramID int64) error {
	res := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).Delete(&models.Admin{})
	if res.Error != nil {
		return classify(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Admin topilmadi")
	}
	return nil
}

// List returns every stored admin in insertion order
func (s *AdminStore) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	err := s.db.WithContext(ctx).Order("id").Find(&admins).Error
	return admins, classify(err, "", "")
}
