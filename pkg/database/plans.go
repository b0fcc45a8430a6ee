package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
)

// PlanStore manages VIP plans. Deleting a plan never touches granted VIP periods.
type PlanStore struct {
	db *gorm.DB
}

func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

func (s *PlanStore) Create(ctx context.Context, p *models.VipPlan) error {
	return classify(s.db.WithContext(ctx).Create(p).Error, "", "")
}

// Get returns a plan, or NotFound when it was deleted
func (s *PlanStore) Get(ctx context.Context, id uint) (*models.VipPlan, error) {
	var p models.VipPlan
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, classify(err, "Tarif topilmadi", "")
	}
	return &p, nil
}

// List returns all plans, cheapest first
func (s *PlanStore) List(ctx context.Context) ([]models.VipPlan, error) {
	var plans []models.VipPlan
	err := s.db.WithContext(ctx).Order("price ASC").Order("id").Find(&plans).Error
	return plans, classify(err, "", "")
}

func (s *PlanStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.VipPlan{}, id)
	if res.Error != nil {
		return classify(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Tarif topilmadi")
	}
	return nil
}
