package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShortWithAnime is a short joined with its anime title and code
type ShortWithAnime struct {
	models.Short
	AnimeTitle string
	AnimeCode  string
}

// ShortStore manages short clips
type ShortStore struct {
	db *gorm.DB
}

func NewShortStore(db *gorm.DB) *ShortStore {
	return &ShortStore{db: db}
}

func (s *ShortStore) Create(ctx context.Context, sh *models.Short) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Anime{}).Where("id = ?", sh.AnimeID).Count(&n).Error; err != nil {
			return classify(err, "", "")
		}
		if n == 0 {
			return errors.NotFound("Anime topilmadi")
		}
		return classify(tx.Create(sh).Error, "", "")
	})
}

// At returns the short at position index (newest first) and the total count
func (s *ShortStore) At(ctx context.Context, index int) (*ShortWithAnime, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Short{}).Count(&total).Error; err != nil {
		return nil, 0, classify(err, "", "")
	}
	if total == 0 {
		return nil, 0, errors.NotFound("Hozircha shortslar yo'q")
	}
	if index < 0 {
		index = 0
	}
	if int64(index) >= total {
		index = int(total - 1)
	}

	var rows []ShortWithAnime
	err := s.db.WithContext(ctx).Table("shorts").
		Select("shorts.*, anime.title AS anime_title, anime.code AS anime_code").
		Joins("JOIN anime ON anime.id = shorts.anime_id").
		Order("shorts.created_at DESC").Order("shorts.id DESC").
		Offset(index).Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, classify(err, "", "")
	}
	if len(rows) == 0 {
		return nil, total, errors.NotFound("Short topilmadi")
	}
	return &rows[0], total, nil
}

// RecordView counts a view once per user. It reports whether the view was new.
func (s *ShortStore) RecordView(ctx context.Context, shortID uint, userID int64) (bool, error) {
	counted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ShortView{ShortID: shortID, UserID: userID})
		if res.Error != nil {
			return classify(res.Error, "", "")
		}
		if res.RowsAffected == 0 {
			return nil
		}
		counted = true
		err := tx.Model(&models.Short{}).Where("id = ?", shortID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
		return classify(err, "", "")
	})
	return counted, err
}

func (s *ShortStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("short_id = ?", id).Delete(&models.ShortView{}).Error; err != nil {
			return classify(err, "", "")
		}
		res := tx.Delete(&models.Short{}, id)
		if res.Error != nil {
			return classify(res.Error, "", "")
		}
		if res.RowsAffected == 0 {
			return errors.NotFound("Short topilmadi")
		}
		return nil
	})
}
