package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
)

// CommentStore manages anime comments
type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create stores a comment on an existing anime
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Anime{}).Where("id = ?", c.AnimeID).Count(&n).Error; err != nil {
			return classify(err, "", "")
		}
		if n == 0 {
			return errors.NotFound("Anime topilmadi")
		}
		return classify(tx.Create(c).Error, "", "")
	})
}

// List returns one page of an anime's comments, newest first
func (s *CommentStore) List(ctx context.Context, animeID uint, page, perPage int) (Page[models.Comment], error) {
	page, perPage = normalizePage(page, perPage)
	scope := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Comment{}).Where("anime_id = ?", animeID)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return Page[models.Comment]{}, classify(err, "", "")
	}

	var items []models.Comment
	err := scope().Order("created_at DESC").Order("id DESC").
		Offset(page * perPage).Limit(perPage).Find(&items).Error
	if err != nil {
		return Page[models.Comment]{}, classify(err, "", "")
	}
	return Page[models.Comment]{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// Delete removes a comment
func (s *CommentStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return classify(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Izoh topilmadi")
	}
	return nil
}
