package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
)

// FavoriteStore manages user bookmarks
type FavoriteStore struct {
	db *gorm.DB
}

func NewFavoriteStore(db *gorm.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Add bookmarks an anime. A repeated add is a Conflict.
func (s *FavoriteStore) Add(ctx context.Context, userID int64, animeID uint) error {
	err := s.db.WithContext(ctx).Create(&models.Favorite{UserID: userID, AnimeID: animeID}).Error
	return classify(err, "", "Bu anime allaqachon sevimlilarda")
}

// Remove deletes a bookmark. Removing a missing bookmark is a no-op.
func (s *FavoriteStore) Remove(ctx context.Context, userID int64, animeID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND anime_id = ?", userID, animeID).
		Delete(&models.Favorite{}).Error
	return classify(err, "", "")
}

// Has reports whether the user bookmarked the anime
func (s *FavoriteStore) Has(ctx context.Context, userID int64, animeID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND anime_id = ?", userID, animeID).Count(&n).Error
	return n > 0, classify(err, "", "")
}

// Toggle adds the bookmark when absent and removes it otherwise. It returns the new state.
func (s *FavoriteStore) Toggle(ctx context.Context, userID int64, animeID uint) (bool, error) {
	has, err := s.Has(ctx, userID, animeID)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.Remove(ctx, userID, animeID)
	}
	if err := s.Add(ctx, userID, animeID); err != nil && !errors.IsKind(err, errors.KindConflict) {
		return false, err
	}
	return true, nil
}

// List returns the user's bookmarked anime, newest bookmark first
func (s *FavoriteStore) List(ctx context.Context, userID int64) ([]models.Anime, error) {
	var items []models.Anime
	err := s.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.anime_id = anime.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.id DESC").
		Find(&items).Error
	return items, classify(err, "", "")
}
