package database

import (
	"context"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
)

// EpisodeStore reads and writes episodes
type EpisodeStore struct {
	db *gorm.DB
}

func NewEpisodeStore(db *gorm.DB) *EpisodeStore {
	return &EpisodeStore{db: db}
}

// Create inserts an episode after checking that its anime still exists
func (s *EpisodeStore) Create(ctx context.Context, e *models.Episode) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Anime{}).Where("id = ?", e.AnimeID).Count(&n).Error; err != nil {
			return classify(err, "", "")
		}
		if n == 0 {
			return errors.NotFound("Anime topilmadi")
		}
		return classify(tx.Create(e).Error, "", "Bu qism allaqachon mavjud")
	})
}

// Meta returns the episode and its anime flags without the video file id
func (s *EpisodeStore) Meta(ctx context.Context, id uint) (*models.EpisodeMeta, error) {
	var meta models.EpisodeMeta
	res := s.db.WithContext(ctx).Table("episodes").
		Select("episodes.id, episodes.anime_id, anime.title AS anime_title, episodes.season_number, "+
			"episodes.episode_number, episodes.title, episodes.is_vip AS episode_vip, anime.is_vip AS anime_vip").
		Joins("JOIN anime ON anime.id = episodes.anime_id").
		Where("episodes.id = ?", id).
		Limit(1).
		Scan(&meta)
	if res.Error != nil {
		return nil, classify(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return nil, errors.NotFound("Qism topilmadi")
	}
	return &meta, nil
}

// Get returns the full episode row
func (s *EpisodeStore) Get(ctx context.Context, id uint) (*models.Episode, error) {
	var e models.Episode
	if err := s.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, classify(err, "Qism topilmadi", "")
	}
	return &e, nil
}

// VideoFileID loads the video payload of an episode
func (s *EpisodeStore) VideoFileID(ctx context.Context, id uint) (string, error) {
	var fileIDs []string
	err := s.db.WithContext(ctx).Model(&models.Episode{}).Where("id = ?", id).Limit(1).Pluck("video_file_id", &fileIDs).Error
	if err != nil {
		return "", classify(err, "", "")
	}
	if len(fileIDs) == 0 {
		return "", errors.NotFound("Qism topilmadi")
	}
	return fileIDs[0], nil
}

// Seasons returns the distinct season numbers of an anime in order
func (s *EpisodeStore) Seasons(ctx context.Context, animeID uint) ([]int, error) {
	var seasons []int
	err := s.db.WithContext(ctx).Model(&models.Episode{}).
		Where("anime_id = ?", animeID).
		Distinct("season_number").
		Order("season_number").
		Pluck("season_number", &seasons).Error
	return seasons, classify(err, "", "")
}

// ListBySeason returns one page of a season ordered by episode number
func (s *EpisodeStore) ListBySeason(ctx context.Context, animeID uint, season, page, perPage int) (Page[models.Episode], error) {
	return s.list(ctx, animeID, season, page, perPage)
}

// ListByAnime returns one page of every episode of an anime, season by season
func (s *EpisodeStore) ListByAnime(ctx context.Context, animeID uint, page, perPage int) (Page[models.Episode], error) {
	return s.list(ctx, animeID, 0, page, perPage)
}

// list pages the episodes of animeID, of one season unless season is 0
func (s *EpisodeStore) list(ctx context.Context, animeID uint, season, page, perPage int) (Page[models.Episode], error) {
	page, perPage = normalizePage(page, perPage)
	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Episode{}).Where("anime_id = ?", animeID)
		if season != 0 {
			q = q.Where("season_number = ?", season)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return Page[models.Episode]{}, classify(err, "", "")
	}

	var items []models.Episode
	err := scope().Omit("video_file_id").
		Order("season_number ASC").Order("episode_number ASC").Order("id").
		Offset(page * perPage).Limit(perPage).
		Find(&items).Error
	if err != nil {
		return Page[models.Episode]{}, classify(err, "", "")
	}
	return Page[models.Episode]{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// Update sets a single editable field through its typed setter
func (s *EpisodeStore) Update(ctx context.Context, id uint, field models.EpisodeField, value interface{}) (*models.Episode, error) {
	if !field.Valid() {
		return nil, errors.Validation("Noma'lum maydon")
	}
	var out *models.Episode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Episode
		if err := tx.First(&e, id).Error; err != nil {
			return classify(err, "Qism topilmadi", "")
		}
		if err := field.Apply(&e, value); err != nil {
			return errors.Wrap(errors.KindValidation, err, "Qiymat noto'g'ri")
		}
		if err := tx.Model(&e).Select(field.Column()).Updates(&e).Error; err != nil {
			return classify(err, "", "")
		}
		out = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an episode
func (s *EpisodeStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Episode{}, id)
	if res.Error != nil {
		return classify(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Qism topilmadi")
	}
	return nil
}

// IncrementViews counts one view on the episode and on its anime
func (s *EpisodeStore) IncrementViews(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Episode
		if err := tx.Select("id", "anime_id").First(&e, id).Error; err != nil {
			return classify(err, "Qism topilmadi", "")
		}
		if err := tx.Model(&models.Episode{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
			return classify(err, "", "")
		}
		err := tx.Model(&models.Anime{}).Where("id = ?", e.AnimeID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
		return classify(err, "", "")
	})
}

// Count returns the number of episodes of an anime, or of all anime when animeID is 0
func (s *EpisodeStore) Count(ctx context.Context, animeID uint) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Episode{})
	if animeID != 0 {
		q = q.Where("anime_id = ?", animeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, classify(err, "", "")
}
