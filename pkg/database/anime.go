package database

import (
	"context"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"gorm.io/gorm"
)

// MaxSearchResults caps every search before pagination
const MaxSearchResults = 100

// SearchBy selects the column a search matches on
type SearchBy string

const (
	SearchByTitle SearchBy = "title"
	SearchByGenre SearchBy = "genre"
)

// Listing is an ordered catalog view
type Listing string

const (
	ListingTop    Listing = "top"
	ListingLatest Listing = "latest"
	ListingVIP    Listing = "vip"
)

// AnimeStore reads and writes the anime catalog
type AnimeStore struct {
	db *gorm.DB
}

func NewAnimeStore(db *gorm.DB) *AnimeStore {
	return &AnimeStore{db: db}
}

// Create inserts a new anime. The code is stored lower-cased and must be unique.
func (s *AnimeStore) Create(ctx context.Context, a *models.Anime) error {
	a.Code = strings.ToLower(strings.TrimSpace(a.Code))
	err := s.db.WithContext(ctx).Create(a).Error
	return classify(err, "", "Bu kod bilan anime allaqachon mavjud")
}

// Get returns an anime by id
func (s *AnimeStore) Get(ctx context.Context, id uint) (*models.Anime, error) {
	var a models.Anime
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, classify(err, "Anime topilmadi", "")
	}
	return &a, nil
}

// GetByCode returns an anime by its unique code
func (s *AnimeStore) GetByCode(ctx context.Context, code string) (*models.Anime, error) {
	var a models.Anime
	err := s.db.WithContext(ctx).Where("code = ?", strings.ToLower(strings.TrimSpace(code))).First(&a).Error
	if err != nil {
		return nil, classify(err, "Bu kod bilan anime topilmadi", "")
	}
	return &a, nil
}

// CodeExists reports whether an anime already uses code
func (s *AnimeStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Anime{}).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).Count(&n).Error
	return n > 0, classify(err, "", "")
}

// Update sets a single editable field through its typed setter
func (s *AnimeStore) Update(ctx context.Context, id uint, field models.AnimeField, value interface{}) (*models.Anime, error) {
	if !field.Valid() {
		return nil, errors.Validation("Noma'lum maydon")
	}
	var out *models.Anime
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Anime
		if err := tx.First(&a, id).Error; err != nil {
			return classify(err, "Anime topilmadi", "")
		}
		if err := field.Apply(&a, value); err != nil {
			return errors.Wrap(errors.KindValidation, err, "Qiymat noto'g'ri")
		}
		if err := tx.Model(&a).Select(field.Column()).Updates(&a).Error; err != nil {
			return classify(err, "", "Bu qiymat allaqachon band")
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, classify(err, "", "")
	}
	return out, nil
}

// Delete removes an anime with its episodes, shorts, favorites and comments
func (s *AnimeStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shortIDs []uint
		if err := tx.Model(&models.Short{}).Where("anime_id = ?", id).Pluck("id", &shortIDs).Error; err != nil {
			return classify(err, "", "")
		}
		if len(shortIDs) > 0 {
			if err := tx.Where("short_id IN ?", shortIDs).Delete(&models.ShortView{}).Error; err != nil {
				return classify(err, "", "")
			}
		}
		for _, m := range []interface{}{&models.Episode{}, &models.Short{}, &models.Favorite{}, &models.Comment{}} {
			if err := tx.Where("anime_id = ?", id).Delete(m).Error; err != nil {
				return classify(err, "", "")
			}
		}
		res := tx.Delete(&models.Anime{}, id)
		if res.Error != nil {
			return classify(res.Error, "", "")
		}
		if res.RowsAffected == 0 {
			return errors.NotFound("Anime topilmadi")
		}
		return nil
	})
}

// Search matches title or genre case-insensitively, most viewed first
func (s *AnimeStore) Search(ctx context.Context, by SearchBy, term string, page, perPage int) (Page[models.Anime], error) {
	page, perPage = normalizePage(page, perPage)
	column := "title"
	if by == SearchByGenre {
		column = "genre"
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var matches []models.Anime
	err := s.db.WithContext(ctx).
		Where("LOWER("+column+") LIKE ?", pattern).
		Order("views DESC").Order("id").
		Limit(MaxSearchResults).
		Find(&matches).Error
	if err != nil {
		return Page[models.Anime]{}, classify(err, "", "")
	}

	return slicePage(matches, page, perPage), nil
}

// List returns one page of a catalog listing
func (s *AnimeStore) List(ctx context.Context, listing Listing, page, perPage int) (Page[models.Anime], error) {
	page, perPage = normalizePage(page, perPage)
	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Anime{})
		if listing == ListingVIP {
			q = q.Where("is_vip = ?", true)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return Page[models.Anime]{}, classify(err, "", "")
	}

	q := scope()
	if listing == ListingTop {
		q = q.Order("views DESC").Order("id")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}

	var items []models.Anime
	if err := q.Offset(page * perPage).Limit(perPage).Find(&items).Error; err != nil {
		return Page[models.Anime]{}, classify(err, "", "")
	}
	return Page[models.Anime]{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// IncrementViews counts one opening of the anime page
func (s *AnimeStore) IncrementViews(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Model(&models.Anime{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return classify(err, "", "")
}

// Count returns the number of anime
func (s *AnimeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Anime{}).Count(&n).Error
	return n, classify(err, "", "")
}

func slicePage[T any](all []T, page, perPage int) Page[T] {
	total := int64(len(all))
	start := page * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return Page[T]{Items: all[start:end], Page: page, PerPage: perPage, Total: total}
}
