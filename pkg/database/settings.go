package database

import (
	"context"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsTTL = 5 * time.Minute

// SettingsStore is the key/value settings table behind a read cache.
// Middlewares consult it on every update, so reads must not hit the database.
type SettingsStore struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db, cache: cache.New(settingsTTL, 10*time.Minute)}
}

// Get returns the value of key and whether it is set
func (s *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		val := v.(*string)
		if val == nil {
			return "", false, nil
		}
		return *val, true, nil
	}

	var rows []models.Setting
	if err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).Limit(1).Find(&rows).Error; err != nil {
		return "", false, classify(err, "", "")
	}
	if len(rows) == 0 {
		s.cache.SetDefault(key, (*string)(nil))
		return "", false, nil
	}
	value := rows[0].Value
	s.cache.SetDefault(key, &value)
	return value, true, nil
}

// GetOr returns the value of key, or fallback when unset or unreadable
func (s *SettingsStore) GetOr(ctx context.Context, key, fallback string) string {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok || v == "" {
		return fallback
	}
	return v
}

// Set upserts key
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return classify(err, "", "")
	}
	s.cache.SetDefault(key, &value)
	return nil
}

// Bool reads an "ON"/"OFF" flag
func (s *SettingsStore) Bool(ctx context.Context, key string) bool {
	return s.GetOr(ctx, key, "OFF") == "ON"
}

// Toggle flips an "ON"/"OFF" flag and returns the new state
func (s *SettingsStore) Toggle(ctx context.Context, key string) (bool, error) {
	next := !s.Bool(ctx, key)
	value := "OFF"
	if next {
		value = "ON"
	}
	return next, s.Set(ctx, key, value)
}

// All returns every stored setting
func (s *SettingsStore) All(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, classify(err, "", "")
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}
