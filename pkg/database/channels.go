package database

import (
	"context"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const channelsKey = "channels"

// ChannelStore manages the mandatory-subscription channels
type ChannelStore struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewChannelStore(db *gorm.DB) *ChannelStore {
	return &ChannelStore{db: db, cache: cache.New(time.Minute, 5*time.Minute)}
}

func (s *ChannelStore) Add(ctx context.Context, channelID int64, link string) error {
	err := s.db.WithContext(ctx).Create(&models.Channel{ChannelID: channelID, ChannelLink: link}).Error
	if err != nil {
		return classify(err, "", "Bu kanal allaqachon qo'shilgan")
	}
	s.cache.Delete(channelsKey)
	return nil
}

func (s *ChannelStore) Remove(ctx context.Context, channelID int64) error {
	res := s.db.WithContext(ctx).Where("channel_id = ?", channelID).Delete(&models.Channel{})
	if res.Error != nil {
		return classify(res.Error, "", "")
	}
	s.cache.Delete(channelsKey)
	if res.RowsAffected == 0 {
		return errors.NotFound("Kanal topilmadi")
	}
	return nil
}

// List returns all channels. The result is cached for a minute.
func (s *ChannelStore) List(ctx context.Context) ([]models.Channel, error) {
	if v, ok := s.cache.Get(channelsKey); ok {
		return v.([]models.Channel), nil
	}
	var channels []models.Channel
	if err := s.db.WithContext(ctx).Order("id").Find(&channels).Error; err != nil {
		return nil, classify(err, "", "")
	}
	s.cache.SetDefault(channelsKey, channels)
	return channels, nil
}
