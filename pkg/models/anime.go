package models

import "time"

// Anime is a catalog title
type Anime struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Code          string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Description   string    `json:"description"`
	Genre         string    `gorm:"size:255;index" json:"genre"`
	SeasonCount   int       `gorm:"not null" json:"season_count"`
	TotalEpisodes int       `gorm:"not null" json:"total_episodes"`
	PosterFileID  string    `gorm:"size:255" json:"poster_file_id,omitempty"`
	PosterURL     string    `gorm:"size:512" json:"poster_url,omitempty"`
	IsVIP         bool      `gorm:"column:is_vip;not null" json:"is_vip"`
	Views         int64     `gorm:"index;not null" json:"views"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	Episodes []Episode `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Shorts   []Short   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// TableName keeps the singular table name of the original schema
func (Anime) TableName() string {
	return "anime"
}

// VIPOnly reports whether the title is VIP-exclusive
func (a *Anime) VIPOnly() bool {
	return a.IsVIP
}

// Episode is one video of an anime
type Episode struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AnimeID       uint      `gorm:"not null;uniqueIndex:idx_episode_position,priority:1" json:"anime_id"`
	SeasonNumber  int       `gorm:"not null;uniqueIndex:idx_episode_position,priority:2" json:"season_number"`
	EpisodeNumber int       `gorm:"not null;uniqueIndex:idx_episode_position,priority:3" json:"episode_number"`
	Title         string    `gorm:"size:255" json:"title"`
	VideoFileID   string    `gorm:"size:255;not null" json:"-"`
	IsVIP         bool      `gorm:"column:is_vip;not null" json:"is_vip"`
	Views         int64     `gorm:"not null" json:"views"`
	CreatedAt     time.Time `json:"created_at"`
}

// EpisodeMeta is an episode without its video payload. Access decisions are made
// on this before the file id is ever loaded.
type EpisodeMeta struct {
	ID            uint
	AnimeID       uint
	AnimeTitle    string
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	EpisodeVIP    bool `gorm:"column:episode_vip"`
	AnimeVIP      bool `gorm:"column:anime_vip"`
}

// VIPOnly is true when either the episode or its anime is VIP-exclusive
func (m *EpisodeMeta) VIPOnly() bool {
	return m.EpisodeVIP || m.AnimeVIP
}

// Short is a short clip linked to an anime
type Short struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AnimeID     uint      `gorm:"not null;index" json:"anime_id"`
	VideoFileID string    `gorm:"size:255;not null" json:"-"`
	Views       int64     `gorm:"not null" json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShortView records that a user has seen a short. One row per (short, user).
type ShortView struct {
	ID       uint      `gorm:"primaryKey"`
	ShortID  uint      `gorm:"not null;uniqueIndex:idx_short_user,priority:1"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_short_user,priority:2"`
	ViewedAt time.Time `gorm:"autoCreateTime"`
}

// Favorite links a user to an anime
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_fav_user_anime,priority:1" json:"user_id"`
	AnimeID   uint      `gorm:"not null;uniqueIndex:idx_fav_user_anime,priority:2;index" json:"anime_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a user comment on an anime
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	UserName  string    `gorm:"size:255" json:"user_name"`
	AnimeID   uint      `gorm:"not null;index" json:"anime_id"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// VipPlan is a purchasable VIP period
type VipPlan struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Price        int64     `gorm:"not null" json:"price"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	CardNumber   string    `gorm:"size:64" json:"card_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// All returns every model for migrations
func All() []interface{} {
	return []interface{}{
		&User{}, &Admin{}, &Setting{}, &Channel{},
		&Anime{}, &Episode{}, &Short{}, &ShortView{},
		&Favorite{}, &Comment{}, &VipPlan{},
	}
}
