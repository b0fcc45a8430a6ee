package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const overviewQuery = `
SELECT
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM users WHERE is_vip = ?) AS vip_users,
	(SELECT COUNT(*) FROM anime) AS total_anime,
	(SELECT COUNT(*) FROM episodes) AS total_episodes,
	(SELECT COALESCE(SUM(views), 0) FROM anime) AS total_views,
	(SELECT COUNT(*) FROM shorts) AS total_shorts,
	(SELECT COUNT(*) FROM comments) AS total_comments,
	(SELECT COUNT(*) FROM favorites) AS total_favorites`

const topAnimeQuery = `SELECT id, title, views FROM anime ORDER BY views DESC, id LIMIT ?`

// Overview is the aggregate dashboard of the bot
type Overview struct {
	TotalUsers     int64 `db:"total_users" json:"total_users"`
	VIPUsers       int64 `db:"vip_users" json:"vip_users"`
	TotalAnime     int64 `db:"total_anime" json:"total_anime"`
	TotalEpisodes  int64 `db:"total_episodes" json:"total_episodes"`
	TotalViews     int64 `db:"total_views" json:"total_views"`
	TotalShorts    int64 `db:"total_shorts" json:"total_shorts"`
	TotalComments  int64 `db:"total_comments" json:"total_comments"`
	TotalFavorites int64 `db:"total_favorites" json:"total_favorites"`
}

// TopAnime is one row of the most viewed list
type TopAnime struct {
	ID    uint   `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	Views int64  `db:"views" json:"views"`
}

// StatsStore runs the aggregate queries with sqlx
type StatsStore struct {
	db *sqlx.DB
}

func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Overview returns the counters shown on the admin dashboard
func (s *StatsStore) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	if err := s.db.GetContext(ctx, &o, s.db.Rebind(overviewQuery), true); err != nil {
		return nil, classify(err, "", "")
	}
	return &o, nil
}

// TopAnime returns the limit most viewed anime
func (s *StatsStore) TopAnime(ctx context.Context, limit int) ([]TopAnime, error) {
	var rows []TopAnime
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(topAnimeQuery), limit); err != nil {
		return nil, classify(err, "", "")
	}
	return rows, nil
}
