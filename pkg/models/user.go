// Package models holds the relational schema of the bot as gorm models.
package models

import "time"

// ExpiryLayout is the text layout of users.vip_expire_date.
const ExpiryLayout = "2006-01-02 15:04:05"

// User is a Telegram identity known to the bot
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TelegramID    int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FullName      string    `gorm:"size:255" json:"full_name"`
	Username      string    `gorm:"size:255" json:"username"`
	IsVIP         bool      `gorm:"column:is_vip;not null" json:"is_vip"`
	VipExpireDate *string   `gorm:"column:vip_expire_date;size:32" json:"vip_expire_date,omitempty"`
	JoinedDate    time.Time `gorm:"autoCreateTime" json:"joined_date"`
}

// Admin is a runtime-managed administrator. Owners from config never appear here.
type Admin struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FullName   string    `gorm:"size:255" json:"full_name"`
	Role       string    `gorm:"size:32;not null;default:admin" json:"role"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// Setting is a key/value row of runtime settings
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `json:"value"`
}

// Known setting keys
const (
	SettingSupportLink     = "support_link"
	SettingNewsChannel     = "news_channel"
	SettingMaintenanceMode = "maintenance_mode"
	SettingVipCardNumber   = "vip_card_number"
	SettingVipCardName     = "vip_card_name"
)

// Channel is a mandatory-subscription channel
type Channel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChannelID   int64     `gorm:"uniqueIndex;not null" json:"channel_id"`
	ChannelLink string    `gorm:"size:255" json:"channel_link"`
	CreatedAt   time.Time `json:"created_at"`
}
