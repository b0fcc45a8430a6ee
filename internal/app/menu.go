package app

import (
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

// User menu labels
const (
	BtnHome      = "⌂ Bosh sahifa"
	BtnSearch    = "🔍 Anime qidirish"
	BtnShorts    = "🎬 Shorts"
	BtnFavorites = "⭐️ Sevimlilar"
	BtnVIP       = "💎 VIP"
	BtnTop       = "🔥 Top Anime"
	BtnProfile   = "👤 Profilim"
	BtnHelp      = "❓ Yordam"
	BtnBack      = "⬅️ Orqaga"
)

// Admin menu labels
const (
	BtnAddAnime      = "➕ Anime qo'shish"
	BtnEditAnime     = "📝 Anime tahrirlash"
	BtnDeleteAnime   = "❌ Anime o'chirish"
	BtnAddShort      = "🎬 Shorts qo'shish"
	BtnAddEpisode    = "➕ Qism qo'shish"
	BtnEditEpisode   = "📝 Qism tahrirlash"
	BtnDeleteEpisode = "❌ Qism o'chirish"
	BtnChannelPost   = "📢 Kanalga post"
	BtnVIPManage     = "💎 VIP boshqarish"
	BtnBroadcast     = "📤 Xabar yuborish"
	BtnStats         = "📊 Statistika"
	BtnSubscription  = "🚫 Majburiy obuna"
	BtnDashboard     = "🛠 Boshqaruv"
	BtnUserPanel     = "⬅️ Foydalanuvchi paneli"
)

// Wizard keyboard labels
const (
	BtnSkip  = "⏩ O'tkazib yuborish"
	BtnYes   = "Ha (VIP)"
	BtnNo    = "Yo'q (Oddiy)"
	BtnAgree = "✅ Tasdiqlash"
)

// Separator is the rule under message headers
const Separator = "━━━━━━━━━━━━━━━━━━"

// UserMenu is the main reply keyboard of regular users
func UserMenu() *tele.ReplyMarkup {
	return telegram.ReplyKeyboard([]string{
		BtnHome, BtnSearch,
		BtnShorts, BtnFavorites,
		BtnVIP, BtnTop,
		BtnProfile, BtnHelp,
	}, 2)
}

// AdminMenu is the main reply keyboard of admins
func AdminMenu() *tele.ReplyMarkup {
	return telegram.ReplyKeyboard([]string{
		BtnAddAnime, BtnEditAnime,
		BtnDeleteAnime, BtnAddShort,
		BtnAddEpisode, BtnEditEpisode,
		BtnDeleteEpisode, BtnChannelPost,
		BtnVIPManage, BtnBroadcast,
		BtnStats, BtnSubscription,
		BtnDashboard, BtnUserPanel,
	}, 2)
}

// Menu picks the main keyboard for the sender of c
func (s *Services) Menu(c tele.Context) *tele.ReplyMarkup {
	if s.IsAdmin(c) {
		return AdminMenu()
	}
	return UserMenu()
}
