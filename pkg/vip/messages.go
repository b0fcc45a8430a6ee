package vip

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
)

// RejectedText is sent to a user whose screenshot was declined
const RejectedText = "✖ <b>VIP so'rovingiz rad etildi.</b>\n\nTo'g'ri screenshot yuboring."

// ActivatedText confirms a grant to the user
func ActivatedText(plan *models.VipPlan, expiry time.Time) string {
	return fmt.Sprintf(
		"✔ <b>VIP faollashtirildi!</b>\n\n▸ Reja: %s\n▸ Muddat: %d kun\n▸ Tugash sanasi: %s\n",
		sanitize.Text(plan.Name), plan.DurationDays, FormatExpiry(expiry),
	)
}

// RequestCaption is the caption admins see under a payment screenshot
func RequestCaption(req Request, plan *models.VipPlan, at time.Time) string {
	var b strings.Builder
	b.WriteString("<b>📋 YANGI VIP ZAYAVKA</b>\n━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(&b, "👤 <b>Foydalanuvchi:</b> %s\n", sanitize.Text(req.FullName))
	fmt.Fprintf(&b, "🆔 <b>ID:</b> <code>%d</code>\n", req.UserID)
	username := "yoq"
	if req.Username != "" {
		username = sanitize.Text(req.Username)
	}
	fmt.Fprintf(&b, "🔗 <b>Username:</b> @%s\n\n", username)
	if req.AnimeTitle != "" {
		fmt.Fprintf(&b, "🎬 <b>Anime:</b> %s\n", sanitize.Text(req.AnimeTitle))
	}
	fmt.Fprintf(&b, "💎 <b>Tanlangan reja:</b> %s\n", sanitize.Text(plan.Name))
	fmt.Fprintf(&b, "💰 <b>To'lov miqdori:</b> %d so'm\n", plan.Price)
	fmt.Fprintf(&b, "⏰ <b>Yuborilgan vaqt:</b> %s\n", at.Format(models.ExpiryLayout))
	b.WriteString("━━━━━━━━━━━━━━━━━━\n")
	return b.String()
}

// ApprovalKeyboard carries (identity, plan) in both buttons
func ApprovalKeyboard(telegramID int64, planID uint) callback.Keyboard {
	return callback.Keyboard{
		callback.Row(
			callback.Btn("✅ Tasdiqlash", callback.VipApprove, telegramID, planID),
			callback.Btn("❌ Rad etish", callback.VipReject, telegramID),
		),
	}
}

// ApprovedAdminText replaces the admin's request caption after approval
func ApprovedAdminText(telegramID int64, expiry time.Time) string {
	return fmt.Sprintf("✔ VIP faollashtirildi!\nFoydalanuvchi: %d\nTugash sanasi: %s", telegramID, FormatExpiry(expiry))
}

// RejectedAdminText replaces the admin's request caption after rejection
func RejectedAdminText(telegramID int64) string {
	return fmt.Sprintf("✖ VIP rad etildi.\nFoydalanuvchi: %d", telegramID)
}
