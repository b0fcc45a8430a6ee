package premium

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	tele "gopkg.in/telebot.v3"
)

const noPlansText = "◆ Hozircha VIP rejalar mavjud emas."

// CreatePlansCommand creates /vip
func CreatePlansCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand(
		"vip",
		"VIP a'zolik",
		"vip",
		func(c tele.Context) error { return ShowPlans(s, c, 0, "") },
	).WithAliases(app.BtnVIP)
}

// ShowPlans lists the VIP plans. animeID, when set, is the anime the identity was
// denied and is carried through to the admin request. notice goes above the list.
func ShowPlans(s *app.Services, c tele.Context, animeID uint, notice string) error {
	ctx, cancel := app.Context()
	defer cancel()

	plans, err := s.Plans.List(ctx)
	if err != nil {
		return telegram.ReplyError(c, err)
	}
	title := ""
	if animeID != 0 {
		if a, err := s.Anime.Get(ctx, animeID); err == nil {
			title = a.Title
		}
	}

	text := PlansText(title, len(plans) > 0)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	if len(plans) == 0 {
		return app.Show(c, text)
	}
	return app.Show(c, text, app.Markup(PlansKeyboard(plans, animeID)))
}

// PlansText is the header of the plan list
func PlansText(animeTitle string, any bool) string {
	if !any {
		return noPlansText
	}
	header := "<b>◆ VIP Rejalar</b>\n"
	if animeTitle != "" {
		header = fmt.Sprintf("<b>◆ %s | VIP</b>\n", sanitize.Text(animeTitle))
	}
	return header + app.Separator + "\n\n" +
		"✨ VIP i'mtiyozlariga ega bo'lish uchun quyidagi rejalardan birini tanlang:\n\n" +
		"<i>(Batafsil ma'lumot tugmalarda ko'rsatilgan)</i>"
}

// PlansKeyboard has one button per plan and a cancel row
func PlansKeyboard(plans []models.VipPlan, animeID uint) callback.Keyboard {
	kb := make(callback.Keyboard, 0, len(plans)+1)
	for _, p := range plans {
		kb = append(kb, callback.Row(callback.Btn("💎 "+sanitize.Truncate(p.Name, 40), callback.VipPlan, p.ID, animeID)))
	}
	return append(kb, callback.Row(callback.Btn("❌ Bekor qilish", callback.BackToMenu)))
}

// plansCallback is vip_plans:<anime>
func plansCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		animeID, _ := p.Uint(0)
		return ShowPlans(s, c, animeID, "")
	}
}

// planCallback is vip_plan:<plan>:<anime>
func planCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		planID, err := p.Uint(0)
		if err != nil {
			return nil
		}
		animeID, _ := p.Uint(1)

		ctx, cancel := app.Context()
		defer cancel()
		plan, err := s.Plans.Get(ctx, planID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, PlanText(plan), app.Markup(PlanKeyboard(plan, animeID)))
	}
}

// PlanText describes one plan
func PlanText(p *models.VipPlan) string {
	return fmt.Sprintf("<b>💎 %s</b>\n%s\n\n💰 <b>Narxi:</b> %d so'm\n⏳ <b>Muddat:</b> %d kun\n\n"+
		"✨ To'lov ma'lumotlarini olish va faollashtirish uchun quyidagi tugmani bosing:",
		sanitize.Text(p.Name), app.Separator, p.Price, p.DurationDays)
}

// PlanKeyboard leads to the payment details
func PlanKeyboard(p *models.VipPlan, animeID uint) callback.Keyboard {
	return callback.Keyboard{
		callback.Row(callback.Btn(fmt.Sprintf("💰 %d so'm | ⏳ %d kun", p.Price, p.DurationDays), callback.VipPay, p.ID, animeID)),
		callback.Row(callback.Btn("⬅️ Orqaga", callback.VipPlans, animeID)),
	}
}

// payCallback is vip_pay:<plan>:<anime>
func payCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		planID, err := p.Uint(0)
		if err != nil {
			return nil
		}
		animeID, _ := p.Uint(1)

		ctx, cancel := app.Context()
		defer cancel()
		plan, err := s.Plans.Get(ctx, planID)
		if err != nil {
			return telegram.ReplyError(c, err)
		}

		card := s.Settings.GetOr(ctx, models.SettingVipCardNumber, firstNonEmpty(plan.CardNumber, s.Config.VipCardNumber, "---"))
		holder := s.Settings.GetOr(ctx, models.SettingVipCardName, firstNonEmpty(s.Config.VipCardName, "Nomalum"))

		kb := callback.Keyboard{
			callback.Row(callback.Btn("✅ Screenshot yubordim", callback.VipProof, plan.ID, animeID)),
			callback.Row(callback.Btn("❌ Bekor qilish", callback.BackToMenu)),
		}
		_ = c.Respond(&tele.CallbackResponse{Text: "💳 To'lov ma'lumotlari yuborildi."})
		return app.Show(c, PaymentText(plan, card, holder), app.Markup(kb))
	}
}

// PaymentText is the payment guide with the card details
func PaymentText(p *models.VipPlan, card, holder string) string {
	var b strings.Builder
	b.WriteString("<b>📋 VIP QO'LLANMA: To'lov</b>\n" + app.Separator + "\n\n")
	b.WriteString("1️⃣ <b>To'lovni amalga oshiring:</b>\n")
	fmt.Fprintf(&b, "▸ <b>Miqdor:</b> <code>%d</code> so'm\n", p.Price)
	fmt.Fprintf(&b, "▸ <b>Reja:</b> %s (%d kun)\n\n", sanitize.Text(p.Name), p.DurationDays)
	b.WriteString("💳 <b>REKVIZITLAR:</b>\n")
	fmt.Fprintf(&b, "▸ <b>Karta raqami:</b> <code>%s</code>\n", sanitize.Text(card))
	fmt.Fprintf(&b, "▸ <b>Karta egasi:</b> <code>%s</code>\n\n", sanitize.Text(holder))
	b.WriteString("2️⃣ <b>Screenshot yuboring:</b>\n")
	b.WriteString("▸ To'lovni amalga oshirgach, chekni (screenshot) rasm sifatida shu yerga yuboring.\n\n")
	b.WriteString("3️⃣ <b>Kuting:</b>\n")
	b.WriteString("▸ Admin 15-30 daqiqa ichida to'lovni tekshiradi va VIP'ni faollashtiradi.\n")
	b.WriteString(app.Separator + "\n")
	b.WriteString("☝️ <i>Muvaffaqiyatli to'lovdan so'ng xabarni kuting!</i>")
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
