package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardAddPlan creates a VIP plan
const WizardAddPlan = "add_plan"

type planCreator interface {
	Create(ctx context.Context, p *models.VipPlan) error
}

func createPlansCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("vip_manage", "VIP rejalar", "admin", func(c tele.Context) error {
		ctx, cancel := app.Context()
		defer cancel()
		plans, err := s.Plans.List(ctx)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return c.Send(PlansAdminText(plans), app.Markup(PlansAdminKeyboard(plans)))
	}).WithAliases(app.BtnVIPManage)
}

func createCreatePlanCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("create_plan", "Yangi VIP reja", "admin", func(c tele.Context) error {
		return s.Flow.Start(c, WizardAddPlan, nil)
	})
}

func createDeletePlanCommand(s *app.Services) *telegram.Command {
	return telegram.NewCommand("delete_plan", "VIP rejani o'chirish", "admin", func(c tele.Context) error {
		id, ok := app.UintArg(c)
		if !ok {
			return c.Send("▸ Foydalanish: /delete_plan [ID]")
		}
		text, err := deletePlan(s, c.Sender().ID, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return c.Send(text)
	})
}

// deletePlanCallback is plan_delete:<plan>
func deletePlanCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		id, err := p.Uint(0)
		if err != nil {
			return nil
		}
		text, err := deletePlan(s, c.Sender().ID, id)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, text)
	}
}

func deletePlan(s *app.Services, actor int64, id uint) (string, error) {
	ctx, cancel := app.Context()
	defer cancel()
	plan, err := s.Plans.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.Plans.Delete(ctx, id); err != nil {
		return "", err
	}
	logger.Info(fmt.Sprintf("Plan VIP %d eliminado por %d", id, actor), "Admin")
	return fmt.Sprintf("✔ <b>\"%s\"</b> plani o'chirildi!", sanitize.Text(plan.Name)), nil
}

// PlansAdminText lists the plans with their ids and cards
func PlansAdminText(plans []models.VipPlan) string {
	var b strings.Builder
	b.WriteString("<b>💎 VIP Boshqarish</b>\n" + app.Separator + "\n\n")
	if len(plans) == 0 {
		b.WriteString("Hozircha rejalar mavjud emas.\n")
	} else {
		b.WriteString("<b>Mavjud rejalar:</b>\n")
		for _, p := range plans {
			card := p.CardNumber
			if card == "" {
				card = "---"
			}
			fmt.Fprintf(&b, "▸ %s - %d so'm (%d kun) [ID: %d]\n   Karta: %s\n",
				sanitize.Text(p.Name), p.Price, p.DurationDays, p.ID, sanitize.Text(card))
		}
	}
	b.WriteString("\n<b>Amallar:</b>\n▸ /create_plan - Yangi plan yaratish\n▸ /delete_plan [ID] - Plan o'chirish")
	return b.String()
}

// PlansAdminKeyboard has one delete button per plan
func PlansAdminKeyboard(plans []models.VipPlan) callback.Keyboard {
	buttons := make([]callback.Button, 0, len(plans))
	for _, p := range plans {
		buttons = append(buttons, callback.Btn("🗑 "+sanitize.Truncate(p.Name, titleLimit), callback.PlanDelete, p.ID))
	}
	return app.Grid(buttons, 2)
}

// AddPlanWizard collects name, price, duration and the card number of a plan
func AddPlanWizard(store planCreator) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardAddPlan,
		Steps: []wizard.Step{
			{
				Name:     "name",
				Prompt:   wizard.Ask("<b>◆ Yangi VIP plan yaratish</b>\n\n▸ Plan nomini kiriting (masalan: 1 oylik VIP):"),
				Validate: wizard.Text("name"),
			},
			{
				Name:     "price",
				Prompt:   wizard.Ask("▸ Narxni kiriting (so'mda, raqam):"),
				Validate: wizard.IntAtLeast("price", 0),
			},
			{
				Name:     "duration_days",
				Prompt:   wizard.Ask("▸ Muddat (kunlarda, masalan: 30):"),
				Validate: wizard.IntAtLeast("duration_days", 1),
			},
			{
				Name:     "card_number",
				Prompt:   wizard.Ask("▸ To'lov karta raqamini kiriting\n(masalan: <code>8600 1234 5678 9012</code>):"),
				Validate: wizard.Text("card_number"),
			},
		},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			p := &models.VipPlan{
				Name:         sanitize.Plain(v.String("name")),
				Price:        v.Int64("price"),
				DurationDays: v.Int("duration_days"),
				CardNumber:   v.String("card_number"),
			}
			if err := store.Create(ctx, p); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Plan VIP %d (%d días) creado por %d", p.ID, p.DurationDays, identity), "Admin")
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>VIP plan yaratildi!</b>\n\n▸ Nom: %s\n▸ Narx: %d so'm\n▸ Muddat: %d kun\n▸ Karta: %s\n▸ ID: %d",
				sanitize.Text(p.Name), p.Price, p.DurationDays, sanitize.Text(p.CardNumber), p.ID)}, nil
		},
	}
}
