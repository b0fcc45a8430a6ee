package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardSetSetting replaces one runtime setting. It is seeded with key.
const WizardSetSetting = "set_setting"

type settingWriter interface {
	Set(ctx context.Context, key, value string) error
}

// editable settings in menu order; maintenance is a toggle and has its own button
var editableSettings = []struct {
	key   string
	label string
	url   bool
}{
	{models.SettingSupportLink, "🆘 Yordam havolasi", true},
	{models.SettingNewsChannel, "📢 Yangiliklar kanali", true},
	{models.SettingVipCardNumber, "💳 Karta raqami", false},
	{models.SettingVipCardName, "👤 Karta egasi", false},
}

func settingLabel(key string) (string, bool) {
	for _, s := range editableSettings {
		if s.key == key {
			return s.label, true
		}
	}
	return "", false
}

// settingCallback is setting for the screen and setting:<key> to change one value
func settingCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		key := p.Arg(0)
		if key == "" {
			ctx, cancel := app.Context()
			defer cancel()
			all, err := s.Settings.All(ctx)
			if err != nil {
				return telegram.ReplyError(c, err)
			}
			return app.Show(c, SettingsText(all), app.Markup(SettingsKeyboard(all[models.SettingMaintenanceMode] == "true")))
		}
		label, ok := settingLabel(key)
		if !ok {
			return nil
		}
		if err := app.Show(c, fmt.Sprintf("<b>⚙️ %s</b>", label)); err != nil {
			return err
		}
		return s.Flow.Start(c, WizardSetSetting, wizard.Values{"key": key})
	}
}

// maintenanceCallback flips maintenance mode
func maintenanceCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, _ callback.Payload) error {
		ctx, cancel := app.Context()
		defer cancel()
		on, err := s.Settings.Toggle(ctx, models.SettingMaintenanceMode)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		logger.Warn(fmt.Sprintf("Modo mantenimiento = %t (por %d)", on, c.Sender().ID), "Admin")
		s.Events.Publish(eventbus.MaintenanceState, map[string]interface{}{"enabled": on, "by": c.Sender().ID})

		all, err := s.Settings.All(ctx)
		if err != nil {
			return telegram.ReplyError(c, err)
		}
		return app.Show(c, SettingsText(all), app.Markup(SettingsKeyboard(on)))
	}
}

// SettingsText shows the current runtime settings
func SettingsText(all map[string]string) string {
	var b strings.Builder
	b.WriteString("<b>⚙️ Bot Sozlamalari</b>\n" + app.Separator + "\n\n")
	for _, s := range editableSettings {
		value := all[s.key]
		if value == "" {
			value = "—"
		}
		fmt.Fprintf(&b, "%s: <code>%s</code>\n", s.label, sanitize.Text(value))
	}
	state := "o'chiq"
	if all[models.SettingMaintenanceMode] == "true" {
		state = "yoqilgan"
	}
	fmt.Fprintf(&b, "🛠 Texnik ishlar: <b>%s</b>", state)
	return b.String()
}

// SettingsKeyboard has one button per editable setting and the maintenance toggle
func SettingsKeyboard(maintenance bool) callback.Keyboard {
	buttons := make([]callback.Button, 0, len(editableSettings))
	for _, s := range editableSettings {
		buttons = append(buttons, callback.Btn(s.label, callback.Setting, s.key))
	}
	kb := app.Grid(buttons, 2)
	toggle := "🛠 Texnik ishlarni yoqish"
	if maintenance {
		toggle = "✅ Texnik ishlarni o'chirish"
	}
	kb = append(kb, callback.Row(callback.Btn(toggle, callback.Maintenance)))
	return append(kb, backToDashboard())
}

// SetSettingWizard asks for the new value. Links must be http(s) URLs.
func SetSettingWizard(store settingWriter) *wizard.Wizard {
	return &wizard.Wizard{
		ID: WizardSetSetting,
		Steps: []wizard.Step{{
			Name: "value",
			Prompt: func(v wizard.Values) wizard.Prompt {
				label, _ := settingLabel(v.String("key"))
				return wizard.Prompt{Text: fmt.Sprintf("▸ <b>%s</b> uchun yangi qiymatni kiriting:", label)}
			},
			Validate: func(in wizard.Input, v wizard.Values) (wizard.Values, error) {
				for _, s := range editableSettings {
					if s.key == v.String("key") && s.url {
						return wizard.URL("value")(in, v)
					}
				}
				return wizard.Text("value")(in, v)
			},
		}},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			key := v.String("key")
			label, ok := settingLabel(key)
			if !ok {
				return wizard.Prompt{}, errors.Validation("Noma'lum sozlama")
			}
			if err := store.Set(ctx, key, v.String("value")); err != nil {
				return wizard.Prompt{}, err
			}
			logger.Info(fmt.Sprintf("Ajuste %s cambiado por %d", key, identity), "Admin")
			return wizard.Prompt{Text: fmt.Sprintf("✔ <b>%s</b> yangilandi!", label)}, nil
		},
	}
}
