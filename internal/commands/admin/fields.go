package admin

import (
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/sanitize"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
)

// field is what the edit wizards know about an editable column
type field interface {
	Label() string
	Kind() models.ValueKind
}

// fieldChoice maps both the menu label and the raw column name to the column
func fieldChoice[F interface {
	~string
	field
}](fields []F) (map[string]any, []string) {
	options := make(map[string]any, 2*len(fields))
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		options[f.Label()] = string(f)
		options[string(f)] = string(f)
		labels = append(labels, f.Label())
	}
	return options, labels
}

// typedValue is the validator for a new value of kind
func typedValue(kind models.ValueKind) wizard.Validator {
	switch kind {
	case models.ValuePositiveInt:
		return wizard.IntAtLeast("value", 1)
	case models.ValueNonNegativeInt:
		return wizard.IntAtLeast("value", 0)
	case models.ValueBool:
		return wizard.YesNo("value", app.BtnYes, app.BtnNo)
	case models.ValuePhoto:
		return wizard.Photo("value")
	case models.ValueVideo:
		return wizard.Video("value")
	case models.ValueURL:
		return wizard.URL("value")
	default:
		return wizard.Text("value")
	}
}

// valuePrompt asks for a new value of f
func valuePrompt(f field) wizard.Prompt {
	label := sanitize.Text(f.Label())
	switch f.Kind() {
	case models.ValueBool:
		return wizard.Prompt{Text: fmt.Sprintf("▸ <b>%s</b>: VIP bo'ladimi?", label), Choices: []string{app.BtnYes, app.BtnNo}}
	case models.ValuePhoto:
		return wizard.Prompt{Text: fmt.Sprintf("▸ <b>%s</b> uchun yangi rasm yuboring:", label)}
	case models.ValueVideo:
		return wizard.Prompt{Text: fmt.Sprintf("▸ <b>%s</b> uchun yangi video yuboring:", label)}
	case models.ValuePositiveInt, models.ValueNonNegativeInt:
		return wizard.Prompt{Text: fmt.Sprintf("▸ <b>%s</b> uchun yangi raqam kiriting:", label)}
	default:
		return wizard.Prompt{Text: fmt.Sprintf("▸ <b>%s</b> uchun yangi qiymat kiriting:", label)}
	}
}

// shownValue renders a stored value for the confirmation message
func shownValue(kind models.ValueKind, v interface{}) string {
	switch kind {
	case models.ValueBool:
		if b, ok := v.(bool); ok {
			return app.VIPBadge(b)
		}
	case models.ValuePhoto, models.ValueVideo:
		return "yangi fayl"
	}
	return sanitize.Text(fmt.Sprint(v))
}
