package premium

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/telegram"
	"github.com/PancyStudios/AnimeBotGo/pkg/vip"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	tele "gopkg.in/telebot.v3"
)

// WizardPayment collects the payment screenshot
const WizardPayment = "vip_payment"

const (
	proofPrompt   = "▸ To'lov screenshotini rasm sifatida yuboring:"
	proofRequired = "⚠️ Iltimos, to'lov chekini rasm holatida yuboring!"

	// SubmittedText confirms a request reached at least one admin
	SubmittedText = "✅ <b>Zayavkangiz adminga yuborildi!</b>\n\n" +
		"⏳ Admin to'lovni tekshirib, 15-30 daqiqa ichida VIP statusni faollashtiradi.\nXabarni kuting! 🚀"
	// UndeliveredText is shown when no admin could be reached
	UndeliveredText = "⚠️ <b>Zayavkani adminlarga yetkazib bo'lmadi.</b>\n\nBirozdan so'ng qayta urinib ko'ring yoki yordam bo'limiga murojaat qiling."
)

type approvalRequester interface {
	RequestApproval(ctx context.Context, req vip.Request) (vip.Delivery, error)
}

// PaymentWizard is seeded with plan_id, anime_title, full_name and username. It takes
// one photo and hands it to the admins.
func PaymentWizard(requester approvalRequester) *wizard.Wizard {
	photo := wizard.Photo("proof")
	return &wizard.Wizard{
		ID: WizardPayment,
		Steps: []wizard.Step{{
			Name:   "proof",
			Prompt: wizard.Ask(proofPrompt),
			Validate: func(in wizard.Input, v wizard.Values) (wizard.Values, error) {
				out, err := photo(in, v)
				if err != nil {
					return nil, errors.Validation(proofRequired)
				}
				return out, nil
			},
		}},
		Commit: func(ctx context.Context, identity int64, v wizard.Values) (wizard.Prompt, error) {
			d, err := requester.RequestApproval(ctx, vip.Request{
				UserID:      identity,
				FullName:    v.String("full_name"),
				Username:    v.String("username"),
				PlanID:      v.Uint("plan_id"),
				ProofFileID: v.String("proof"),
				AnimeTitle:  v.String("anime_title"),
			})
			if err != nil {
				return wizard.Prompt{}, err
			}
			if d.Sent == 0 {
				logger.Warn(fmt.Sprintf("Solicitud VIP %s de %d sin admins alcanzados (%d fallos)", d.RequestID, identity, d.Failed), "VIP")
				return wizard.Prompt{Text: UndeliveredText}, nil
			}
			return wizard.Prompt{Text: SubmittedText}, nil
		},
	}
}

// proofCallback is vip_proof:<plan>:<anime>
func proofCallback(s *app.Services) telegram.CallbackFunc {
	return func(c tele.Context, p callback.Payload) error {
		planID, err := p.Uint(0)
		if err != nil {
			return nil
		}
		animeID, _ := p.Uint(1)

		seed := wizard.Values{
			"plan_id":   planID,
			"full_name": telegram.FullName(c.Sender()),
			"username":  c.Sender().Username,
		}
		if animeID != 0 {
			ctx, cancel := app.Context()
			if a, err := s.Anime.Get(ctx, animeID); err == nil {
				seed["anime_title"] = a.Title
			}
			cancel()
		}
		return s.Flow.Start(c, WizardPayment, seed)
	}
}
