// Package premium is the subscriber side of VIP: plans, payment details, the
// screenshot wizard and the admin approve / reject buttons.
package premium

import (
	"github.com/PancyStudios/AnimeBotGo/internal/app"
	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
)

// RegisterPremiumCommands registers the VIP commands, buttons and the payment wizard
func RegisterPremiumCommands(s *app.Services) {
	s.Client.RegisterCommand(CreatePlansCommand(s))

	s.Machine.MustRegister(PaymentWizard(s.VIP))

	s.Client.Callbacks.On(callback.VipPlans, plansCallback(s))
	s.Client.Callbacks.On(callback.VipPlan, planCallback(s))
	s.Client.Callbacks.On(callback.VipPay, payCallback(s))
	s.Client.Callbacks.On(callback.VipProof, proofCallback(s))
	s.Client.Callbacks.OnGuarded(callback.VipApprove, s.AdminGuard(), approveCallback(s))
	s.Client.Callbacks.OnGuarded(callback.VipReject, s.AdminGuard(), rejectCallback(s))
}
