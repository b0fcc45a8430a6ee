package premium

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/PancyStudios/AnimeBotGo/pkg/vip"
	"github.com/PancyStudios/AnimeBotGo/pkg/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequester struct {
	got      []vip.Request
	delivery vip.Delivery
	err      error
}

func (f *fakeRequester) RequestApproval(_ context.Context, req vip.Request) (vip.Delivery, error) {
	f.got = append(f.got, req)
	return f.delivery, f.err
}

func newPaymentMachine(t *testing.T, r *fakeRequester) *wizard.Machine {
	t.Helper()
	m := wizard.NewMachine(wizard.NewMemoryRepository(time.Hour))
	require.NoError(t, m.Register(PaymentWizard(r)))
	return m
}

func paymentSeed() wizard.Values {
	return wizard.Values{"plan_id": uint(3), "full_name": "Ali", "username": "ali", "anime_title": "Naruto"}
}

func TestPaymentWizardSubmitsProof(t *testing.T) {
	ctx := context.Background()
	r := &fakeRequester{delivery: vip.Delivery{Admins: 2, Sent: 2}}
	m := newPaymentMachine(t, r)

	prompt, err := m.Start(ctx, 7, WizardPayment, paymentSeed())
	require.NoError(t, err)
	assert.Equal(t, proofPrompt, prompt.Text)

	res, err := m.Submit(ctx, 7, wizard.PhotoInput("proof-file"))
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, SubmittedText, res.Prompt.Text)

	require.Len(t, r.got, 1)
	assert.Equal(t, vip.Request{
		UserID:      7,
		FullName:    "Ali",
		Username:    "ali",
		PlanID:      3,
		ProofFileID: "proof-file",
		AnimeTitle:  "Naruto",
	}, r.got[0])
}

func TestPaymentWizardWantsAPhoto(t *testing.T) {
	ctx := context.Background()
	r := &fakeRequester{delivery: vip.Delivery{Admins: 1, Sent: 1}}
	m := newPaymentMachine(t, r)

	_, err := m.Start(ctx, 7, WizardPayment, paymentSeed())
	require.NoError(t, err)

	res, err := m.Submit(ctx, 7, wizard.TextInput("to'ladim"))
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusRetry, res.Status)
	assert.Equal(t, proofRequired, errors.Message(res.Problem))
	assert.Empty(t, r.got)

	res, err = m.Submit(ctx, 7, wizard.VideoInput("clip"))
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusRetry, res.Status)
}

func TestPaymentWizardNoAdminReached(t *testing.T) {
	ctx := context.Background()
	r := &fakeRequester{delivery: vip.Delivery{Admins: 2, Failed: 2}}
	m := newPaymentMachine(t, r)

	_, err := m.Start(ctx, 7, WizardPayment, paymentSeed())
	require.NoError(t, err)
	res, err := m.Submit(ctx, 7, wizard.PhotoInput("proof-file"))
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, UndeliveredText, res.Prompt.Text)
}

func TestPaymentWizardUnknownPlan(t *testing.T) {
	ctx := context.Background()
	r := &fakeRequester{err: errors.NotFound("Reja topilmadi")}
	m := newPaymentMachine(t, r)

	_, err := m.Start(ctx, 7, WizardPayment, paymentSeed())
	require.NoError(t, err)
	_, err = m.Submit(ctx, 7, wizard.PhotoInput("proof-file"))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	state, err := m.Active(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestPlansText(t *testing.T) {
	assert.Equal(t, noPlansText, PlansText("Naruto", false))
	assert.Contains(t, PlansText("", true), "<b>◆ VIP Rejalar</b>")
	assert.Contains(t, PlansText("Tom & Jerry", true), "<b>◆ Tom &amp; Jerry | VIP</b>")
}

func TestPlanKeyboards(t *testing.T) {
	plans := []models.VipPlan{{ID: 1, Name: "Oylik"}, {ID: 2, Name: "Yillik"}}
	kb := PlansKeyboard(plans, 9)
	require.Len(t, kb, 3)
	assert.Equal(t, "💎 Oylik", kb[0][0].Text)
	assert.Equal(t, "vip_plan:1:9", kb[0][0].Data)
	assert.Equal(t, "vip_plan:2:9", kb[1][0].Data)
	assert.Equal(t, "back_menu", kb[2][0].Data)

	plan := &models.VipPlan{ID: 2, Name: "Yillik", Price: 50000, DurationDays: 365}
	kb = PlanKeyboard(plan, 0)
	assert.Equal(t, "💰 50000 so'm | ⏳ 365 kun", kb[0][0].Text)
	assert.Equal(t, "vip_pay:2:0", kb[0][0].Data)
	assert.Equal(t, "vip_plans:0", kb[1][0].Data)
	assert.Contains(t, PlanText(plan), "<b>Narxi:</b> 50000 so'm")
}

func TestPaymentText(t *testing.T) {
	plan := &models.VipPlan{Name: "Oylik", Price: 15000, DurationDays: 30}
	text := PaymentText(plan, "8600 1234", "A. <b>Valiyev</b>")
	assert.Contains(t, text, "<code>15000</code> so'm")
	assert.Contains(t, text, "<code>8600 1234</code>")
	assert.Contains(t, text, "<code>A. Valiyev</code>")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", firstNonEmpty())
}
