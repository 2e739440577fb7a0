package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/infrastructure/memory"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []ports.Mail
	failTo string
}

func (f *fakeMailer) Send(_ context.Context, m ports.Mail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.To == f.failTo {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	f.sent = append(f.sent, m)
	return nil
}

type fakeRenderer struct{ err error }

func (f fakeRenderer) RenderActivityReport(context.Context, ports.ActivityReport) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

var fixedNow = time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC)

func addUser(t *testing.T, store *memory.Store, username, email, role string, lastActivity time.Time) *entity.User {
	t.Helper()
	u := &entity.User{
		Username:     username,
		Email:        email,
		Role:         role,
		Status:       entity.StatusApproved,
		LastActivity: lastActivity,
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func addOrder(t *testing.T, store *memory.Store, userID int64, at time.Time, name string, qty int, price string) {
	t.Helper()
	ctx := context.Background()
	sections, err := store.Sections().List(ctx)
	require.NoError(t, err)
	if len(sections) == 0 {
		require.NoError(t, store.Sections().Create(ctx, &entity.Section{Name: "Dairy"}))
		sections, err = store.Sections().List(ctx)
		require.NoError(t, err)
	}
	p := &entity.Product{SectionID: sections[0].ID, Name: name, UnitType: "u", RatePerUnit: decimal.RequireFromString(price), QuantityAvailable: 100}
	require.NoError(t, store.Products().Create(ctx, p))
	o := &entity.Order{UserID: userID, Timestamp: at}
	require.NoError(t, store.Orders().Create(ctx, o))
	require.NoError(t, store.Orders().AddItem(ctx, &entity.OrderItem{
		OrderID: o.ID, ProductID: p.ID, ProductName: name, Quantity: qty, Price: decimal.RequireFromString(price),
	}))
}

func newJobs(store *memory.Store, mailer ports.Mailer, renderer ports.ReportRenderer) *Jobs {
	j := NewJobs(store.Users(), store.Orders(), mailer, renderer, Options{InactivityThreshold: 24 * time.Hour}, nil)
	j.now = func() time.Time { return fixedNow }
	return j
}

func TestReportWindow_MesAnterior(t *testing.T) {
	from, to := ReportWindow(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestReportWindow_RespetaLaZonaHoraria(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 1 de marzo 02:00 UTC sigue siendo 29 de febrero en UTC-5.
	from, to := ReportWindow(time.Date(2024, time.March, 1, 2, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, loc), to)
}

func TestSendReminders_SoloClientesInactivosConEmail(t *testing.T) {
	store := memory.NewStore()
	addUser(t, store, "ana", "ana@example.com", entity.RoleUser, fixedNow.Add(-48*time.Hour))
	addUser(t, store, "bob", "bob@example.com", entity.RoleUser, fixedNow.Add(-time.Hour))
	addUser(t, store, "sin-email", "", entity.RoleUser, fixedNow.Add(-48*time.Hour))
	addUser(t, store, "gina", "gina@example.com", entity.RoleManager, fixedNow.Add(-48*time.Hour))

	mailer := &fakeMailer{}
	sent, err := newJobs(store, mailer, nil).SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com", mailer.sent[0].To)
	assert.Equal(t, ReminderSubject, mailer.sent[0].Subject)
	assert.False(t, mailer.sent[0].HTML)
}

func TestSendReminders_UnFalloNoDetieneElResto(t *testing.T) {
	store := memory.NewStore()
	addUser(t, store, "ana", "ana@example.com", entity.RoleUser, fixedNow.Add(-48*time.Hour))
	addUser(t, store, "eva", "eva@example.com", entity.RoleUser, fixedNow.Add(-48*time.Hour))

	mailer := &fakeMailer{failTo: "ana@example.com"}
	sent, err := newJobs(store, mailer, nil).SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "eva@example.com", mailer.sent[0].To)
}

func TestSendMonthlyReports_SumaSoloElMesAnterior(t *testing.T) {
	store := memory.NewStore()
	ana := addUser(t, store, "ana", "ana@example.com", entity.RoleUser, fixedNow)
	addOrder(t, store, ana.ID, time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC), "Milk", 2, "1.50")
	addOrder(t, store, ana.ID, time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC), "Cheese", 1, "7.00")
	addOrder(t, store, ana.ID, time.Date(2024, time.January, 31, 23, 0, 0, 0, time.UTC), "Bread", 5, "2.00")
	addOrder(t, store, ana.ID, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "Eggs", 1, "3.00")

	mailer := &fakeMailer{}
	sent, err := newJobs(store, mailer, fakeRenderer{}).SendMonthlyReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, ReportSubject, mail.Subject)
	assert.True(t, mail.HTML)
	assert.Contains(t, mail.Body, "Monthly Activity Report - ana")
	assert.Contains(t, mail.Body, "Total Expenditure: $10.00")
	assert.Contains(t, mail.Body, "Milk - Quantity: 2 - Amount: $3.00")
	assert.NotContains(t, mail.Body, "Bread")
	assert.NotContains(t, mail.Body, "Eggs")
	require.Len(t, mail.Attachments, 1)
	assert.Equal(t, "activity_2024-02.pdf", mail.Attachments[0].Filename)
}

func TestSendMonthlyReports_SinPDFSeEnviaIgual(t *testing.T) {
	store := memory.NewStore()
	addUser(t, store, "ana", "ana@example.com", entity.RoleUser, fixedNow)

	mailer := &fakeMailer{}
	sent, err := newJobs(store, mailer, fakeRenderer{err: errors.New("fuente no disponible")}).SendMonthlyReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Empty(t, mailer.sent[0].Attachments)
	assert.Contains(t, mailer.sent[0].Body, "No purchases this period.")
}

func TestSendMonthlyReports_EscapaHTML(t *testing.T) {
	store := memory.NewStore()
	ana := addUser(t, store, "ana", "ana@example.com", entity.RoleUser, fixedNow)
	addOrder(t, store, ana.ID, time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC), "<script>x</script>", 1, "1")

	mailer := &fakeMailer{}
	_, err := newJobs(store, mailer, nil).SendMonthlyReports(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, mailer.sent[0].Body, "<script>")
}

// stuckMailer no responde hasta que vence el contexto del envío.
type stuckMailer struct{ deadlines int }

func (s *stuckMailer) Send(ctx context.Context, _ ports.Mail) error {
	if _, ok := ctx.Deadline(); ok {
		s.deadlines++
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestSendReminders_CadaCorreoTieneSuPropioTimeout(t *testing.T) {
	store := memory.NewStore()
	old := fixedNow.Add(-72 * time.Hour)
	addUser(t, store, "ana", "ana@example.com", entity.RoleUser, old)
	addUser(t, store, "luis", "luis@example.com", entity.RoleUser, old)

	mailer := &stuckMailer{}
	j := NewJobs(store.Users(), store.Orders(), mailer, nil, Options{
		InactivityThreshold: 24 * time.Hour,
		MailTimeout:         10 * time.Millisecond,
	}, nil)
	j.now = func() time.Time { return fixedNow }

	sent, err := j.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 2, mailer.deadlines, "un servidor lento no bloquea al siguiente destinatario")
}
