// Package notification contiene los jobs programados de correo: recordatorio diario a clientes
// inactivos y reporte mensual de gastos.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
	"github.com/jhoicas/grocery-api/pkg/logger"
)

const (
	ReminderSubject = "Reminder: Visit or Buy!"
	ReminderBody    = "Please visit our website or check out our latest products."
	ReportSubject   = "Monthly Activity Report"
)

// Options ajustes de los jobs.
type Options struct {
	InactivityThreshold time.Duration
	Location            *time.Location // zona horaria de la ventana del reporte
	MailTimeout         time.Duration  // por correo; 0 sin límite propio
}

// Jobs agrupa los jobs de notificación. Un fallo con un destinatario se registra y no detiene el resto.
type Jobs struct {
	users    repository.UserRepository
	orders   repository.OrderRepository
	mailer   ports.Mailer
	renderer ports.ReportRenderer
	opts     Options
	log      *logger.Logger
	now      func() time.Time
}

// NewJobs construye los jobs. renderer puede ser nil (el reporte se envía sin PDF adjunto).
func NewJobs(
	users repository.UserRepository,
	orders repository.OrderRepository,
	mailer ports.Mailer,
	renderer ports.ReportRenderer,
	opts Options,
	log *logger.Logger,
) *Jobs {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Jobs{
		users:    users,
		orders:   orders,
		mailer:   mailer,
		renderer: renderer,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// SendReminders envía el recordatorio a los clientes aprobados con email cuya última actividad
// es anterior al umbral de inactividad. Devuelve cuántos correos salieron.
func (j *Jobs) SendReminders(ctx context.Context) (int, error) {
	before := j.now().Add(-j.opts.InactivityThreshold)
	users, err := j.users.ListInactive(ctx, entity.RoleUser, before)
	if err != nil {
		return 0, fmt.Errorf("listar usuarios inactivos: %w", err)
	}
	sent := 0
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		mail := ports.Mail{To: u.Email, Subject: ReminderSubject, Body: ReminderBody}
		if err := j.send(ctx, mail); err != nil {
			j.log.Error().Err(err).Str("username", u.Username).Msg("recordatorio no enviado")
			continue
		}
		sent++
	}
	j.log.Info().Int("sent", sent).Int("inactive", len(users)).Msg("recordatorios enviados")
	return sent, nil
}

// SendMonthlyReports envía a cada cliente con email el resumen de gastos del mes calendario anterior.
func (j *Jobs) SendMonthlyReports(ctx context.Context) (int, error) {
	from, to := ReportWindow(j.now(), j.opts.Location)
	users, err := j.users.ListByRole(ctx, entity.RoleUser, "")
	if err != nil {
		return 0, fmt.Errorf("listar usuarios: %w", err)
	}
	sent := 0
	var errs []error
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := j.sendReport(ctx, u, from, to); err != nil {
			j.log.Error().Err(err).Str("username", u.Username).Msg("reporte mensual no enviado")
			errs = append(errs, err)
			continue
		}
		sent++
	}
	j.log.Info().Int("sent", sent).Time("from", from).Time("to", to).Msg("reportes mensuales enviados")
	if sent == 0 && len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return sent, nil
}

func (j *Jobs) sendReport(ctx context.Context, u *entity.User, from, to time.Time) error {
	report, err := j.BuildReport(ctx, u, from, to)
	if err != nil {
		return err
	}
	body, err := renderReportHTML(report)
	if err != nil {
		return err
	}
	mail := ports.Mail{To: u.Email, Subject: ReportSubject, Body: body, HTML: true}
	if j.renderer != nil {
		pdf, err := j.renderer.RenderActivityReport(ctx, report)
		if err != nil {
			// Sin PDF se envía solo el HTML.
			j.log.Warn().Err(err).Str("username", u.Username).Msg("no se pudo generar el PDF del reporte")
		} else {
			mail.Attachments = append(mail.Attachments, ports.Attachment{
				Filename: fmt.Sprintf("activity_%s.pdf", from.Format("2006-01")),
				Data:     pdf,
			})
		}
	}
	return j.send(ctx, mail)
}

func (j *Jobs) send(ctx context.Context, mail ports.Mail) error {
	if j.opts.MailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.opts.MailTimeout)
		defer cancel()
	}
	return j.mailer.Send(ctx, mail)
}

// BuildReport suma quantity*price de las líneas de las órdenes del usuario en [from, to).
func (j *Jobs) BuildReport(ctx context.Context, u *entity.User, from, to time.Time) (ports.ActivityReport, error) {
	orders, err := j.orders.ListByUserBetween(ctx, u.ID, from, to)
	if err != nil {
		return ports.ActivityReport{}, fmt.Errorf("órdenes de %s: %w", u.Username, err)
	}
	report := ports.ActivityReport{Username: u.Username, From: from, To: to, Total: decimal.Zero}
	for _, o := range orders {
		for _, it := range o.Items {
			amount := it.Amount()
			report.Total = report.Total.Add(amount)
			report.Lines = append(report.Lines, ports.ActivityReportLine{
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Amount:      amount,
			})
		}
	}
	return report, nil
}

// ReportWindow devuelve el mes calendario anterior a now en loc: [día 1 00:00, día 1 del mes actual 00:00).
func ReportWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	to := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	from := to.AddDate(0, -1, 0)
	return from, to
}
