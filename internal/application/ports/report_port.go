package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ActivityReportLine línea del reporte mensual.
type ActivityReportLine struct {
	ProductName string
	Quantity    int
	Amount      decimal.Decimal
}

// ActivityReport gasto de un usuario en una ventana de fechas.
type ActivityReport struct {
	Username string
	From     time.Time
	To       time.Time
	Total    decimal.Decimal
	Lines    []ActivityReportLine
}

// ReportRenderer genera la versión PDF del reporte mensual.
type ReportRenderer interface {
	RenderActivityReport(ctx context.Context, report ActivityReport) ([]byte, error)
}
