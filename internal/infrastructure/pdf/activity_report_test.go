package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/internal/application/ports"
)

func TestRenderActivityReport_GeneraUnPDF(t *testing.T) {
	from := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	report := ports.ActivityReport{
		Username: "ana",
		From:     from,
		To:       from.AddDate(0, 1, 0),
		Total:    decimal.RequireFromString("12.50"),
		Lines: []ports.ActivityReportLine{
			{ProductName: "Milk", Quantity: 10, Amount: decimal.RequireFromString("12.50")},
		},
	}

	doc, err := NewActivityReportRenderer().RenderActivityReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderActivityReport_SinCompras(t *testing.T) {
	doc, err := NewActivityReportRenderer().RenderActivityReport(context.Background(), ports.ActivityReport{Username: "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestRenderActivityReport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewActivityReportRenderer().RenderActivityReport(ctx, ports.ActivityReport{})
	assert.ErrorIs(t, err, context.Canceled)
}
