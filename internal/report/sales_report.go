// Package report renders the sales report as a PDF.
package report

import (
	"fmt"
	"time"

	"backoffice/internal/models"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// SalesPDF lists every sale with its lines and closes with the grand total.
func SalesPDF(sales []models.Sale, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Sales report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	grand := decimal.Zero
	for i, sale := range sales {
		grand = grand.Add(sale.Total)
		m.AddRows(saleRow(i+1, sale))
		for _, d := range sale.Details {
			m.AddRows(detailRow(d))
		}
		m.AddRows(line.NewRow(2))
	}
	if len(sales) == 0 {
		m.AddRows(row.New(8).Add(
			col.New(12).Add(text.New("No sales recorded.", props.Text{Color: colorGray, Top: 2})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(10).Add(
		col.New(12).Add(text.New("Grand total: $"+grand.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Right, Top: 2,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sales report: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(text.New("Sales report", props.Text{
			Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Date: "+generatedAt.Format("2006-01-02"), props.Text{
			Size: 10, Align: align.Right, Color: colorGray, Top: 6,
		})),
	)
}

func saleRow(n int, sale models.Sale) core.Row {
	seller := sale.UserID
	if sale.User != nil {
		seller = sale.User.Name
	}
	return row.New(7).Add(
		col.New(8).Add(text.New(fmt.Sprintf("%d. %s - %s", n, sale.Date.Format("2006-01-02 15:04"), seller), props.Text{
			Style: fontstyle.Bold, Size: 11, Top: 1,
		})),
		col.New(4).Add(text.New("Total: $"+sale.Total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
		})),
	)
}

func detailRow(d models.SaleDetail) core.Row {
	return row.New(5).Add(
		col.New(1),
		col.New(7).Add(text.New(fmt.Sprintf("%s x %d", d.Name, d.AmountSold), props.Text{Size: 9, Color: colorGray})),
		col.New(4).Add(text.New("$"+d.Subtotal.StringFixed(2), props.Text{Size: 9, Align: align.Right, Color: colorGray})),
	)
}
