package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const (
	ContentTypeCSV = "text/csv; charset=utf-8"

	currency       = "Fcfa"
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
	fileDateLayout = "2006-01-02"
	utf8BOM        = "\ufeff"
)

// CSVExporter выгружает отчёт в CSV, который открывается табличным редактором.
// Разделы идут в порядке: сводка, продажи, остатки, расходы.
type CSVExporter struct {
	location *time.Location
}

func NewCSVExporter(location *time.Location) *CSVExporter {
	if location == nil {
		location = time.Local
	}

	return &CSVExporter{location: location}
}

func (c *CSVExporter) Export(rep *ledger.Report) (*usecase.ReportFile, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(c.rows(rep)); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &usecase.ReportFile{
		Name:        FileName(rep.ShopName, rep.GeneratedAt.In(c.location)),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
		CreatedAt:   rep.GeneratedAt,
	}, nil
}

func (c *CSVExporter) rows(rep *ledger.Report) [][]string {
	rows := [][]string{
		{strings.ToUpper(rep.ShopName) + " - RAPPORT GLOBAL"},
		{"Date: " + rep.GeneratedAt.In(c.location).Format(dateLayout)},
	}
	if rep.From != nil || rep.To != nil {
		rows = append(rows, []string{"Periode: " + c.bound(rep.From) + " - " + c.bound(rep.To)})
	}

	rows = append(rows,
		[]string{""},
		[]string{"--- RESUME ---"},
		[]string{"Ventes Totales", money(rep.TotalSales)},
		[]string{"Depenses Totales", money(rep.TotalExpenses)},
		[]string{"Benefice Net", money(rep.NetProfit)},
		[]string{"Produits", strconv.Itoa(rep.ProductCount)},
		[]string{"Valeur du Stock", money(rep.StockValue)},
		[]string{""},
		[]string{"--- VENTES ---"},
		[]string{"Categorie", "Nom", "Quantite", "P.U", "Total", "Date"},
	)
	for _, s := range rep.Sales {
		rows = append(rows, []string{
			s.Category,
			s.Name,
			strconv.Itoa(s.Quantity),
			s.UnitPrice.String(),
			s.Total.String(),
			c.dateTime(s.Timestamp),
		})
	}

	rows = append(rows,
		[]string{""},
		[]string{"--- PRODUITS RESTANTS ---"},
		[]string{"Nom", "Categorie", "Quantite", "Alerte"},
	)
	for _, p := range rep.Stock {
		alert := ""
		if p.LowStock {
			alert = "STOCK BAS"
		}
		rows = append(rows, []string{p.Name, p.Category, strconv.Itoa(p.Stock), alert})
	}

	rows = append(rows,
		[]string{""},
		[]string{"--- DEPENSES ---"},
		[]string{"Description", "Categorie", "Montant", "Date"},
	)
	for _, exp := range rep.Expenses {
		rows = append(rows, []string{exp.Description, exp.Category, exp.Amount.String(), c.dateTime(exp.Timestamp)})
	}

	return rows
}

func (c *CSVExporter) dateTime(t time.Time) string {
	return t.In(c.location).Format(dateTimeLayout)
}

func (c *CSVExporter) bound(t *time.Time) string {
	if t == nil {
		return "..."
	}
	return t.In(c.location).Format(dateLayout)
}

// FileName строит имя файла вида <магазин>_rapport_<дата>.csv.
func FileName(shopName string, at time.Time) string {
	name := strings.Join(strings.Fields(strings.ToLower(shopName)), "_")
	if name == "" {
		name = "boutique"
	}

	return name + "_rapport_" + at.Format(fileDateLayout) + ".csv"
}

func money(d decimal.Decimal) string {
	return d.String() + " " + currency
}
