package excel

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

const (
	// SheetName は出力ブックの唯一のシート名。
	SheetName = "FactsFinders"
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// Filename is the attachment name offered to the browser.
	Filename = "factsfinders_data.xlsx"

	dateTimeLayout = "1/2/2006, 3:04:05 PM"
	dateLayout     = "1/2/2006"
	columnPadding  = 2
)

// Headers は列の順序と見出し。下流の集計シートがこの並びに依存しているので変更しないこと。
var Headers = []string{
	"Date", "Name", "ETC Code", "Customer Name", "DOB", "Contact No.1", "Contact No.2",
	"Force / Civil", "BN", "Comp", "Married", "Kids", "1st Child Age", "2nd Child Age",
	"Income", "Savings", "Insurance Premium", "Plan Name", "MF / SIP Amount", "Invest Amount",
	"Future Investments / Saving Plans", "Client Needs / Requirements", "Financial Services",
	"Feedback", "Customer Image", "Latitude", "Longitude",
}

// Formatter はレコード列を 1 シートの xlsx に変換する。
type Formatter struct {
	location *time.Location
}

// NewFormatter returns a Formatter rendering dateTime in loc.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{location: loc}
}

// Format は見出し行と 1 レコード 1 行のシートを書き出す。
// 列幅は見出しとセル文字列の最大長に余白 2 を足した値にする。
func (f *Formatter) Format(records []domain.Record, w io.Writer) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(Headers))
	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := book.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, record := range records {
		row := f.row(record)
		for j, value := range row {
			if n := cellLength(value); n > widths[j] {
				widths[j] = n
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := book.SetColWidth(SheetName, col, col, float64(width+columnPadding)); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes returns the workbook as a byte slice.
func (f *Formatter) Bytes(records []domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Format(records, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *Formatter) row(r domain.Record) []any {
	return []any{
		formatTime(r.DateTime, f.location, dateTimeLayout),
		r.Name,
		r.EtcCode,
		r.CustomerName,
		formatTime(r.DOB, time.UTC, dateLayout),
		r.ContactNo1,
		r.ContactNo2,
		r.Force,
		r.BN,
		r.Comp,
		r.Married,
		r.Kids,
		number(r.Child1Age),
		number(r.Child2Age),
		number(r.Income),
		number(r.Savings),
		number(r.InsurancePremium),
		r.PlanName,
		number(r.MFSIPAmount),
		number(r.InvestAmount),
		r.FutureInvestments,
		r.ClientNeeds,
		r.FinancialServices,
		r.Feedback,
		r.CustomerImage,
		number(r.Latitude),
		number(r.Longitude),
	}
}

// dob は暦日なので UTC で表示する。
func formatTime(t *time.Time, loc *time.Location, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(layout)
}

func number(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// 空文字と 0 は幅の計算では長さ 0 とみなす。
func cellLength(value any) int {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case float64:
		if v == 0 {
			return 0
		}
		return len(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return 0
}
