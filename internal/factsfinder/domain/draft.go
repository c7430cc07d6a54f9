package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DraftKeys は Draft が保持する文字列フィールドのキーを画面・出力と同じ順序で並べたもの。
// latitude/longitude は保存時にのみ設定されるため含めない。
var DraftKeys = []string{
	"dateTime", "name", "etcCode", "customerName", "dob",
	"contactNo1", "contactNo2", "force", "bn", "comp",
	"married", "kids", "child1Age", "child2Age", "income",
	"savings", "insurancePremium", "planName", "mfSipAmount", "investAmount",
	"futureInvestments", "clientNeeds", "financialServices", "feedback", "customerImage",
}

// Draft は入力途中のレコード。ユーザー入力をそのままの文字列で保持し、
// 座標だけは保存時にフォームが設定する。API のリクエストボディもこの形。
type Draft struct {
	DateTime          string   `json:"dateTime" validate:"notblank"`
	Name              string   `json:"name" validate:"notblank"`
	EtcCode           string   `json:"etcCode" validate:"notblank"`
	CustomerName      string   `json:"customerName" validate:"notblank"`
	DOB               string   `json:"dob" validate:"notblank"`
	ContactNo1        string   `json:"contactNo1" validate:"notblank,tendigits"`
	ContactNo2        string   `json:"contactNo2" validate:"omitempty,tendigits"`
	Force             string   `json:"force" validate:"notblank"`
	BN                string   `json:"bn" validate:"notblank"`
	Comp              string   `json:"comp" validate:"notblank"`
	Married           string   `json:"married"`
	Kids              string   `json:"kids"`
	Child1Age         string   `json:"child1Age"`
	Child2Age         string   `json:"child2Age"`
	Income            string   `json:"income" validate:"numberish"`
	Savings           string   `json:"savings" validate:"numberish"`
	InsurancePremium  string   `json:"insurancePremium" validate:"notblank,numberish"`
	PlanName          string   `json:"planName" validate:"notblank"`
	MFSIPAmount       string   `json:"mfSipAmount" validate:"numberish"`
	InvestAmount      string   `json:"investAmount" validate:"numberish"`
	FutureInvestments string   `json:"futureInvestments"`
	ClientNeeds       string   `json:"clientNeeds"`
	FinancialServices string   `json:"financialServices"`
	Feedback          string   `json:"feedback"`
	CustomerImage     string   `json:"customerImage"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

func (d *Draft) field(key string) *string {
	switch key {
	case "dateTime":
		return &d.DateTime
	case "name":
		return &d.Name
	case "etcCode":
		return &d.EtcCode
	case "customerName":
		return &d.CustomerName
	case "dob":
		return &d.DOB
	case "contactNo1":
		return &d.ContactNo1
	case "contactNo2":
		return &d.ContactNo2
	case "force":
		return &d.Force
	case "bn":
		return &d.BN
	case "comp":
		return &d.Comp
	case "married":
		return &d.Married
	case "kids":
		return &d.Kids
	case "child1Age":
		return &d.Child1Age
	case "child2Age":
		return &d.Child2Age
	case "income":
		return &d.Income
	case "savings":
		return &d.Savings
	case "insurancePremium":
		return &d.InsurancePremium
	case "planName":
		return &d.PlanName
	case "mfSipAmount":
		return &d.MFSIPAmount
	case "investAmount":
		return &d.InvestAmount
	case "futureInvestments":
		return &d.FutureInvestments
	case "clientNeeds":
		return &d.ClientNeeds
	case "financialServices":
		return &d.FinancialServices
	case "feedback":
		return &d.Feedback
	case "customerImage":
		return &d.CustomerImage
	}
	return nil
}

// Value returns the raw text stored under key, or "" for unknown keys.
func (d Draft) Value(key string) string {
	if p := d.field(key); p != nil {
		return *p
	}
	return ""
}

// Set は key のフィールドを書き換える。座標や未知のキーは受け付けない。
func (d *Draft) Set(key, value string) error {
	p := d.field(key)
	if p == nil {
		return fmt.Errorf("unknown field %q", key)
	}
	*p = value
	return nil
}

// WithPosition は座標を埋めたコピーを返す。元の Draft は変更しない。
func (d Draft) WithPosition(pos Position) Draft {
	lat, lng := pos.Latitude, pos.Longitude
	d.Latitude = &lat
	d.Longitude = &lng
	return d
}

// UnmarshalJSON は文字列位置に数値や null が来ても受け入れる。
// 数値はリテラルのまま文字列として保持し、null は空文字とする。未知のキーは無視する。
func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	next := Draft{}
	for _, key := range DraftKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		text, err := rawText(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*next.field(key) = text
	}

	var err error
	if next.Latitude, err = rawNumber(raw["latitude"]); err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	if next.Longitude, err = rawNumber(raw["longitude"]); err != nil {
		return fmt.Errorf("longitude: %w", err)
	}

	*d = next
	return nil
}

func rawText(value json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("%w: expected a scalar value", ErrInvalidPayload)
	}
	return string(trimmed), nil
}

func rawNumber(value json.RawMessage) (*float64, error) {
	text, err := rawText(value)
	if err != nil {
		return nil, err
	}
	return parseOptionalNumber(text)
}

func parseOptionalNumber(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidPayload, text)
	}
	return &v, nil
}

// ToRecord は Draft を型付きの Record へ変換する。
// dateTime/dob は空でなければ日時へ、数値フィールドは float64 へ変換する。
// 業務ルールの検証は行わない（Validate の責務）。
func (d Draft) ToRecord(loc *time.Location) (Record, error) {
	rec := Record{
		Name:              d.Name,
		EtcCode:           d.EtcCode,
		CustomerName:      d.CustomerName,
		ContactNo1:        d.ContactNo1,
		ContactNo2:        d.ContactNo2,
		Force:             d.Force,
		BN:                d.BN,
		Comp:              d.Comp,
		Married:           d.Married,
		Kids:              d.Kids,
		PlanName:          d.PlanName,
		FutureInvestments: d.FutureInvestments,
		ClientNeeds:       d.ClientNeeds,
		FinancialServices: d.FinancialServices,
		Feedback:          d.Feedback,
		CustomerImage:     d.CustomerImage,
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
	}

	var err error
	if rec.DateTime, err = parseOptionalTime(d.DateTime, loc); err != nil {
		return Record{}, fmt.Errorf("dateTime: %w", err)
	}
	if rec.DOB, err = parseOptionalTime(d.DOB, loc); err != nil {
		return Record{}, fmt.Errorf("dob: %w", err)
	}

	numbers := []struct {
		key    string
		source string
		target **float64
	}{
		{"child1Age", d.Child1Age, &rec.Child1Age},
		{"child2Age", d.Child2Age, &rec.Child2Age},
		{"income", d.Income, &rec.Income},
		{"savings", d.Savings, &rec.Savings},
		{"insurancePremium", d.InsurancePremium, &rec.InsurancePremium},
		{"mfSipAmount", d.MFSIPAmount, &rec.MFSIPAmount},
		{"investAmount", d.InvestAmount, &rec.InvestAmount},
	}
	for _, n := range numbers {
		v, err := parseOptionalNumber(n.source)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", n.key, err)
		}
		*n.target = v
	}

	return rec, nil
}

func parseOptionalTime(text string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(text, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
