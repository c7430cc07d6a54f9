package domain

import "time"

// Record は永続化済みの Facts Finder 提出 1 件を表すドメインモデル。
// 一度保存されたら更新・削除されない追記専用のデータとして扱う。
type Record struct {
	ID                string
	DateTime          *time.Time
	Name              string
	EtcCode           string
	CustomerName      string
	DOB               *time.Time
	ContactNo1        string
	ContactNo2        string
	Force             string
	BN                string
	Comp              string
	Married           string
	Kids              string
	Child1Age         *float64
	Child2Age         *float64
	Income            *float64
	Savings           *float64
	InsurancePremium  *float64
	PlanName          string
	MFSIPAmount       *float64
	InvestAmount      *float64
	FutureInvestments string
	ClientNeeds       string
	FinancialServices string
	Feedback          string
	CustomerImage     string
	Latitude          *float64
	Longitude         *float64
	CreatedAt         time.Time
}

// Position is a device coordinate pair.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Image is a captured customer photo waiting to be uploaded.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}
