package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordDocument は MongoDB 上での Facts Finder レコードのスキーマを Go 構造体として表現したもの。
// 数値・日付は未入力なら保存しない。文字列は空文字のまま保存する。
type RecordDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	DateTime          *time.Time         `bson:"dateTime,omitempty"`
	Name              string             `bson:"name"`
	EtcCode           string             `bson:"etcCode"`
	CustomerName      string             `bson:"customerName"`
	DOB               *time.Time         `bson:"dob,omitempty"`
	ContactNo1        string             `bson:"contactNo1"`
	ContactNo2        string             `bson:"contactNo2"`
	Force             string             `bson:"force"`
	BN                string             `bson:"bn"`
	Comp              string             `bson:"comp"`
	Married           string             `bson:"married"`
	Kids              string             `bson:"kids"`
	Child1Age         *float64           `bson:"child1Age,omitempty"`
	Child2Age         *float64           `bson:"child2Age,omitempty"`
	Income            *float64           `bson:"income,omitempty"`
	Savings           *float64           `bson:"savings,omitempty"`
	InsurancePremium  *float64           `bson:"insurancePremium,omitempty"`
	PlanName          string             `bson:"planName"`
	MFSIPAmount       *float64           `bson:"mfSipAmount,omitempty"`
	InvestAmount      *float64           `bson:"investAmount,omitempty"`
	FutureInvestments string             `bson:"futureInvestments"`
	ClientNeeds       string             `bson:"clientNeeds"`
	FinancialServices string             `bson:"financialServices"`
	Feedback          string             `bson:"feedback"`
	CustomerImage     string             `bson:"customerImage"`
	Latitude          *float64           `bson:"latitude,omitempty"`
	Longitude         *float64           `bson:"longitude,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
}
