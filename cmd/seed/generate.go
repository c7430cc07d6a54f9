package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// generateRecords は now から過去 days 日に散らばった count 件のレコードを作る。
// 生成値はクライアント側の検証をすべて通る形にする。
func generateRecords(rng *rand.Rand, count, days int, now time.Time) []domain.Record {
	records := make([]domain.Record, 0, count)
	for i := 0; i < count; i++ {
		offset := time.Duration(rng.Int63n(int64(days) * int64(24*time.Hour)))
		dateTime := now.Add(-offset).Truncate(time.Minute).UTC()
		dob := time.Date(1960+rng.Intn(40), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
		married := pick(rng, marriedOptions)

		record := domain.Record{
			DateTime:          &dateTime,
			Name:              pick(rng, agentNames),
			EtcCode:           fmt.Sprintf("ETC-%04d", rng.Intn(10000)),
			CustomerName:      pick(rng, customerNames),
			DOB:               &dob,
			ContactNo1:        phoneNumber(rng),
			Force:             pick(rng, forceOptions),
			BN:                fmt.Sprintf("%d", 1+rng.Intn(30)),
			Comp:              string(rune('A' + rng.Intn(6))),
			Married:           married,
			Income:            amount(rng, 20000, 150000, 1000),
			InsurancePremium:  amount(rng, 500, 10000, 100),
			PlanName:          pick(rng, planNames),
			FutureInvestments: pick(rng, futurePlans),
			ClientNeeds:       pick(rng, clientNeeds),
			FinancialServices: pick(rng, financialServices),
			Feedback:          pick(rng, feedbackNotes),
			CreatedAt:         dateTime,
		}
		if rng.Intn(3) == 0 {
			record.ContactNo2 = phoneNumber(rng)
		}
		if rng.Intn(2) == 0 {
			record.Savings = amount(rng, 0, 500000, 5000)
			record.MFSIPAmount = amount(rng, 500, 20000, 500)
			record.InvestAmount = amount(rng, 1000, 50000, 1000)
		}
		if married == "Yes" {
			kids := rng.Intn(3)
			record.Kids = fmt.Sprintf("%d", kids)
			if kids > 0 {
				record.Child1Age = amount(rng, 1, 20, 1)
			}
			if kids > 1 {
				record.Child2Age = amount(rng, 1, 18, 1)
			}
		}

		lat := round(8+rng.Float64()*27, 6)
		lng := round(68+rng.Float64()*29, 6)
		record.Latitude, record.Longitude = &lat, &lng
		records = append(records, record)
	}
	return records
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func phoneNumber(rng *rand.Rand) string {
	return fmt.Sprintf("%d%09d", 6+rng.Intn(4), rng.Intn(1000000000))
}

func amount(rng *rand.Rand, lo, hi, step int) *float64 {
	steps := (hi - lo) / step
	v := float64(lo + rng.Intn(steps+1)*step)
	return &v
}

func round(val float64, precision int) float64 {
	mul := math.Pow(10, float64(precision))
	return math.Round(val*mul) / mul
}

var (
	agentNames     = []string{"Johnathan", "Asha Menon", "Rahul Verma", "Priya Nair", "Vikram Singh", "Meera Iyer"}
	customerNames  = []string{"Ravi Kumar", "Sunita Rao", "Arjun Das", "Kavya Pillai", "Manoj Yadav", "Deepa Joshi", "Imran Khan"}
	forceOptions   = []string{"Army", "Navy", "Air Force", "Civil"}
	marriedOptions = []string{"Yes", "No"}
	planNames      = []string{"Term Shield", "Endowment Plus", "Child Future", "Pension Secure", "ULIP Growth"}
	futurePlans    = []string{"", "Home loan in 2 years", "Child education fund", "Retirement corpus"}
	clientNeeds    = []string{
		"Family protection cover with low premium.",
		"Tax saving under 80C before March.",
		"Lump sum for daughter's higher studies.",
	}
	financialServices = []string{"", "Mutual funds", "Health insurance", "Fixed deposits, SIP"}
	feedbackNotes     = []string{"", "Interested, follow up next week.", "Needs spouse's opinion.", "Very positive meeting."}
)
