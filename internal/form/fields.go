package form

// Kind is the input kind a field is rendered with.
type Kind string

const (
	KindText     Kind = "text"
	KindDateTime Kind = "datetime-local"
	KindDate     Kind = "date"
	KindTextarea Kind = "textarea"
)

// Field は入力欄 1 つ分の定義。描画側はこの表だけを見て入力欄を組み立てる。
type Field struct {
	Key   string
	Label string
	Kind  Kind
}

// Fields lists the user-editable inputs in display order. customerImage is set
// by capture and the coordinates by save, so neither appears here.
var Fields = []Field{
	{Key: "dateTime", Label: "Date & Time", Kind: KindDateTime},
	{Key: "name", Label: "Name", Kind: KindText},
	{Key: "etcCode", Label: "ETC Code", Kind: KindText},
	{Key: "customerName", Label: "Customer Name", Kind: KindText},
	{Key: "dob", Label: "DOB", Kind: KindDate},
	{Key: "contactNo1", Label: "Contact No.1", Kind: KindText},
	{Key: "contactNo2", Label: "Contact No.2", Kind: KindText},
	{Key: "force", Label: "Force / Civil", Kind: KindText},
	{Key: "bn", Label: "BN", Kind: KindText},
	{Key: "comp", Label: "Comp", Kind: KindText},
	{Key: "married", Label: "Married", Kind: KindText},
	{Key: "kids", Label: "Kids (Son/Daughter)", Kind: KindText},
	{Key: "child1Age", Label: "1st Child Age", Kind: KindText},
	{Key: "child2Age", Label: "2nd Child Age", Kind: KindText},
	{Key: "income", Label: "Income", Kind: KindText},
	{Key: "savings", Label: "Savings / Investments", Kind: KindText},
	{Key: "insurancePremium", Label: "Insurance Premium", Kind: KindText},
	{Key: "planName", Label: "Plan Name", Kind: KindText},
	{Key: "mfSipAmount", Label: "MF / SIP Amount", Kind: KindText},
	{Key: "investAmount", Label: "How much you can invest", Kind: KindText},
	{Key: "futureInvestments", Label: "Future Investments / Saving Plans", Kind: KindText},
	{Key: "clientNeeds", Label: "Client Needs / Requirements", Kind: KindTextarea},
	{Key: "financialServices", Label: "Financial Services", Kind: KindTextarea},
	{Key: "feedback", Label: "Feedback", Kind: KindTextarea},
}

// Lookup returns the field definition for key.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
