package form

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Fill(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.Set("name", "Old"))

	answers := []string{
		"2024-06-15T10:30", // dateTime
		".",                // name keeps Old
		"ETC-1",
		"  Ravi  ",
	}
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(strings.Join(answers, "\n")+"\n"), &out)
	require.NoError(t, p.Fill(c))

	m := c.Model()
	assert.Equal(t, "2024-06-15T10:30", m.Draft.DateTime)
	assert.Equal(t, "Old", m.Draft.Name)
	assert.Equal(t, "ETC-1", m.Draft.EtcCode)
	assert.Equal(t, "Ravi", m.Draft.CustomerName)
	assert.Empty(t, m.Draft.DOB)
	assert.Contains(t, out.String(), "Date & Time (YYYY-MM-DDTHH:MM): ")
	assert.Contains(t, out.String(), "Name [Old]: ")
}

func TestPrompter_FillTextarea(t *testing.T) {
	c := NewController(Config{})

	var lines []string
	for _, f := range Fields {
		switch f.Key {
		case "clientNeeds":
			lines = append(lines, "needs term cover", "and a pension plan", "")
		case "financialServices":
			lines = append(lines, ".")
		case "feedback":
			lines = append(lines, "friendly", "")
		default:
			lines = append(lines, "")
		}
	}
	p := NewPrompter(strings.NewReader(strings.Join(lines, "\n")+"\n"), &bytes.Buffer{})
	require.NoError(t, p.Fill(c))

	m := c.Model()
	assert.Equal(t, "needs term cover\nand a pension plan", m.Draft.ClientNeeds)
	assert.Empty(t, m.Draft.FinancialServices)
	assert.Equal(t, "friendly", m.Draft.Feedback)
}

func TestPrompter_Ask(t *testing.T) {
	p := NewPrompter(strings.NewReader("photo.jpg"), &bytes.Buffer{})
	answer, err := p.Ask("Image path")
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", answer)
}

func TestRender(t *testing.T) {
	var out bytes.Buffer
	m := Model{Notice: NoticeSaved}
	m.Draft.Name = "Asha"
	Render(&out, m)

	assert.Contains(t, out.String(), "Name:")
	assert.Contains(t, out.String(), "Asha")
	assert.True(t, strings.HasSuffix(out.String(), NoticeSaved+"\n"))
}
