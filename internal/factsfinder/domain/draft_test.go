package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SetRejectsCoordinatesAndUnknownKeys(t *testing.T) {
	var d Draft
	assert.Error(t, d.Set("latitude", "12.5"))
	assert.Error(t, d.Set("longitude", "77.1"))
	assert.Error(t, d.Set("nope", "x"))
	assert.Nil(t, d.Latitude)

	require.NoError(t, d.Set("planName", "Jeevan"))
	assert.Equal(t, "Jeevan", d.Value("planName"))
	assert.Equal(t, "", d.Value("nope"))
}

func TestDraft_EveryKeyIsAddressable(t *testing.T) {
	var d Draft
	for _, key := range DraftKeys {
		require.NoError(t, d.Set(key, key+"-value"), key)
		assert.Equal(t, key+"-value", d.Value(key))
	}
}

func TestDraft_WithPositionLeavesOriginalUntouched(t *testing.T) {
	d := Draft{Name: "Asha"}
	located := d.WithPosition(Position{Latitude: 12.97, Longitude: 77.59})

	assert.Nil(t, d.Latitude)
	require.NotNil(t, located.Latitude)
	assert.Equal(t, 12.97, *located.Latitude)
	assert.Equal(t, 77.59, *located.Longitude)
	assert.Equal(t, "Asha", located.Name)
}

func TestDraft_UnmarshalJSONToleratesNumbersAndNull(t *testing.T) {
	body := `{
		"name": "Ravi",
		"income": 50000,
		"child1Age": "7",
		"kids": null,
		"married": true,
		"latitude": 12.5,
		"longitude": "77.25",
		"unexpected": "ignored"
	}`

	var d Draft
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	assert.Equal(t, "Ravi", d.Name)
	assert.Equal(t, "50000", d.Income)
	assert.Equal(t, "7", d.Child1Age)
	assert.Equal(t, "", d.Kids)
	assert.Equal(t, "true", d.Married)
	require.NotNil(t, d.Latitude)
	assert.Equal(t, 12.5, *d.Latitude)
	assert.Equal(t, 77.25, *d.Longitude)
}

func TestDraft_UnmarshalJSONRejectsNestedValues(t *testing.T) {
	var d Draft
	err := json.Unmarshal([]byte(`{"name": {"first": "x"}}`), &d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPayload))

	err = json.Unmarshal([]byte(`{"latitude": "north"}`), &d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestDraft_ToRecord(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	d := validDraft()
	d.Income = " 50000 "
	d.Child2Age = ""
	d = d.WithPosition(Position{Latitude: 1, Longitude: 2})

	rec, err := d.ToRecord(loc)
	require.NoError(t, err)

	require.NotNil(t, rec.DateTime)
	assert.True(t, rec.DateTime.Equal(time.Date(2024, 6, 15, 10, 30, 0, 0, loc)))
	require.NotNil(t, rec.DOB)
	assert.True(t, rec.DOB.Equal(time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, rec.Income)
	assert.Equal(t, 50000.0, *rec.Income)
	assert.Nil(t, rec.Child2Age)
	require.NotNil(t, rec.InsurancePremium)
	assert.Equal(t, 25000.0, *rec.InsurancePremium)
	assert.Equal(t, "9876543210", rec.ContactNo1)
	assert.Equal(t, 1.0, *rec.Latitude)
	assert.Equal(t, 2.0, *rec.Longitude)
}

func TestDraft_ToRecordLeavesEmptyDatesUnset(t *testing.T) {
	rec, err := Draft{Name: "x"}.ToRecord(time.UTC)
	require.NoError(t, err)
	assert.Nil(t, rec.DateTime)
	assert.Nil(t, rec.DOB)
}

func TestDraft_ToRecordRejectsBadCoercions(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{name: "bad date", draft: Draft{DateTime: "yesterday"}, field: "dateTime"},
		{name: "bad dob", draft: Draft{DOB: "31/31/1990"}, field: "dob"},
		{name: "bad number", draft: Draft{Savings: "lots"}, field: "savings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.ToRecord(time.UTC)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPayload))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-06-15T10:30", time.Date(2024, 6, 15, 10, 30, 0, 0, loc)},
		{"2024-06-15T10:30:45", time.Date(2024, 6, 15, 10, 30, 45, 0, loc)},
		{"2024-06-15T10:30:45Z", time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)},
		{"2024-06-15T10:30:45.123+05:30", time.Date(2024, 6, 15, 10, 30, 45, 123000000, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("not a date", loc)
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}
