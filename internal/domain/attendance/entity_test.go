package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_DecodeBackendPayload(t *testing.T) {
	payload := `{
		"uid": 42,
		"name": "Awa Diallo",
		"cardNo": "C-0042",
		"userId": "E42",
		"date": "2024-01-10",
		"arrivalTime": "07:55",
		"departureTime": "16:40",
		"hoursWorked": "8.75",
		"entries": [
			{"type": 0, "time": "07:55", "timestamp": "2024-01-10T07:55:12.000Z"},
			{"type": 1, "time": "16:40", "timestamp": "2024-01-10T16:40:03.000Z"}
		],
		"pointeuseUserId": 7
	}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, ID("42"), r.UID)
	assert.Equal(t, ID("E42"), r.UserID)
	assert.Equal(t, ID("7"), r.DeviceUserID)
	assert.Equal(t, "8.75", r.HoursWorked.String())
	require.Len(t, r.Entries, 2)
	assert.Equal(t, EntryArrival, r.Entries[0].Type)
	assert.Equal(t, EntryDeparture, r.Entries[1].Type)
	assert.Equal(t, time.Date(2024, 1, 10, 16, 40, 3, 0, time.UTC), r.Entries[1].Timestamp)
}

func TestHours_Decode(t *testing.T) {
	cases := map[string]string{
		`7.5`:    "7.5",
		`"7.50"`: "7.5",
		`0`:      "0",
		`""`:     "0",
		`null`:   "0",
		`"-"`:    "0",
	}
	for input, want := range cases {
		var h Hours
		require.NoError(t, json.Unmarshal([]byte(input), &h), input)
		assert.Equal(t, want, h.String(), input)
	}

	var h Hours
	require.NoError(t, json.Unmarshal([]byte(`"En cours..."`), &h))
	assert.True(t, h.IsZero())

	_, err := NewHours("abc")
	assert.Error(t, err)
}

func TestRecord_DecodeUnparsableHours(t *testing.T) {
	var records []Record
	err := json.Unmarshal([]byte(`[
		{"uid":1,"name":"Awa","date":"2024-01-10","arrivalTime":"08:00","hoursWorked":"7.25"},
		{"uid":2,"name":"Jean","date":"2024-01-10","arrivalTime":"08:10","hoursWorked":"En cours..."}
	]`), &records)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "7.25", records[0].HoursWorked.String())
	assert.True(t, records[1].HoursWorked.IsZero())
}

func TestEmployee_DecodeLegacyUserID(t *testing.T) {
	var e Employee
	require.NoError(t, json.Unmarshal([]byte(`{"uid":"3","name":"Jean","userid":"M-3"}`), &e))
	assert.Equal(t, ID("3"), e.UID)
	assert.Equal(t, ID("M-3"), e.UserID)

	require.NoError(t, json.Unmarshal([]byte(`{"uid":4,"name":"Paul","userId":"U-4","userid":"ignored"}`), &e))
	assert.Equal(t, ID("U-4"), e.UserID)
}

func TestSummary_UsesSampleData(t *testing.T) {
	real, fake := true, false
	assert.False(t, Summary{}.UsesSampleData())
	assert.False(t, Summary{IsRealData: &real}.UsesSampleData())
	assert.True(t, Summary{IsRealData: &fake}.UsesSampleData())
}

func TestMode_Next(t *testing.T) {
	assert.Equal(t, ModeByDate, ModeAll.Next())
	assert.Equal(t, ModeByEmployee, ModeByDate.Next())
	assert.Equal(t, ModeToday, ModeByEmployee.Next())
	assert.Equal(t, ModeAll, ModeToday.Next())
	assert.Equal(t, ModeAll, Mode("bogus").Next())
	assert.False(t, Mode("bogus").Valid())
}

func TestScope_Key(t *testing.T) {
	assert.Equal(t, "all", Scope{Mode: ModeAll, Date: "2024-01-10"}.Key())
	assert.Equal(t, "by-date:2024-01-10", Scope{Mode: ModeByDate, Date: "2024-01-10"}.Key())
	assert.Equal(t, "by-employee:9", Scope{Mode: ModeByEmployee, EmployeeUID: "9"}.Key())
	assert.Equal(t, "today", Scope{Mode: ModeToday, Date: "2024-01-10"}.Key())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "10/01/2024", FormatDate("2024-01-10"))
	assert.Equal(t, "", FormatDate(""))
	assert.Equal(t, "Mercredi", DayName("2024-01-10"))
	assert.Equal(t, "Dimanche", DayName("2024-01-14"))
	assert.Equal(t, "", DayName("not-a-date"))

	assert.Equal(t, "Lundi", Record{Date: "2024-01-10", DayName: "Lundi"}.DisplayDayName())
	assert.Equal(t, "Mercredi", Record{Date: "2024-01-10"}.DisplayDayName())

	loc := time.FixedZone("UTC+1", 3600)
	assert.Equal(t, "2024-01-11", Today(time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC), loc))
	assert.Equal(t, "2024-01-10", Today(time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC), nil))
}
