package domain

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilDate(t *testing.T) {
	// 02:30 UTC ainda é o dia anterior em UTC-3
	ref := time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC)

	got := CivilDate(ref)

	assert.Equal(t, "2024-03-14", got.Format(time.DateOnly))
	assert.Equal(t, 0, got.Hour())
}

func TestDateRange(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 3, 8, 15, 0, 0, 0, CivilLocation),
		time.Date(2024, 3, 14, 1, 0, 0, 0, CivilLocation),
		"Últimos 7 dias",
	)

	assert.Equal(t, 7, r.Days())
	assert.Equal(t, "2024-03-08", r.SinceDate())
	assert.Equal(t, "2024-03-14", r.UntilDate())

	other := NewDateRange(r.Until, r.Until.AddDate(0, 0, 3), "")
	assert.True(t, r.Overlaps(other))

	after := NewDateRange(r.Until.AddDate(0, 0, 1), r.Until.AddDate(0, 0, 2), "")
	assert.False(t, r.Overlaps(after))

	raw, err := jsoniter.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"since":"2024-03-08","until":"2024-03-14","label":"Últimos 7 dias","days":7}`, string(raw))
}

func TestCostPerResult(t *testing.T) {
	t.Run("sem resultados não tem dados", func(t *testing.T) {
		got := CostPerResult(decimal.RequireFromString("150.00"), 0)
		assert.False(t, got.Valid)
	})

	t.Run("divide e arredonda em duas casas", func(t *testing.T) {
		got := CostPerResult(decimal.RequireFromString("100"), 3)
		require.True(t, got.Valid)
		assert.Equal(t, "33.33", got.Decimal.StringFixed(2))
	})
}

func TestScheduleEntry(t *testing.T) {
	entry := ScheduleEntry{Days: []string{"Mon", " fri "}, Time: "08:45"}

	hour, err := entry.Hour()
	require.NoError(t, err)
	assert.Equal(t, 8, hour)

	assert.True(t, entry.RunsOn("mon"))
	assert.True(t, entry.RunsOn("fri"))
	assert.False(t, entry.RunsOn("sat"))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{value: "00:00", hour: 0, minute: 0},
		{value: "23:59", hour: 23, minute: 59},
		{value: " 7:05 ", hour: 7, minute: 5},
		{value: "24:00", wantErr: true},
		{value: "12:60", wantErr: true},
		{value: "1200", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			hour, minute, err := ParseClock(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestWeekdayToken(t *testing.T) {
	assert.Equal(t, "sun", WeekdayToken(time.Sunday))
	assert.Equal(t, "fri", WeekdayToken(time.Friday))
	assert.True(t, IsWeekdayToken("WED"))
	assert.False(t, IsWeekdayToken("quarta"))
	assert.Equal(t, "08", HourToken(8))
}

func TestDispatchKey(t *testing.T) {
	entry := ScheduleEntry{Time: "08:45", Period: "yesterday"}
	// 11:10 UTC = 08:10 em UTC-3
	now := time.Date(2024, 3, 15, 11, 10, 0, 0, time.UTC)

	key := NewDispatchKey("abc123", 1, entry, now)

	assert.Equal(t, "2024-03-15T08", key.Slot)
	assert.Equal(t, "abc123|1|08:45|yesterday|2024-03-15T08", key.String())
}

func TestUpdateClientRequestApply(t *testing.T) {
	client := &Client{ID: "c1", Name: "Loja A", Color: "#fff"}
	name := "Loja B"
	schedules := []ScheduleEntry{{Enabled: true, Days: []string{"mon"}, Time: "09:00", Period: "yesterday"}}

	req := &UpdateClientRequest{Name: &name, Schedules: &schedules}
	req.Apply(client)

	assert.Equal(t, "Loja B", client.Name)
	assert.Equal(t, "#fff", client.Color)
	assert.Len(t, client.Schedules, 1)
}

func TestClientWithoutSecrets(t *testing.T) {
	client := &Client{ID: "c1", Name: "Loja A", WebhookURL: "https://chat.example.com/hooks/x"}

	redacted := client.WithoutSecrets()
	assert.Empty(t, redacted.WebhookURL)
	assert.Equal(t, "Loja A", redacted.Name)
	assert.Equal(t, "https://chat.example.com/hooks/x", client.WebhookURL)

	var nilClient *Client
	assert.Nil(t, nilClient.WithoutSecrets())
}
