package shared

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty is zero", value: "", want: time.Time{}},
		{name: "date only", value: "2026-03-15", want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", value: "2026-03-15T08:30:00Z", want: time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC)},
		{name: "garbage", value: "15/03/2026", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 50, wantOffset: 0},
		{name: "explicit", query: "limit=10&offset=20", wantLimit: 10, wantOffset: 20},
		{name: "clamped to max", query: "limit=9999", wantLimit: 200},
		{name: "negative ignored", query: "limit=-5&offset=-1", wantLimit: 50},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/?"+tc.query, nil)
			p := ParsePagination(req, 50, 200)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Fatalf("got limit=%d offset=%d, want limit=%d offset=%d",
					p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestValidatorCollectsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Enum("status", "bogus", []string{"active", "inactive"}, "unknown status")
	v.Positive("amount", decimal.Zero, "amount must be positive")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
}

func TestValidatorDateOrder(t *testing.T) {
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	v := NewValidator()
	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("expected reversed range to be rejected")
	}

	v = NewValidator()
	v.DateOrder("startDate", start, "endDate", start)
	if v.HasIssues() {
		t.Fatal("same-day range should be accepted")
	}
}
