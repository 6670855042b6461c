package core

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain integer", "42", "42", false},
		{"plain decimal", "1234.56", "1234.56", false},
		{"dollar sign", "$99.95", "99.95", false},
		{"euro sign", "€12.50", "12.5", false},
		{"pound sign", "£7", "7", false},
		{"rupee sign", "₹450", "450", false},
		{"thousands separators", "1,234,567.89", "1234567.89", false},
		{"currency with separators", "$1,250.00", "1250", false},
		{"accounting negative", "(50.25)", "-50.25", false},
		{"accounting negative with symbol", "($1,000)", "-1000", false},
		{"leading whitespace", "  19.99  ", "19.99", false},
		{"negative sign", "-3.5", "-3.5", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"letters", "abc", "", true},
		{"mixed", "12abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NormalizeNumeric(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeNumeric(%q) = %v, want error", tt.input, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeNumeric(%q): %v", tt.input, err)
			}
			if d.String() != tt.want {
				t.Errorf("NormalizeNumeric(%q) = %s, want %s", tt.input, d.String(), tt.want)
			}
		})
	}
}

func TestToPgNumeric(t *testing.T) {
	if n := ToPgNumeric("$1,234.50"); !n.Valid {
		t.Error("expected valid numeric for currency value")
	}
	if n := ToPgNumeric("not a number"); n.Valid {
		t.Error("expected invalid numeric for garbage value")
	}
	if n := ToPgNumeric(""); n.Valid {
		t.Error("expected invalid numeric for empty value")
	}
}

func TestToPgText(t *testing.T) {
	if tx := ToPgText("hello"); !tx.Valid || tx.String != "hello" {
		t.Errorf("ToPgText(hello) = %+v", tx)
	}
	if tx := ToPgText("  padded  "); !tx.Valid || tx.String != "padded" {
		t.Errorf("ToPgText(padded) = %+v", tx)
	}
	if tx := ToPgText("   "); tx.Valid {
		t.Error("expected invalid text for whitespace-only value")
	}
}

func TestToPgDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"2025-03-14", "2025-03-14", true},
		{"2025/03/14", "2025-03-14", true},
		{"3/14/2025", "2025-03-14", true},
		{"03/14/2025", "2025-03-14", true},
		{"Mar 14, 2025", "2025-03-14", true},
		{"14 Mar 2025", "2025-03-14", true},
		{"20250314", "2025-03-14", true},
		{"", "", false},
		{"yesterday", "", false},
		{"2025-13-40", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := ToPgDate(tt.input)
			if d.Valid != tt.valid {
				t.Fatalf("ToPgDate(%q).Valid = %v, want %v", tt.input, d.Valid, tt.valid)
			}
			if tt.valid && d.Time.Format("2006-01-02") != tt.want {
				t.Errorf("ToPgDate(%q) = %s, want %s", tt.input, d.Time.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	num := ToPgNumeric("12.5")
	if got := normalizeValue(num); got != 12.5 {
		t.Errorf("numeric: got %v, want 12.5", got)
	}
	if got := normalizeValue(pgtype.Numeric{Valid: false}); got != nil {
		t.Errorf("null numeric: got %v, want nil", got)
	}
	if got := normalizeValue(pgtype.Text{String: "abc", Valid: true}); got != "abc" {
		t.Errorf("text: got %v, want abc", got)
	}
	date := pgtype.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	if got := normalizeValue(date); got != "2025-06-01" {
		t.Errorf("date: got %v, want 2025-06-01", got)
	}
	if got := normalizeValue("plain"); got != "plain" {
		t.Errorf("passthrough: got %v, want plain", got)
	}
	if got := normalizeValue(nil); got != nil {
		t.Errorf("nil: got %v, want nil", got)
	}
}

func TestToFloat64(t *testing.T) {
	if got := toFloat64(ToPgNumeric("3.25")); got != 3.25 {
		t.Errorf("numeric: got %v, want 3.25", got)
	}
	if got := toFloat64(int64(7)); got != 7 {
		t.Errorf("int64: got %v, want 7", got)
	}
	if got := toFloat64(nil); got != 0 {
		t.Errorf("nil: got %v, want 0", got)
	}
}
