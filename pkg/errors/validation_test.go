package errors

import (
	"strings"
	"testing"
	"time"
)

func TestValidateChainName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Meditate", false},
		{"valid with spaces", "Read 20 pages", false},
		{"valid unicode", "Laufen 🏃", false},
		{"max length", strings.Repeat("x", 100), false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("x", 101), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChainName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChainName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"multiline", "line one\nline two", false},
		{"tab", "a\tb", false},
		{"too long", strings.Repeat("x", 1001), true},
		{"bell", "ding\x07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("goal", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"default", 300, 300, false},
		{"wide", 800, 200, false},
		{"smallest", 25, 25, false},
		{"max", 4096, 4096, false},

		{"padding only", 24, 300, true},
		{"zero", 0, 0, true},
		{"negative", -10, 300, true},
		{"too large", 5000, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("expected INVALID_DIMENSIONS, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePercents(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{"default", 90, 110, false},
		{"equal", 100, 100, false},
		{"zero min", 0, 110, true},
		{"negative max", 90, -1, true},
		{"inverted", 120, 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePercents(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePercents(%v, %v) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth(2024, time.February); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateMonth(2024, 13); !Is(err, ErrCodeInvalidDate) {
		t.Errorf("month 13: got %v", err)
	}
	if err := ValidateMonth(2024, 0); !Is(err, ErrCodeInvalidDate) {
		t.Errorf("month 0: got %v", err)
	}
	if err := ValidateMonth(0, time.March); !Is(err, ErrCodeInvalidDate) {
		t.Errorf("year 0: got %v", err)
	}
}

func TestParseDayKey(t *testing.T) {
	got, err := ParseDayKey("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDayKey error: %v", err)
	}
	if want := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseDayKey = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2023-02-29", "2024/02/01", "yesterday"} {
		_, err := ParseDayKey(bad)
		if !Is(err, ErrCodeInvalidDate) {
			t.Errorf("ParseDayKey(%q) error = %v, want INVALID_DATE", bad, err)
		}
	}
}
