package errors

import (
	"strings"
	"time"
	"unicode"
)

// DayLayout is the canonical day key format (YYYY-MM-DD).
const DayLayout = "2006-01-02"

const (
	maxChainNameLength = 100
	maxTextLength      = 1000

	// minCanvasSize is the smallest width or height that leaves a
	// non-empty working area inside the 12 unit padding.
	minCanvasSize = 24
	maxCanvasSize = 4096
)

// ValidateChainName validates a chain name.
//
// Names must be non-empty after trimming, at most 100 characters and free
// of control characters.
func ValidateChainName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "chain name cannot be empty")
	}

	if len([]rune(name)) > maxChainNameLength {
		return New(ErrCodeInvalidInput, "chain name too long (max %d characters)", maxChainNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "chain name contains invalid control characters")
		}
	}

	return nil
}

// ValidateText validates free-form chain text such as the description or
// goal. Empty text is allowed; newlines and tabs are the only permitted
// control characters.
func ValidateText(field, text string) error {
	if len([]rune(text)) > maxTextLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxTextLength)
	}
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateDimensions validates a canvas size. Both sides must be larger
// than twice the diagram padding and no larger than 4096.
func ValidateDimensions(width, height float64) error {
	if width <= minCanvasSize || height <= minCanvasSize {
		return New(ErrCodeInvalidDimensions, "canvas must be larger than %dx%d, got %gx%g",
			minCanvasSize, minCanvasSize, width, height)
	}
	if width > maxCanvasSize || height > maxCanvasSize {
		return New(ErrCodeInvalidDimensions, "canvas must be at most %dx%d, got %gx%g",
			maxCanvasSize, maxCanvasSize, width, height)
	}
	return nil
}

// ValidatePercents validates the chain step range used for seed placement.
func ValidatePercents(minPct, maxPct float64) error {
	if minPct <= 0 || maxPct <= 0 {
		return New(ErrCodeInvalidInput, "size percentages must be positive, got %g/%g", minPct, maxPct)
	}
	if minPct > maxPct {
		return New(ErrCodeInvalidInput, "min size %g%% exceeds max size %g%%", minPct, maxPct)
	}
	return nil
}

// ValidateMonth validates a year and month pair.
func ValidateMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return New(ErrCodeInvalidDate, "month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return New(ErrCodeInvalidDate, "year out of range: %d", year)
	}
	return nil
}

// ParseDayKey parses a YYYY-MM-DD day key into midnight UTC.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, Wrap(ErrCodeInvalidDate, err, "invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
