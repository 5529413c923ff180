package chain

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MonthName returns the full English month name, e.g. "February".
func MonthName(m time.Month) string {
	return m.String()
}

// MonthShort returns the three letter upper-case label drawn in the month
// label cell, e.g. "FEB".
func MonthShort(m time.Month) string {
	return cases.Upper(language.English).String(m.String()[:3])
}
