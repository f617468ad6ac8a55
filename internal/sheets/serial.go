package sheets

import (
	"fmt"
	"time"
)

// serialEpoch is day zero of the Sheets serial-date convention
// (1899-12-30, the day before the Lotus epoch's off-by-one).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DateToSerial converts a YYYY-MM-DD date to the integer day count the
// spreadsheet stores natively. Malformed dates are rejected rather than
// silently produce a wrong serial.
func DateToSerial(date string) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction date %q: %w", date, err)
	}
	return int64(t.Sub(serialEpoch) / (24 * time.Hour)), nil
}
