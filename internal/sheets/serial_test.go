package sheets

import "testing"

func TestDateToSerial(t *testing.T) {
	tests := []struct {
		date string
		want int64
	}{
		{"1899-12-30", 0},
		{"1899-12-31", 1},
		{"1900-01-01", 2},
		{"1970-01-01", 25569},
		{"2025-01-01", 45658},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := DateToSerial(tt.date)
			if err != nil {
				t.Fatalf("DateToSerial(%q) error: %v", tt.date, err)
			}
			if got != tt.want {
				t.Errorf("DateToSerial(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateToSerial_Monotonic(t *testing.T) {
	dates := []string{
		"1899-12-30",
		"1900-02-28",
		"1900-03-01",
		"1999-12-31",
		"2000-01-01",
		"2024-02-29",
		"2024-03-01",
		"2025-08-31",
	}

	prev := int64(-1)
	for _, d := range dates {
		serial, err := DateToSerial(d)
		if err != nil {
			t.Fatalf("DateToSerial(%q) error: %v", d, err)
		}
		if serial <= prev {
			t.Errorf("DateToSerial(%q) = %d, not greater than previous %d", d, serial, prev)
		}
		prev = serial
	}
}

func TestDateToSerial_Malformed(t *testing.T) {
	for _, d := range []string{"", "2025-13-01", "2025-02-30", "15/06/2025", "2025-6-1", "not a date"} {
		if _, err := DateToSerial(d); err == nil {
			t.Errorf("DateToSerial(%q) expected error, got nil", d)
		}
	}
}
