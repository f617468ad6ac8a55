package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		rates   Rates
		wantCAD float64
		wantUSD float64
	}{
		{"identity", 100, Rates{CAD: 1, USD: 1}, 100, 100},
		{"cad base", 102.50, Rates{CAD: 1, USD: 0.73}, 102.50, 74.83},
		{"usd base", 50, Rates{CAD: 1.37, USD: 1}, 68.50, 50},
		{"rounds half up", 10, Rates{CAD: 0.1835, USD: 0.0725}, 1.84, 0.73},
		{"zero amount", 0, Rates{CAD: 1.37, USD: 1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cad, usd := Convert(tt.amount, tt.rates)
			assert.Equal(t, tt.wantCAD, cad)
			assert.Equal(t, tt.wantUSD, usd)
		})
	}
}
