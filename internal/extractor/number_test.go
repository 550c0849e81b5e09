package extractor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseNumber tests locale-variant number parsing
func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"comma decimal", "3,25", 3.25, true},
		{"dot decimal", "4.5", 4.5, true},
		{"integer", "7", 7, true},
		{"surrounding whitespace", "  6,1 \n", 6.1, true},
		{"negative", "-2,5", -2.5, true},
		{"trailing separator", "5,", 5, true},
		{"thousands and decimal", "1,234.5", 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"letters", "abc", 0, false},
		{"percent sign", "4,5%", 0, false},
		{"infinity", "inf", 0, false},
		{"nan", "NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

// TestScanNumbers tests the shared pattern scan
func TestScanNumbers(t *testing.T) {
	t.Run("first group per match in order across blocks", func(t *testing.T) {
		rx := regexp.MustCompile(`(?i)apr\s*(\d+[.,]\d+)`)
		got := ScanNumbers(rx, []string{"APR 3,1 and apr 2.9", "nothing", "Apr 5,0"})
		assert.Equal(t, []float64{3.1, 2.9, 5.0}, got)
	})

	t.Run("whole match without groups", func(t *testing.T) {
		rx := regexp.MustCompile(`\d+,\d+`)
		got := ScanNumbers(rx, []string{"1,5 / 2,5"})
		assert.Equal(t, []float64{1.5, 2.5}, got)
	})

	t.Run("only the first of several groups is used", func(t *testing.T) {
		rx := regexp.MustCompile(`(\d+)-(\d+)`)
		got := ScanNumbers(rx, []string{"10-20"})
		assert.Equal(t, []float64{10}, got)
	})

	t.Run("unparseable tokens are skipped", func(t *testing.T) {
		rx := regexp.MustCompile(`rate: (\S+)`)
		got := ScanNumbers(rx, []string{"rate: n/a rate: 4,2"})
		assert.Equal(t, []float64{4.2}, got)
	})

	t.Run("default pattern", func(t *testing.T) {
		got := ScanNumbers(defaultValueRx, []string{"From 3,49% to 5.1 % yearly, fee 20"})
		assert.Equal(t, []float64{3.49, 5.1}, got)
	})

	t.Run("no blocks", func(t *testing.T) {
		assert.Empty(t, ScanNumbers(defaultValueRx, nil))
	})
}
