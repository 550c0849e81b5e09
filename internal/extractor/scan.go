package extractor

import "regexp"

// DefaultValuePattern matches a number directly followed by a percent sign
const DefaultValuePattern = `(\d+[.,]?\d*)\s*%`

var defaultValueRx = regexp.MustCompile(DefaultValuePattern)

// ScanNumbers runs rx over every block and parses the first capture group of
// each match (or the whole match when rx has no groups). Tokens that do not
// parse are skipped. Order follows the blocks, then the matches within them.
func ScanNumbers(rx *regexp.Regexp, blocks []string) []float64 {
	var values []float64
	for _, block := range blocks {
		for _, m := range rx.FindAllStringSubmatch(block, -1) {
			token := m[0]
			if len(m) > 1 {
				token = m[1]
			}
			if v, ok := ParseNumber(token); ok {
				values = append(values, v)
			}
		}
	}
	return values
}
