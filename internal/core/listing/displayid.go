package listing

import (
	"fmt"
	"strconv"
)

// FormatDisplayID renders "{PREFIX}-{YEAR}-{SEQ}" with SEQ zero-padded to
// three digits. Sequences above 999 simply grow wider.
func FormatDisplayID(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

// SequenceKey names the counter a sequencer keeps for prefix and year.
func SequenceKey(prefix string, year int) string {
	return prefix + ":" + strconv.Itoa(year)
}
