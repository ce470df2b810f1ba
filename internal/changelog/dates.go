package changelog

import (
	"strings"
	"time"
)

// dateTokens maps user-facing date tokens to Go layout fragments.
// Longer tokens come first so "YYYY" wins over "YY".
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

// FormatDate formats t with a token pattern such as "YYYY-MM-DD".
// Supported tokens: YYYY, YY, MM, DD, HH, mm, ss. Other text is literal.
// An empty pattern uses DefaultDateFormat.
func FormatDate(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = DefaultDateFormat
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				b.WriteString(t.Format(tok.layout))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}
