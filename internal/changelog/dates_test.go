package changelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		date    time.Time
		pattern string
		want    string
	}{
		"default pattern": {
			date: time.Date(2021, 6, 1, 1, 0, 1, 0, time.UTC),
			want: "2021-06-01",
		},
		"explicit default": {
			date:    time.Date(2021, 12, 10, 0, 0, 0, 0, time.UTC),
			pattern: "YYYY-MM-DD",
			want:    "2021-12-10",
		},
		"slashes": {
			date:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			pattern: "YYYY/MM/DD",
			want:    "2022/01/01",
		},
		"time of day": {
			date:    time.Date(2022, 1, 1, 13, 4, 5, 0, time.UTC),
			pattern: "YYYY-MM-DD HH:mm:ss",
			want:    "2022-01-01 13:04:05",
		},
		"two digit year": {
			date:    time.Date(2022, 3, 9, 0, 0, 0, 0, time.UTC),
			pattern: "DD.MM.YY",
			want:    "09.03.22",
		},
		"literal text": {
			date:    time.Date(2022, 3, 9, 0, 0, 0, 0, time.UTC),
			pattern: "released YYYY",
			want:    "released 2022",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDate(tt.date, tt.pattern))
		})
	}
}
