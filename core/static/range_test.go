package static_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/webserver/core/static"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header  string
		size    int64
		want    static.RangeSpec
		wantErr error
	}{
		{"bytes=0-99", 100, static.RangeSpec{Start: 0, End: 99}, nil},
		{"bytes=10-", 100, static.RangeSpec{Start: 10, End: 99}, nil},
		{" bytes=5-5 ", 100, static.RangeSpec{Start: 5, End: 5}, nil},
		{"20-30", 100, static.RangeSpec{Start: 20, End: 30}, nil},
		{"bytes=100-", 100, static.RangeSpec{}, static.ErrRangeNotSatisfiable},
		{"bytes=0-100", 100, static.RangeSpec{}, static.ErrRangeNotSatisfiable},
		{"bytes=50-10", 100, static.RangeSpec{}, static.ErrInvalidRange},
		{"bytes=-10", 100, static.RangeSpec{}, static.ErrInvalidRange},
		{"bytes=x-10", 100, static.RangeSpec{}, static.ErrInvalidRange},
		{"bytes=0-y", 100, static.RangeSpec{}, static.ErrInvalidRange},
		{"bytes=0-1,5-6", 100, static.RangeSpec{}, static.ErrInvalidRange},
		{"bytes=", 100, static.RangeSpec{}, static.ErrInvalidRange},
		{"bytes=0-", 0, static.RangeSpec{}, static.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()

			got, err := static.ParseRange(tt.header, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRangeSpec(t *testing.T) {
	t.Parallel()

	r := static.RangeSpec{Start: 1000, End: 1999}
	assert.EqualValues(t, 1000, r.Length())
	assert.Equal(t, "bytes 1000-1999/10000", r.ContentRange(10000))
}
