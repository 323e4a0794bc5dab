package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage string
		want          Params
	}{
		{"defaults", "", "", Params{Page: 1, PerPage: 10}},
		{"explicit", "3", "5", Params{Page: 3, PerPage: 5}},
		{"garbage", "abc", "x", Params{Page: 1, PerPage: 10}},
		{"non-positive", "0", "-4", Params{Page: 1, PerPage: 10}},
		{"capped", "1", "1000", Params{Page: 1, PerPage: 100}},
		{"per page out of range", "1", "99999999999999999999", Params{Page: 1, PerPage: 100}},
		{"page clamped", "922337203685477582", "10", Params{Page: math.MaxInt / 10, PerPage: 10}},
		{"page out of range", "99999999999999999999", "10", Params{Page: math.MaxInt / 10, PerPage: 10}},
		{"negative out of range", "-99999999999999999999", "10", Params{Page: 1, PerPage: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.page, tt.perPage, 10, 100))
		})
	}
}

func TestOffset(t *testing.T) {
	p := New(2, 1, 10, 100)
	assert.Equal(t, 1, p.Offset())
	assert.Equal(t, 1, p.Limit())
	assert.Equal(t, 40, New(3, 20, 10, 100).Offset())
}

func TestResult(t *testing.T) {
	r := New(2, 1, 10, 100).Result(2)
	assert.Equal(t, 2, r.Pages())
	assert.False(t, r.HasNext())
	assert.True(t, r.HasPrev())
	assert.Equal(t, 1, r.PrevPage())

	r = New(1, 20, 20, 100).Result(41)
	assert.Equal(t, 3, r.Pages())
	assert.True(t, r.HasNext())
	assert.False(t, r.HasPrev())
	assert.Equal(t, 2, r.NextPage())

	empty := New(5, 10, 10, 100).Result(0)
	assert.Equal(t, 0, empty.Pages())
	assert.False(t, empty.HasNext())
	assert.True(t, empty.HasPrev())
}

func TestOffsetDoesNotOverflow(t *testing.T) {
	for _, perPage := range []string{"1", "7", "10", "100"} {
		p := Parse("922337203685477582", perPage, 10, 100)
		assert.GreaterOrEqual(t, p.Offset(), 0, perPage)

		r := p.Result(2)
		assert.False(t, r.HasNext())
		assert.True(t, r.HasPrev())
	}
}
