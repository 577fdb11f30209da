package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalize(t *testing.T) {
	cases := []struct {
		in         PageRequest
		page, lim  int
		wantOffset int
	}{
		{in: PageRequest{}, page: 1, lim: DefaultPageLimit, wantOffset: 0},
		{in: PageRequest{Page: -3, Limit: 500}, page: 1, lim: MaxPageLimit, wantOffset: 0},
		{in: PageRequest{Page: 3, Limit: 10}, page: 3, lim: 10, wantOffset: 20},
	}
	for _, tc := range cases {
		got := tc.in.Normalize()
		assert.Equal(t, tc.page, got.Page)
		assert.Equal(t, tc.lim, got.Limit)
		assert.Equal(t, tc.wantOffset, tc.in.Offset())
	}
}

func TestNewPagedTotals(t *testing.T) {
	p := newPaged([]int{1, 2}, PageRequest{Page: 2, Limit: 2}, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.Page)

	empty := newPaged[int](nil, PageRequest{}, 0)
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.TotalPages)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "walking-in-faith", Slugify("  Walking in Faith!! "))
	assert.Equal(t, "a-b", Slugify("a -- b"))
	assert.Equal(t, "", Slugify("!!!"))

	long := ""
	for i := 0; i < 30; i++ {
		long += "word "
	}
	assert.LessOrEqual(t, len(Slugify(long)), maxSlugBase)
	assert.NotEqual(t, '-', rune(Slugify(long)[len(Slugify(long))-1]))
}
