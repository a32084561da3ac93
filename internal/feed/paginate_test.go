package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate_PartitionsSource(t *testing.T) {
	for size := 1; size <= 12; size++ {
		for count := 0; count <= 40; count++ {
			t.Run(fmt.Sprintf("size=%d/count=%d", size, count), func(t *testing.T) {
				first := Paginate(count, size, 1)
				wantPages := (count + size - 1) / size
				if wantPages == 0 {
					wantPages = 1
				}
				require.Equal(t, wantPages, first.NumPages)

				seen := make([]int, count)
				for n := 1; n <= first.NumPages; n++ {
					p := Paginate(count, size, n)
					require.Equal(t, n, p.Number)
					if n < p.NumPages {
						assert.Equal(t, size, p.Limit)
					} else {
						assert.Equal(t, count-size*(p.NumPages-1), p.Limit)
					}
					for i := p.Offset; i < p.Offset+p.Limit; i++ {
						seen[i]++
					}
				}
				for i, hits := range seen {
					assert.Equal(t, 1, hits, "item %d", i)
				}
			})
		}
	}
}

func TestPaginate_ClampsRequestedPage(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{4, 3},
		{1000, 3},
	}
	for _, tc := range cases {
		p := Paginate(25, 10, tc.requested)
		assert.Equal(t, tc.want, p.Number, "requested %d", tc.requested)
	}

	last := Paginate(25, 10, 99)
	assert.Equal(t, 20, last.Offset)
	assert.Equal(t, 5, last.Limit)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
	assert.Equal(t, 2, last.Previous())

	first := Paginate(25, 10, 1)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.Next())
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(0, 10, 3)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.NumPages)
	assert.Zero(t, p.Limit)
	assert.False(t, p.HasOther())
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("2.5"))
	assert.Equal(t, 2, ParsePage("2"))
	assert.Equal(t, 7, ParsePage(" 7 "))
	assert.Equal(t, -1, ParsePage("-1"))
	assert.Equal(t, 1, Paginate(5, 10, ParsePage("-1")).Number)
}
