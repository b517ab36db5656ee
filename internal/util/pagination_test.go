package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		page, size int
		want       Page
	}{
		{0, 0, Page{Number: 1, Size: DefaultPageSize, From: 0}},
		{-3, 20, Page{Number: 1, Size: 20, From: 0}},
		{3, 20, Page{Number: 3, Size: 20, From: 40}},
		{2, 500, Page{Number: 2, Size: DefaultPageSize, From: DefaultPageSize}},
		{1, MaxPageSize, Page{Number: 1, Size: MaxPageSize, From: 0}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Paginate(tc.page, tc.size))
	}
}
