// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

func TestNew_Clamping(t *testing.T) {
	assert.Equal(t, pagination.Params{Page: 1, PerPage: 12}, pagination.New(0, 0))
	assert.Equal(t, pagination.Params{Page: 3, PerPage: 12}, pagination.New(3, 500))
	assert.Equal(t, pagination.Params{Page: 2, PerPage: 5}, pagination.New(2, 5))
}

func TestParams_Query(t *testing.T) {
	query := pagination.New(2, 12).Query()
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "12", query.Get("per_page"))
	assert.Equal(t, 3, pagination.New(2, 12).Next().Page)
}

func TestMoreAvailable(t *testing.T) {
	yes, no := true, false
	total := 17
	params := pagination.New(1, 12)

	tests := []struct {
		name        string
		meta        pagination.Meta
		received    int
		accumulated int
		want        bool
	}{
		{"full_page_heuristic", pagination.Meta{}, 12, 12, true},
		{"short_page_heuristic", pagination.Meta{}, 5, 17, false},
		{"empty_page_heuristic", pagination.Meta{}, 0, 24, false},
		{"explicit_has_more_false", pagination.Meta{HasMore: &no}, 12, 12, false},
		{"explicit_has_more_true", pagination.Meta{HasMore: &yes}, 3, 3, true},
		{"total_remaining", pagination.Meta{Total: &total}, 12, 12, true},
		{"total_reached", pagination.Meta{Total: &total}, 5, 17, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.MoreAvailable(tt.meta, params, tt.received, tt.accumulated))
		})
	}
}
