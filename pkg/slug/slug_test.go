// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/portfoliohub/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane-doe"},
		{"  Jane   Doe  ", "jane-doe"},
		{"Zoë O'Brien", "zoe-o-brien"},
		{"José Álvarez", "jose-alvarez"},
		{"R2-D2", "r2-d2"},
		{"--Jane__Doe--", "jane-doe"},
		{"山田太郎", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "jane-doe", slug.WithSuffix("jane-doe", 0))
	assert.Equal(t, "jane-doe-1", slug.WithSuffix("jane-doe", 1))
	assert.Equal(t, "jane-doe-49", slug.WithSuffix("jane-doe", 49))
	assert.Equal(t, "jane-doe-120", slug.WithSuffix("jane-doe", 120))
}
