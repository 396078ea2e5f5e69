// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfoliohub/pkg/uuid"
)

func TestNew_IsVersion7(t *testing.T) {
	id := uuid.New()

	parsed, err := googleuuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, uuid.New())
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid(uuid.New()))
	assert.True(t, uuid.Valid("0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a"))
	assert.False(t, uuid.Valid(""))
	assert.False(t, uuid.Valid("not-a-uuid"))
	assert.False(t, uuid.Valid("{0190f3a4-7b1c-7cc2-9a55-0b8c4f0e1d2a}"))
	assert.False(t, uuid.Valid("0190f3a47b1c7cc29a550b8c4f0e1d2a"))
}
