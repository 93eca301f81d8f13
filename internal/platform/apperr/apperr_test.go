// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
)

/*
TestAs_WrappedChain verifies AppErrors are found through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	base := apperr.Upstream(http.StatusForbidden, "Not allowed", nil)
	wrapped := fmt.Errorf("edit comment: %w", base)

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeUpstream, ae.Code)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeUpstream))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
}

/*
TestUnreachable_KeepsCause checks the transport cause is hidden but unwrappable.
*/
func TestUnreachable_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperr.Unreachable(cause)

	assert.NotContains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
}

/*
TestAs_PlainError returns nil for errors outside the framework.
*/
func TestAs_PlainError(t *testing.T) {
	assert.Nil(t, apperr.As(errors.New("boom")))
	assert.False(t, apperr.IsAppError(errors.New("boom")))
	assert.True(t, apperr.IsAppError(apperr.Busy("Comment submission")))
}
