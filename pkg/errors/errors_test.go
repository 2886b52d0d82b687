package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("row missing")
	err := Wrap(CodeNotFound, cause, "booking lookup failed")

	require.Equal(t, CodeNotFound, err.Code())
	require.Equal(t, "booking lookup failed", err.Message())
	require.ErrorIs(t, err, cause)
}

func TestAsUnwrapsThroughFmtWrap(t *testing.T) {
	t.Parallel()

	inner := New(CodeStateConflict, "cannot cancel completed booking")
	wrapped := fmt.Errorf("service: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeStateConflict, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NO_SUCH_CODE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
	assert.True(t, meta.Retryable)
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "db ping")
	dump := Dump(err)

	assert.Equal(t, CodeDependency, dump.Code)
	assert.Len(t, dump.Chain, 2)
	assert.Contains(t, dump.TopMessage, "db ping")
}
