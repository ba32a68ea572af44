package ir

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{Void, Bool, Int32, Int64, Float32, Float64} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}

func TestParseKindUnknown(t *testing.T) {
	_, err := ParseKind("complex128")
	require.Error(t, err)
	assert.True(t, IsUnsupportedType(err))
	assert.Equal(t, ErrCodeUnsupportedType, ErrorCode(err))
	assert.Contains(t, err.Error(), `"complex128"`)
}

func TestKindClassification(t *testing.T) {
	tests := []struct {
		kind    Kind
		numeric bool
		integer bool
		bits    int
	}{
		{Void, false, false, 0},
		{Bool, false, false, 1},
		{Int32, true, true, 32},
		{Int64, true, true, 64},
		{Float32, true, false, 32},
		{Float64, true, false, 64},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.numeric, tt.kind.IsNumeric())
			assert.Equal(t, tt.integer, tt.kind.IsInteger())
			assert.Equal(t, tt.bits, tt.kind.Bits())
		})
	}
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{&UnboundLabelError{Label: "l", ID: 1}, ErrCodeUnboundLabel},
		{&TypeMismatchError{Where: "add", Want: Int32, Got: Bool}, ErrCodeTypeMismatch},
		{&UnsupportedTypeError{Kind: Bool}, ErrCodeUnsupportedType},
		{&UndeclaredVariableError{Name: "x", ID: 2}, ErrCodeUndeclaredVariable},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			wrapped := fmt.Errorf("compile dot: %w", tt.err)
			assert.Equal(t, tt.code, ErrorCode(wrapped))
		})
	}
	assert.Empty(t, ErrorCode(errors.New("plain")))
}
