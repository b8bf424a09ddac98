package hls

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		is   func(error) bool
		code ErrorCode
	}{
		{
			name: "unsupported precision",
			err:  NewUnsupportedPrecisionKindError(DialectAP, 3.5),
			is:   IsUnsupportedPrecisionKind,
			code: ErrCodeUnsupportedPrecisionKind,
		},
		{
			name: "unsupported named type",
			err:  NewUnsupportedNamedTypeKindError("x"),
			is:   IsUnsupportedNamedTypeKind,
			code: ErrCodeUnsupportedNamedTypeKind,
		},
		{
			name: "missing context",
			err:  NewMissingContextError("layer_out", "struct name"),
			is:   IsMissingContext,
			code: ErrCodeMissingContext,
		},
		{
			name: "degenerate shape",
			err:  NewDegenerateShapeError("layer_out", "last dimension is zero"),
			is:   IsDegenerateShape,
			code: ErrCodeDegenerateShape,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.is(tc.err))
			assert.Equal(t, tc.code, CodeOf(tc.err))

			// Wrapped errors still match.
			wrapped := fmt.Errorf("build manifest: %w", tc.err)
			assert.True(t, tc.is(wrapped))
			assert.Equal(t, tc.code, CodeOf(wrapped))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewUnsupportedPrecisionKindError(DialectAC, 3.5)
	assert.Equal(t, "UNSUPPORTED_PRECISION_KIND: cannot convert precision type to AC (float64)", err.Error())

	err = NewMissingContextError("input_1", "struct name")
	assert.Equal(t, "MISSING_CONTEXT: struct name must be provided (input_1)", err.Error())

	plain := &Error{Code: ErrCodeDegenerateShape, Message: "empty shape"}
	assert.Equal(t, "DEGENERATE_SHAPE: empty shape", plain.Error())
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("boom")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.False(t, IsDegenerateShape(errors.New("boom")))
}
