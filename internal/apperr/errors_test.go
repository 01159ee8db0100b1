package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	notFound := New(KindNotFound, "NOT_FOUND", "thing not found")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "direct", err: notFound, want: KindNotFound},
		{name: "wrapped", err: fmt.Errorf("lookup: %w", notFound), want: KindNotFound},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "nil", err: nil, want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	a := New(KindValidation, "A", "same message")
	b := New(KindValidation, "B", "same message")

	wrapped := fmt.Errorf("context: %w", a)

	assert.True(t, errors.Is(wrapped, a))
	assert.False(t, errors.Is(wrapped, b))

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "A", got.Code)
	assert.Equal(t, "same message", got.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "forbidden", KindForbidden.String())
	assert.Equal(t, "internal", Kind(99).String())
}
