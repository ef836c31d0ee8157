package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := Unavailable("ranges query", context.DeadlineExceeded)
	assert.Equal(t, "[UNAVAILABLE] ranges query: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	nf := NotFound("brand", "Zara")
	assert.Equal(t, "[NOT_FOUND] brand not found: Zara", nf.Error())
	assert.Equal(t, "Zara", nf.Context["brand"])
}

func TestIsTypeThroughWrapping(t *testing.T) {
	inner := Query("insert range", stderrors.New("constraint violation"))
	outer := fmt.Errorf("import batch: %w", Import("commit", inner))

	assert.True(t, IsType(outer, TypeImport))
	assert.True(t, IsType(outer, TypeQuery))
	assert.False(t, IsType(outer, TypeUnavailable))
	assert.False(t, IsType(stderrors.New("plain"), TypeQuery))
	assert.Equal(t, TypeImport, TypeOf(outer))
	assert.Equal(t, Type(""), TypeOf(nil))
}

func TestSentinelMatching(t *testing.T) {
	sentinel := New(TypeInput, "")
	err := Input("measurement must be positive")

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, NotFound("garment", "tops"), sentinel)
}
