package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpec(t *testing.T) {
	input := []any{
		"A",
		nil,
		true,
		3,
		nil,
	}

	var (
		a   string
		b   bool
		c   int
		opt int
	)

	spec := Spec(4,
		Store(&a),
		nil,
		Store(&b),
		Store(&c),
		Optional(Store(&opt)),
	)
	assert.NoError(t, spec(input))
	assert.Equal(t, "A", a)
	assert.Equal(t, true, b)
	assert.Equal(t, 3, c)
	assert.Equal(t, 0, opt)
}

func TestSpec_NotEnough(t *testing.T) {
	var a string
	err := Spec(2, Store(&a))([]any{"A"})
	assert.ErrorIs(t, err, ErrNotEnough)
	assert.Empty(t, a, "No assertion should run")
}

func TestSpec_MissingOptional(t *testing.T) {
	var (
		a   string
		opt = -1
	)
	err := Spec(1, Store(&a), Optional(Store(&opt)))([]any{"A"})
	assert.NoError(t, err)
	assert.Equal(t, -1, opt)
}

func TestSpec_Errors(t *testing.T) {
	var (
		a string
		b int
	)
	err := Spec(0, Store(&a), Store(&b))([]any{1, "B"})
	assert.ErrorIs(t, err, ErrUnexpectedType)
	assert.Contains(t, err.Error(), "argument 0")
	assert.Contains(t, err.Error(), "argument 1")
}

func TestAnyPass(t *testing.T) {
	either := AnyPass(IsType[string](), IsType[int]())
	assert.NoError(t, either(0, "a"))
	assert.NoError(t, either(0, 1))
	assert.ErrorIs(t, either(0, 1.5), ErrUnexpectedType)
}

func TestAssertion_And(t *testing.T) {
	var s string
	positive := func(_ int, arg any) error {
		if len(arg.(string)) == 0 {
			return assert.AnError
		}
		return nil
	}
	check := IsType[string]().And(positive, Store(&s))
	assert.NoError(t, check(0, "value"))
	assert.Equal(t, "value", s)
	assert.ErrorIs(t, check(0, ""), assert.AnError)
	assert.ErrorIs(t, check(0, 5), ErrUnexpectedType)
}

func TestStore_NilTarget(t *testing.T) {
	assert.Error(t, Store[int](nil)(0, 5))
}

func TestMap(t *testing.T) {
	var user string
	assert.NoError(t, Map(&user, []any{"alice"}))
	assert.Equal(t, "alice", user)
	assert.ErrorIs(t, Map(&user, nil), ErrNotEnough)
}

func TestGet(t *testing.T) {
	input := []any{"a", 2, nil}
	s, ok := Get[string](input, 0)
	assert.True(t, ok)
	assert.Equal(t, "a", s)
	_, ok = Get[string](input, 1)
	assert.False(t, ok)
	_, ok = Get[int](input, 2)
	assert.False(t, ok)
	_, ok = Get[int](input, 5)
	assert.False(t, ok)
}
