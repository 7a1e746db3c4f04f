package validate_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/validate"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("numeric rules", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("gt=0,le=100,multiple_of=5")
		require.NoError(t, err)
		require.NotNil(t, rules.Gt)
		require.NotNil(t, rules.Le)
		require.NotNil(t, rules.MultipleOf)
		assert.True(t, rules.Gt.Equal(decimal.NewFromInt(0)))
		assert.True(t, rules.Le.Equal(decimal.NewFromInt(100)))
		assert.True(t, rules.MultipleOf.Equal(decimal.NewFromInt(5)))
		assert.Nil(t, rules.Ge)
		assert.Nil(t, rules.Lt)
	})

	t.Run("length and pattern rules", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("min_len=3,max_len=64,pattern=^[a-z]+$")
		require.NoError(t, err)
		require.NotNil(t, rules.MinLen)
		require.NotNil(t, rules.MaxLen)
		require.NotNil(t, rules.Pattern)
		assert.Equal(t, 3, *rules.MinLen)
		assert.Equal(t, 64, *rules.MaxLen)
		assert.Equal(t, "^[a-z]+$", rules.Pattern.String())
	})

	t.Run("pattern may contain commas when last", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("min_len=2,pattern=^[a-z]{2,5}$")
		require.NoError(t, err)
		require.NotNil(t, rules.Pattern)
		assert.Equal(t, "^[a-z]{2,5}$", rules.Pattern.String())
	})

	t.Run("decimal precision rules", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("max_digits=6,decimal_places=2")
		require.NoError(t, err)
		require.NotNil(t, rules.MaxDigits)
		require.NotNil(t, rules.MaxPlaces)
		assert.Equal(t, 6, *rules.MaxDigits)
		assert.Equal(t, 2, *rules.MaxPlaces)
	})

	t.Run("fractional bounds", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("ge=0.5,lt=99.99")
		require.NoError(t, err)
		require.NotNil(t, rules.Ge)
		require.NotNil(t, rules.Lt)
		assert.Equal(t, "0.5", rules.Ge.String())
	})

	t.Run("empty tag", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("")
		require.NoError(t, err)
		assert.True(t, rules.IsZero())
	})

	t.Run("unknown rule", func(t *testing.T) {
		t.Parallel()

		_, err := validate.Parse("between=1:10")
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalidRule)
	})

	t.Run("rule without value", func(t *testing.T) {
		t.Parallel()

		_, err := validate.Parse("gt")
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalidRule)
	})

	t.Run("non numeric bound", func(t *testing.T) {
		t.Parallel()

		_, err := validate.Parse("gt=abc")
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalidRule)
	})

	t.Run("negative length", func(t *testing.T) {
		t.Parallel()

		_, err := validate.Parse("min_len=-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalidRule)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()

		_, err := validate.Parse("pattern=[unclosed")
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalidRule)
	})
}

func TestCheckRules(t *testing.T) {
	t.Parallel()

	t.Run("numeric rule on string field", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("gt=0")
		require.NoError(t, err)
		err = validate.CheckRules(rules, reflect.TypeFor[string]())
		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalidRule)
	})

	t.Run("pattern on int field", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("pattern=^a+$")
		require.NoError(t, err)
		err = validate.CheckRules(rules, reflect.TypeFor[int]())
		require.Error(t, err)
	})

	t.Run("digit rules on float field", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("max_digits=5")
		require.NoError(t, err)
		err = validate.CheckRules(rules, reflect.TypeFor[float64]())
		require.Error(t, err)
	})

	t.Run("digit rules on decimal field", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("max_digits=5,decimal_places=2")
		require.NoError(t, err)
		assert.NoError(t, validate.CheckRules(rules, reflect.TypeFor[decimal.Decimal]()))
	})

	t.Run("length rules on slice field", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("min_len=1,max_len=10")
		require.NoError(t, err)
		assert.NoError(t, validate.CheckRules(rules, reflect.TypeFor[[]string]()))
	})

	t.Run("rules apply through pointers", func(t *testing.T) {
		t.Parallel()

		rules, err := validate.Parse("gt=0")
		require.NoError(t, err)
		assert.NoError(t, validate.CheckRules(rules, reflect.TypeFor[*int]()))
	})
}
