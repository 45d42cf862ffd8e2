package crate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crate"
)

func TestUnsupportedFeatureError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := crate.NewUnsupportedFeatureError("multidimensional arrays")
		assert.Equal(t, "crate: multidimensional arrays is not supported", err.Error())
	})

	t.Run("VersionGated", func(t *testing.T) {
		err := crate.NewVersionGatedError("INSERT INTO ... SELECT without parentheses", "1.0.1")
		assert.Equal(t, "crate: INSERT INTO ... SELECT without parentheses requires server version >= 1.0.1", err.Error())
		assert.Equal(t, "1.0.1", err.MinVersion)
	})

	t.Run("Is", func(t *testing.T) {
		err := crate.NewUnsupportedFeatureError("empty inserts")
		assert.True(t, errors.Is(err, crate.ErrUnsupportedFeature))
	})

	t.Run("IsUnsupportedFeature", func(t *testing.T) {
		err := crate.NewUnsupportedFeatureError("in-place multirow inserts")
		assert.True(t, crate.IsUnsupportedFeature(err))

		wrapped := fmt.Errorf("compile insert: %w", err)
		assert.True(t, crate.IsUnsupportedFeature(wrapped))

		assert.True(t, crate.IsUnsupportedFeature(crate.ErrUnsupportedFeature))
		assert.False(t, crate.IsUnsupportedFeature(errors.New("other error")))
		assert.False(t, crate.IsUnsupportedFeature(nil))
	})
}

func TestConfigurationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := crate.NewConfigurationError("statement has no parameter source")
		assert.Equal(t, "crate: statement has no parameter source", err.Error())
	})

	t.Run("UnconsumedColumns", func(t *testing.T) {
		err := crate.NewUnconsumedColumnsError([]string{"a", "b"})
		assert.Equal(t, "crate: unconsumed column names: a, b", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := crate.NewUnconsumedColumnsError([]string{"x"})
		assert.True(t, errors.Is(err, crate.ErrConfiguration))
	})

	t.Run("IsConfigurationError", func(t *testing.T) {
		err := crate.NewConfigurationError("bad statement")
		assert.True(t, crate.IsConfigurationError(err))

		wrapped := fmt.Errorf("compile update: %w", err)
		assert.True(t, crate.IsConfigurationError(wrapped))

		assert.False(t, crate.IsConfigurationError(errors.New("other error")))
		assert.False(t, crate.IsConfigurationError(nil))
	})
}

func TestMissingRequiredValueError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := crate.NewMissingRequiredValueError("name")
		assert.Equal(t, `crate: missing required value for column "name"`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := crate.NewMissingRequiredValueError("id")
		assert.True(t, errors.Is(err, crate.ErrMissingRequiredValue))
	})

	t.Run("IsMissingRequiredValue", func(t *testing.T) {
		err := crate.NewMissingRequiredValueError("id")
		assert.True(t, crate.IsMissingRequiredValue(err))

		wrapped := fmt.Errorf("compile insert: %w", err)
		assert.True(t, crate.IsMissingRequiredValue(wrapped))

		assert.False(t, crate.IsMissingRequiredValue(errors.New("other error")))
		assert.False(t, crate.IsMissingRequiredValue(nil))
	})
}

func TestErrorClassesAreDistinct(t *testing.T) {
	unsupported := crate.NewUnsupportedFeatureError("feature")
	config := crate.NewConfigurationError("config")
	missing := crate.NewMissingRequiredValueError("col")

	assert.False(t, crate.IsConfigurationError(unsupported))
	assert.False(t, crate.IsMissingRequiredValue(unsupported))
	assert.False(t, crate.IsUnsupportedFeature(config))
	assert.False(t, crate.IsMissingRequiredValue(config))
	assert.False(t, crate.IsUnsupportedFeature(missing))
	assert.False(t, crate.IsConfigurationError(missing))
}
