package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtendExpiry(t *testing.T) {
	now := int64(1_700_000_000)
	day := int64(24 * 3600)

	t.Run("no previous expiry starts from now", func(t *testing.T) {
		assert.Equal(t, now+30*day, ExtendExpiry(nil, now, 30))
	})

	t.Run("unexpired time stacks", func(t *testing.T) {
		current := now + 10*day
		assert.Equal(t, now+40*day, ExtendExpiry(&current, now, 30))
	})

	t.Run("expired time does not subtract", func(t *testing.T) {
		current := now - 90*day
		assert.Equal(t, now+30*day, ExtendExpiry(&current, now, 30))
	})
}

func TestFormatRFC3339UTC(t *testing.T) {
	assert.Equal(t, "", FormatRFC3339UTC(0))
	assert.Equal(t, "2023-11-14T22:13:20Z", FormatRFC3339UTC(1_700_000_000))
}
