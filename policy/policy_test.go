package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBehaviorRoundTrip(t *testing.T) {
	for _, name := range []string{"stack", "replace", "queue", "throttle", "debounce", "ignore", "extend"} {
		b, ok := ParseBehavior(name)
		assert.True(t, ok)
		assert.Equal(t, name, b.String())
	}
}

func TestParseBehaviorRejectsUnknown(t *testing.T) {
	_, ok := ParseBehavior("bounce")
	assert.False(t, ok)
}

func TestStackIsZeroValue(t *testing.T) {
	var b Behavior
	assert.Equal(t, Stack, b)
	assert.Equal(t, "stack", b.String())
}
