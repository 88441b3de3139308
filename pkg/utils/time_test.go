package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatTimeDuration(0.25))
	assert.Equal(t, "5s", FormatTimeDuration(5))
	assert.Equal(t, "2m 5s", FormatTimeDuration(125))
	assert.Equal(t, "1h 0m 1s", FormatTimeDuration(3601))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(-1))
	assert.Equal(t, "3 B", FormatFileSize(3))
	assert.Equal(t, "1.5 KiB", FormatFileSize(1536))
}
