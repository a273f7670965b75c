package pressroom

import (
	"testing"
	"time"

	"github.com/nasermirzaei89/pressroom/clients"
	"github.com/stretchr/testify/assert"
)

func TestGetIntFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "unset", value: "", expected: 7},
		{name: "valid", value: "42", expected: 42},
		{name: "not a number", value: "lots", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PRESSROOM_TEST_INT", tt.value)

			assert.Equal(t, tt.expected, getIntFromEnv("PRESSROOM_TEST_INT", 7))
		})
	}
}

func TestGetDurationFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "unset", value: "", expected: time.Second},
		{name: "valid", value: "1m30s", expected: 90 * time.Second},
		{name: "bare number", value: "30", expected: time.Second},
		{name: "negative", value: "-5s", expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PRESSROOM_TEST_DURATION", tt.value)

			assert.Equal(t, tt.expected, getDurationFromEnv("PRESSROOM_TEST_DURATION", time.Second))
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	t.Setenv("HTTP_CLIENT_TIMEOUT", "")
	assert.Equal(t, clients.DefaultTimeout, newHTTPClient().Timeout)

	t.Setenv("HTTP_CLIENT_TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, newHTTPClient().Timeout)
}
