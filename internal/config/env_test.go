// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		envSet       bool
		defaultValue string
		want         string
	}{
		{"environment variable set", "from-env", true, "default", "from-env"},
		{"environment variable not set", "", false, "default", "default"},
		{"environment variable empty string", "", true, "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "TVSCHED_TEST_STRING"
			if tt.envSet {
				t.Setenv(key, tt.envValue)
			}
			assert.Equal(t, tt.want, ParseString(key, tt.defaultValue))
		})
	}
}

func TestParseString_SensitiveValueNotLogged(t *testing.T) {
	for _, key := range []string{"TVSCHED_OPENDATA_API_KEY", "TVSCHED_TOKEN", "TVSCHED_PASSWORD"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "s3cr3t-value")
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

			got := parseStringWithLogger(logger, key, "")

			assert.Equal(t, "s3cr3t-value", got)
			assert.NotContains(t, buf.String(), "s3cr3t-value")
			assert.Contains(t, buf.String(), `"sensitive":true`)
		})
	}
}

func TestParseInt(t *testing.T) {
	const key = "TVSCHED_TEST_INT"

	assert.Equal(t, 7, ParseInt(key, 7))

	t.Setenv(key, " 42 ")
	assert.Equal(t, 42, ParseInt(key, 7))

	t.Setenv(key, "forty-two")
	assert.Equal(t, 7, ParseInt(key, 7))
}

func TestParseDuration(t *testing.T) {
	const key = "TVSCHED_TEST_DURATION"

	t.Setenv(key, "45s")
	assert.Equal(t, 45*time.Second, ParseDuration(key, time.Second))

	t.Setenv(key, "45")
	assert.Equal(t, time.Second, ParseDuration(key, time.Second))
}

func TestParseBool(t *testing.T) {
	const key = "TVSCHED_TEST_BOOL"
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"YES", true},
		{"1", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"maybe", true}, // default
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(key, tt.value)
			assert.Equal(t, tt.want, ParseBool(key, true))
		})
	}
}

func TestParseFloat(t *testing.T) {
	const key = "TVSCHED_TEST_FLOAT"

	t.Setenv(key, "0.25")
	assert.InDelta(t, 0.25, ParseFloat(key, 1), 1e-9)

	t.Setenv(key, "quarter")
	assert.InDelta(t, 1.0, ParseFloat(key, 1), 1e-9)
}
