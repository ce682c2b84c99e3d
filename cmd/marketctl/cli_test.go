package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAt(t *testing.T) {
	t.Run("empty is now", func(t *testing.T) {
		got, err := parseAt("")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), got, time.Second)
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := parseAt("2026-10-16T08:15:00+05:30")
		require.NoError(t, err)
		assert.Equal(t, 8, got.Hour())
	})

	t.Run("clock time today", func(t *testing.T) {
		got, err := parseAt("19:45")
		require.NoError(t, err)
		assert.Equal(t, 19, got.Hour())
		assert.Equal(t, 45, got.Minute())
		assert.Equal(t, time.Now().Day(), got.Day())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := parseAt("dinner")
		assert.Error(t, err)
	})
}

func TestModulePtr(t *testing.T) {
	t.Cleanup(func() { moduleID = -1 })

	moduleID = -1
	assert.Nil(t, modulePtr())

	moduleID = 3
	require.NotNil(t, modulePtr())
	assert.Equal(t, 3, *modulePtr())
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"expand", "recommend", "learn-correction", "record-interaction", "interactions", "record-feedback", "recompute-similarity"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := map[string]bool{}
	for _, c := range recommendCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"personalized", "similar", "bundle", "trending", "contextual"} {
		assert.True(t, sub[want], "missing recommend subcommand %s", want)
	}
}
