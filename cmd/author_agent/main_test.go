package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["resolve"])
	assert.True(t, names["site"])
}

func TestResolveFlags(t *testing.T) {
	flag := resolveCmd.Flags().Lookup("book")
	require.NotNil(t, flag)
	assert.Equal(t, "b", flag.Shorthand)

	flag = resolveCmd.Flags().Lookup("allow-estate-sites")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestSiteFlags(t *testing.T) {
	flag := siteCmd.Flags().Lookup("min-confidence")
	require.NotNil(t, flag)
	assert.Equal(t, "0.55", flag.DefValue)

	require.NotNil(t, siteCmd.Flags().Lookup("unsafe-disable-domain-filters"))
}
