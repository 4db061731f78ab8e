package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "mainnet", cfg.Network)
	require.Equal(t, "~/.pledgectl", cfg.DataDir)
	require.Equal(t, "info", cfg.DebugLevel)
	require.Empty(t, cfg.ConfigFile)
}

func TestLoadAppliesFlags(t *testing.T) {
	cfg, rest, err := Load([]string{"--network", "testnet", "--debuglevel", "debug"})
	require.NoError(t, err)
	require.Equal(t, "testnet", cfg.Network)
	require.Equal(t, "debug", cfg.DebugLevel)
	require.Empty(t, rest)
}

func TestLoadRejectsUnknownNetworkChoice(t *testing.T) {
	_, _, err := Load([]string{"--network", "notanetwork"})
	require.Error(t, err)
}

func TestLoadPassesThroughSubcommandArgs(t *testing.T) {
	cfg, rest, err := Load([]string{"--network", "simnet", "project", "create", "--title", "Roof"})
	require.NoError(t, err)
	require.Equal(t, "simnet", cfg.Network)
	require.Equal(t, []string{"project", "create", "--title", "Roof"}, rest)
}

func TestResolveNetwork(t *testing.T) {
	cfg := Default()
	cfg.Network = "simnet"
	net, err := cfg.ResolveNetwork()
	require.NoError(t, err)
	require.EqualValues(t, "simnet", net)

	cfg.Network = "bogus"
	_, err = cfg.ResolveNetwork()
	require.Error(t, err)
}

func TestExpandDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "~/.pledgectl"
	expanded := cfg.ExpandDataDir()
	require.NotEqual(t, "~/.pledgectl", expanded)
	require.Contains(t, expanded, "/.pledgectl")

	cfg.DataDir = "/var/lib/pledgectl"
	require.Equal(t, "/var/lib/pledgectl", cfg.ExpandDataDir())
}
