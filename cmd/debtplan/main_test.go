package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debtfree/debtfree-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.toml")
	_, err := run(t, "init", path)
	require.NoError(t, err)
	return path
}

func TestInitThenSimulate(t *testing.T) {
	path := writePlan(t)

	out, err := run(t, "simulate", "-s", path, "--timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "PAYOFF PLAN")
	assert.Contains(t, out, "Payoff order")
	assert.Contains(t, out, "Balance over time")
}

func TestSimulateJSONWithOverrides(t *testing.T) {
	path := writePlan(t)

	out, err := run(t, "simulate", "-s", path, "--json", "--strategy", "snowball", "--extra", "250", "--horizon", "240")
	require.NoError(t, err)

	var resp domain.SimulationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "snowball", resp.Strategy)
	assert.Equal(t, "flat_extra", resp.Policy)
	assert.NotEmpty(t, resp.Timeline)
	// snowball retires the smallest balance first
	assert.Equal(t, "Hospital", resp.Events[0].Debt)
}

func TestOtherCommands(t *testing.T) {
	path := writePlan(t)

	cases := map[string]string{
		"compare":     "Recommended:",
		"scenarios":   "aggressive",
		"sensitivity": "What if you pay extra?",
		"summary":     "Freedom score",
	}
	for command, want := range cases {
		out, err := run(t, command, "-s", path)
		require.NoError(t, err, command)
		assert.Contains(t, out, want, command)
	}
}

func TestSensitivityExtrasFlag(t *testing.T) {
	path := writePlan(t)

	out, err := run(t, "sensitivity", "-s", path, "--json", "--extras", "100,400")
	require.NoError(t, err)

	var resp domain.SensitivityResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, 400.0, resp.Rows[1].Extra)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "simulate", "-s", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := writePlan(t)
	_, err = run(t, "simulate", "-s", path, "--strategy", "sideways")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "strategy"))

	_, err = run(t, "init", path)
	assert.ErrorContains(t, err, "already exists")
}
