package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saylorsolutions/hooter/cli"
)

func writePlan(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func execTool(t *testing.T, argv ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	err := newTool(&out, &logs).Exec(context.Background(), argv)
	return out.String(), logs.String(), err
}

func TestResolve(t *testing.T) {
	path := writePlan(t, storePlan)
	out, _, err := execTool(t, "resolve", "--plan", path, "--event", "*")
	require.NoError(t, err)
	assert.Equal(t, "1\tB start foo\tfoo\tstart\tdefault\n"+
		"2\tA foo\tfoo\tnormal\tdefault\n"+
		"3\tB bar\tbar\tnormal\tdefault\n"+
		"4\tA baz\tbaz\tnormal\tdefault\n", out)
}

func TestResolve_Explain(t *testing.T) {
	path := writePlan(t, firePlan)
	out, _, err := execTool(t, "r", "-p", path, "--event", "app.start", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "1\tvalidate\tapp.start\tnormal\tpre\n")
	assert.Contains(t, out, "constraints\n")
	assert.Contains(t, out, "\tdb\tbefore\tserver\n")
	assert.Contains(t, out, "\tserver\tbefore\tlog\n")
}

func TestResolve_UsageErrors(t *testing.T) {
	path := writePlan(t, storePlan)
	tests := map[string][]string{
		"Missing event": {"resolve", "--plan", path},
		"Invalid event": {"resolve", "--plan", path, "--event", "a..b"},
		"Bad log level": {"resolve", "--plan", path, "--event", "foo", "--log-level", "loud"},
	}
	for name, argv := range tests {
		t.Run(name, func(t *testing.T) {
			out, _, err := execTool(t, argv...)
			var usageErr *cli.UsageError
			assert.ErrorAs(t, err, &usageErr)
			assert.Contains(t, out, "USAGE:")
		})
	}
}

func TestResolve_MissingPlan(t *testing.T) {
	_, _, err := execTool(t, "resolve", "--plan", filepath.Join(t.TempDir(), "nope.yaml"), "--event", "foo")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheck(t *testing.T) {
	out, _, err := execTool(t, "check", "--plan", writePlan(t, firePlan))
	require.NoError(t, err)
	assert.Equal(t, "1\tok\tapp.start\t4 handlers\n2\tok\tapp.*\t4 handlers\n", out)

	cyclic := writePlan(t, `
handlers:
  - {name: A, key: foo, tags: [a], before: [b]}
  - {name: B, key: foo, tags: [b], before: [a]}
  - {name: C, key: bar}
`)
	out, _, err = execTool(t, "check", "--plan", cyclic)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, out, "FAIL\tfoo\t")
	assert.Contains(t, out, "unresolvable ordering")
	assert.Contains(t, out, "ok\tbar\t1 handlers")
}

func TestFire(t *testing.T) {
	path := writePlan(t, firePlan)
	out, _, err := execTool(t, "fire", "--plan", path, "--event", "app.start", "hello")
	require.NoError(t, err)
	assert.Equal(t, "1\tvalidate\tapp.start\t(hello)\n"+
		"2\tdb\tapp.start\t(hello)\n"+
		"3\tserver\tapp.start\t(hello)\n"+
		"4\tlog\tapp.*\t(<nil>)\n"+
		"result: log\n", out)

	out, _, err = execTool(t, "fire", "--plan", path, "--event", "app.start")
	assert.Error(t, err)
	assert.NotContains(t, out, "result:")
}

func TestFire_Logging(t *testing.T) {
	path := writePlan(t, firePlan)
	logFile := filepath.Join(t.TempDir(), "hootorder.log")
	_, logs, err := execTool(t, "fire", "--plan", path, "--event", "app.start", "-v", "--log-file", logFile, "x")
	require.NoError(t, err)
	assert.Contains(t, logs, "Loaded plan")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Loaded plan"`)
	assert.Contains(t, string(data), `"msg":"Dispatching event"`)
}

func TestFire_Env(t *testing.T) {
	t.Setenv(envPlan, writePlan(t, firePlan))
	t.Setenv(envLogLevel, "error")
	out, logs, err := execTool(t, "fire", "--event", "app.start", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "result: log")
	assert.Empty(t, logs)
}
