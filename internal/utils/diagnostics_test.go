package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystemWithWriters(level, &out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Error("broken %s", "thing")
	d.Warn("careful")
	d.Info("hello %d", 1)
	d.Success("done")
	d.Verbose("hidden")
	d.Debug("hidden too")

	assert.Equal(t, "[ERROR] broken thing\n", errOut.String())
	assert.Equal(t, "[WARN] careful\n[INFO] hello 1\n[SUCCESS] done\n", out.String())
}

func TestDiagnosticSystem_Silent(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticSilent)

	d.Error("nope")
	d.Info("nope")
	d.Section("nope")
	d.Summary("nope", map[string]interface{}{"a": 1})

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestDiagnosticSystem_QuietShowsOnlyErrors(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticError)

	d.Warn("skipped")
	d.Error("shown")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "shown")
}

func TestDiagnosticSystem_DebugShowsEverything(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticDebug)

	d.Verbose("v")
	d.Debug("d")

	assert.Equal(t, "[VERBOSE] v\n[DEBUG] d\n", out.String())
}

func TestDiagnosticSystem_Indent(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Indent()
	d.Info("nested")
	d.List("item")
	d.Unindent()
	d.Unindent()
	d.Info("top")

	assert.Equal(t, "  [INFO] nested\n  - item\n[INFO] top\n", out.String())
}

func TestDiagnosticSystem_SummarySortsKeys(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Summary("Generated", map[string]interface{}{"models": 3, "controllers": 2})

	assert.Equal(t, "\nGenerated\n   controllers: 2\n   models: 3\n\n", out.String())
}

func TestDiagnosticSystem_Phases(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.PhaseHeader("Routes")
	d.PhaseItem("Built 2 models")
	d.PhaseProgress("Writing build/routes.ts")
	d.PhaseProgress("Resolved 1 controller")

	assert.Equal(t, "Routes:\n✓ Built 2 models\n✏ Writing build/routes.ts\n- Resolved 1 controller\n", out.String())
}

func TestDiagnosticSystem_Colors(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.SetColors(true)

	d.Info("colored")

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "[INFO]")
}

func TestShouldUseColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, shouldUseColors())

	t.Setenv("NO_COLOR", "")
	assert.True(t, shouldUseColors())

	t.Setenv("FORCE_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, shouldUseColors())

	t.Setenv("TERM", "xterm-256color")
	assert.True(t, shouldUseColors())
}
