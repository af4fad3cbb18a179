// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/invowk/scriptrun/internal/process"
)

func TestRenderDryRun_AllSections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderDryRun(&buf, process.Command{
		Interpreter: "node",
		RuntimeArgs: []string{"--inspect", "--require", "ts-node/register"},
		Script:      "scripts/deploy.ts",
		ScriptArgs:  []string{"--gas", "10 gwei"},
		Dir:         "/work",
	}, map[string]string{"B": "2", "A": "1"})

	out := buf.String()
	for _, want := range []string{
		"Dry Run",
		"Interpreter:", "node",
		"Script:", "scripts/deploy.ts",
		"WorkDir:", "/work",
		"Runtime args:", "--inspect",
		"Script args:", "--gas",
		"Environment:",
		`node --inspect --require ts-node/register scripts/deploy.ts --gas "10 gwei"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "A=1") > strings.Index(out, "B=2") {
		t.Errorf("environment should be sorted:\n%s", out)
	}
}

func TestRenderDryRun_OmitsEmptySections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderDryRun(&buf, process.Command{Interpreter: "node", Script: "job.js"}, nil)

	out := buf.String()
	for _, absent := range []string{"WorkDir:", "Runtime args:", "Script args:", "Environment:"} {
		if strings.Contains(out, absent) {
			t.Errorf("output should not contain %q:\n%s", absent, out)
		}
	}
}

func TestCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		argv []string
		want string
	}{
		{[]string{"node", "a.js"}, "node a.js"},
		{[]string{"node", "a b.js"}, `node "a b.js"`},
		{[]string{"node", "a.js", ""}, `node a.js ""`},
	}
	for _, tt := range tests {
		if got := commandLine(tt.argv); got != tt.want {
			t.Errorf("commandLine(%q) = %q, want %q", tt.argv, got, tt.want)
		}
	}
}
