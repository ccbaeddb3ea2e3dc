package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// TestCLIScripts drives the built tg binary through testdata/script/*.txt
// scenarios, the same rsc.io/script harness the pack uses for CLI
// regression coverage, here exercising single-process scenarios instead
// of a baseline/candidate diff.
func TestCLIScripts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script tests assume a unix shell environment")
	}
	bin := buildTG(t)

	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	ctx := context.Background()
	env := []string{
		"PATH=" + filepath.Dir(bin) + string(os.PathListSeparator) + os.Getenv("PATH"),
		"HOME=" + t.TempDir(),
	}
	scripttest.Test(t, ctx, engine, env, "testdata/script/*.txt")
}

func buildTG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "tg")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("building tg: %v\n%s", err, out)
	}
	return bin
}
