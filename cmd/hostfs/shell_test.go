package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wippyai/hostfs/errno"
)

func newTestShell(t *testing.T, allocator string) (*shell, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Root = dir
	cfg.Allocator = allocator

	root, cleanup, err := mount(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(cleanup)

	out := &bytes.Buffer{}
	return newShell(root, out), out, dir
}

func mustExec(t *testing.T, sh *shell, line string) {
	t.Helper()
	if err := sh.execLine(line); err != nil {
		t.Fatalf("%s: %v", line, err)
	}
}

func TestShellWriteCatAppend(t *testing.T) {
	sh, out, dir := newTestShell(t, "heap")

	mustExec(t, sh, "mkdir /docs")
	mustExec(t, sh, "write /docs/a.txt hello world")
	mustExec(t, sh, "append /docs/a.txt again")

	data, err := os.ReadFile(filepath.Join(dir, "docs", "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world\nagain\n" {
		t.Errorf("file content = %q", data)
	}

	out.Reset()
	mustExec(t, sh, "cat docs/../docs/a.txt")
	if out.String() != "hello world\nagain\n" {
		t.Errorf("cat = %q", out.String())
	}

	mustExec(t, sh, "write /docs/a.txt x")
	data, _ = os.ReadFile(filepath.Join(dir, "docs", "a.txt"))
	if string(data) != "x\n" {
		t.Errorf("write must truncate, got %q", data)
	}
}

func TestShellLsStat(t *testing.T) {
	sh, out, _ := newTestShell(t, "heap")
	mustExec(t, sh, "mkdir /b")
	mustExec(t, sh, "touch /a")

	out.Reset()
	mustExec(t, sh, "ls /")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("ls output:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[0], "-") || !strings.HasSuffix(lines[0], " a") {
		t.Errorf("unexpected file line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "d") || !strings.HasSuffix(lines[1], " b") {
		t.Errorf("unexpected dir line %q", lines[1])
	}

	out.Reset()
	mustExec(t, sh, "stat /a")
	if !strings.Contains(out.String(), "Size: 0") {
		t.Errorf("stat output:\n%s", out.String())
	}
}

func TestShellMoveRemove(t *testing.T) {
	sh, _, dir := newTestShell(t, "heap")
	mustExec(t, sh, "mkdir /d")
	mustExec(t, sh, "write /d/f data")
	mustExec(t, sh, "mv /d/f /g")

	if _, err := os.Stat(filepath.Join(dir, "g")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if err := sh.execLine("cat /d/f"); !errno.Is(err, errno.ENOENT) {
		t.Errorf("cat old name: %v", err)
	}

	mustExec(t, sh, "write /d/h x")
	if err := sh.execLine("rmdir /d"); err == nil {
		t.Error("rmdir of non-empty directory succeeded")
	}
	mustExec(t, sh, "rm /d/h")
	mustExec(t, sh, "rmdir /d")
	mustExec(t, sh, "rm /g")

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty mount, got %d entries", len(entries))
	}
}

func TestShellTruncateChmod(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("chmod is not supported on windows")
	}
	sh, _, dir := newTestShell(t, "heap")
	mustExec(t, sh, "write /f 0123456789")
	mustExec(t, sh, "truncate /f 3")
	mustExec(t, sh, "chmod 600 /f")

	info, err := os.Stat(filepath.Join(dir, "f"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 3 {
		t.Errorf("size = %d, want 3", info.Size())
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %o, want 600", info.Mode().Perm())
	}

	if err := sh.execLine("chmod 99 /f"); err == nil {
		t.Error("expected invalid mode error")
	}
}

func TestShellSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	sh, out, _ := newTestShell(t, "heap")
	mustExec(t, sh, "write /target x")
	mustExec(t, sh, "symlink target /link")

	out.Reset()
	mustExec(t, sh, "readlink /link")
	if out.String() != "target\n" {
		t.Errorf("readlink = %q", out.String())
	}
}

func TestShellMmap(t *testing.T) {
	for _, alloc := range []string{"heap", "linear"} {
		t.Run(alloc, func(t *testing.T) {
			sh, out, _ := newTestShell(t, alloc)
			mustExec(t, sh, "write /f abcdef")

			out.Reset()
			mustExec(t, sh, "mmap /f 2 3")
			if !strings.HasSuffix(out.String(), " \"cde\"\n") {
				t.Errorf("mmap output = %q", out.String())
			}
		})
	}
}

func TestShellErrors(t *testing.T) {
	sh, _, _ := newTestShell(t, "heap")

	if err := sh.execLine("frobnicate /"); err == nil {
		t.Error("unknown command accepted")
	}
	if err := sh.execLine("mv /a"); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("missing args: %v", err)
	}
	if err := sh.execLine("rm /"); !errno.Is(err, errno.EBUSY) {
		t.Errorf("rm /: %v", err)
	}
	if err := sh.execLine("ls /missing"); !errno.Is(err, errno.ENOENT) {
		t.Errorf("ls missing: %v", err)
	}
	if err := sh.execLine(""); err != nil {
		t.Errorf("empty line: %v", err)
	}
}

func TestFormatMode(t *testing.T) {
	tests := []struct {
		mode uint32
		want string
	}{
		{0o100644, "-rw-r--r--"},
		{0o040755, "drwxr-xr-x"},
		{0o120777, "lrwxrwxrwx"},
		{0o010600, "prw-------"},
	}
	for _, tt := range tests {
		if got := formatMode(tt.mode); got != tt.want {
			t.Errorf("formatMode(%o) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestInteractiveModelRunsCommands(t *testing.T) {
	sh, _, dir := newTestShell(t, "heap")
	cfg := config{Root: dir, Mountpoint: "/", Platform: "auto"}
	m := newInteractiveModel(sh, cfg)

	for _, r := range "mkdir /x" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if _, err := os.Stat(filepath.Join(dir, "x")); err != nil {
		t.Errorf("command not executed: %v", err)
	}
	if m.input.Value() != "" {
		t.Errorf("input not reset: %q", m.input.Value())
	}
	if len(m.history) != 1 || !strings.Contains(m.View(), "mkdir /x") {
		t.Errorf("history = %q", m.history)
	}

	m.input.SetValue("cat /x")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Error:") {
		t.Errorf("expected error in view:\n%s", m.View())
	}

	m.input.SetValue("exit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("exit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit did not quit")
	}
}
