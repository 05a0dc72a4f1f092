package application_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/openark-net/githooks/pkg/hooks/application"
	"github.com/openark-net/githooks/pkg/hooks/domain"
	"github.com/openark-net/githooks/pkg/hooks/infrastructure/fsutil"
)

// recordingFS counts mutating calls made through it.
type recordingFS struct {
	fsutil.OS
	writes int
}

func (r *recordingFS) MkdirAll(path string, perm fs.FileMode) error {
	r.writes++
	return r.OS.MkdirAll(path, perm)
}

func (r *recordingFS) CopyFile(src, dst string) error {
	r.writes++
	return r.OS.CopyFile(src, dst)
}

func (r *recordingFS) AddMode(path string, bits fs.FileMode) error {
	r.writes++
	return r.OS.AddMode(path, bits)
}

func newRepo(t *testing.T, hooks map[domain.HookName]string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if hooks == nil {
		return root
	}
	if err := os.Mkdir(filepath.Join(root, ".githooks"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range hooks {
		if err := os.WriteFile(filepath.Join(root, ".githooks", string(name)), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func drain(events <-chan domain.Event) []domain.Event {
	var out []domain.Event
	for e := range events {
		out = append(out, e)
	}
	return out
}

func TestInstall_MissingSourceDirectory(t *testing.T) {
	root := newRepo(t, nil)
	rec := &recordingFS{}
	inst := application.New(rec)

	_, err := inst.Install(domain.NewLayout(root))
	if !errors.Is(err, domain.ErrSourceDirMissing) {
		t.Fatalf("err = %v, want ErrSourceDirMissing", err)
	}
	if rec.writes != 0 {
		t.Errorf("writes = %d, want 0", rec.writes)
	}
	if _, err := os.Stat(filepath.Join(root, ".git", "hooks")); !os.IsNotExist(err) {
		t.Errorf(".git/hooks should not be created, stat err = %v", err)
	}
}

func TestInstall_InstallsBothHooks(t *testing.T) {
	root := newRepo(t, map[domain.HookName]string{
		domain.PreCommit: "#!/bin/sh\necho pre-commit\n",
		domain.PrePush:   "#!/bin/sh\necho pre-push\n",
	})
	layout := domain.NewLayout(root)
	inst := application.New(fsutil.OS{})

	result, err := inst.Install(layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("failures = %v, want none", result.Failures)
	}
	if len(result.Installed) != 2 {
		t.Fatalf("installed = %v, want 2 hooks", result.Installed)
	}

	for _, hook := range domain.Hooks {
		assertInstalled(t, layout, hook)
	}

	events := drain(inst.Events())
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for i, e := range events {
		installed, ok := e.(domain.HookInstalled)
		if !ok {
			t.Fatalf("event %d = %T, want HookInstalled", i, e)
		}
		if installed.Hook != domain.Hooks[i] {
			t.Errorf("event %d hook = %s, want %s", i, installed.Hook, domain.Hooks[i])
		}
	}
}

func TestInstall_OneHookMissing(t *testing.T) {
	root := newRepo(t, map[domain.HookName]string{
		domain.PrePush: "#!/bin/sh\nexit 0\n",
	})
	layout := domain.NewLayout(root)
	inst := application.New(fsutil.OS{})

	result, err := inst.Install(layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed() != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed())
	}

	failure := result.Failures[0]
	if failure.Hook != domain.PreCommit {
		t.Errorf("failed hook = %s, want pre-commit", failure.Hook)
	}
	if !errors.Is(failure, domain.ErrHookMissing) {
		t.Errorf("failure = %v, want ErrHookMissing", failure)
	}
	if failure.Path != layout.Source(domain.PreCommit) {
		t.Errorf("failure path = %s, want %s", failure.Path, layout.Source(domain.PreCommit))
	}

	assertInstalled(t, layout, domain.PrePush)
	if _, err := os.Stat(layout.Target(domain.PreCommit)); !os.IsNotExist(err) {
		t.Errorf("pre-commit should not be installed, stat err = %v", err)
	}
}

func TestInstall_CreatesTargetDirectory(t *testing.T) {
	root := newRepo(t, map[domain.HookName]string{
		domain.PreCommit: "a",
		domain.PrePush:   "b",
	})
	if err := os.RemoveAll(filepath.Join(root, ".git")); err != nil {
		t.Fatal(err)
	}
	layout := domain.NewLayout(root)
	inst := application.New(fsutil.OS{})

	result, err := inst.Install(layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("failures = %v", result.Failures)
	}
	info, err := os.Stat(layout.TargetDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("target dir not created: %v", err)
	}
}

func TestInstall_Idempotent(t *testing.T) {
	root := newRepo(t, map[domain.HookName]string{
		domain.PreCommit: "#!/bin/sh\necho one\n",
		domain.PrePush:   "#!/bin/sh\necho two\n",
	})

	layout := domain.NewLayout(root)
	if _, err := application.New(fsutil.OS{}).Install(layout); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, layout)

	result, err := application.New(fsutil.OS{}).Install(layout)
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK() {
		t.Fatalf("failures = %v", result.Failures)
	}
	after := snapshot(t, layout)

	for hook, b := range before {
		a := after[hook]
		if a.content != b.content || a.mode != b.mode {
			t.Errorf("%s changed between runs: %+v -> %+v", hook, b, a)
		}
	}
}

func TestInstall_KeepsExistingPermissionBits(t *testing.T) {
	root := newRepo(t, map[domain.HookName]string{
		domain.PreCommit: "x",
		domain.PrePush:   "y",
	})
	src := filepath.Join(root, ".githooks", string(domain.PreCommit))
	if err := os.Chmod(src, 0640); err != nil {
		t.Fatal(err)
	}

	layout := domain.NewLayout(root)
	if _, err := application.New(fsutil.OS{}).Install(layout); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(layout.Target(domain.PreCommit))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0751 {
		t.Errorf("mode = %v, want 0751", info.Mode().Perm())
	}
}

func TestInstall_SourceIsDirectory(t *testing.T) {
	root := newRepo(t, map[domain.HookName]string{
		domain.PrePush: "y",
	})
	if err := os.Mkdir(filepath.Join(root, ".githooks", string(domain.PreCommit)), 0755); err != nil {
		t.Fatal(err)
	}

	layout := domain.NewLayout(root)
	result, err := application.New(fsutil.OS{}).Install(layout)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed() != 1 || !errors.Is(result.Failures[0], domain.ErrHookNotRegular) {
		t.Fatalf("failures = %v, want one ErrHookNotRegular", result.Failures)
	}
	assertInstalled(t, layout, domain.PrePush)
}

type fileState struct {
	content string
	mode    fs.FileMode
}

func snapshot(t *testing.T, layout domain.Layout) map[domain.HookName]fileState {
	t.Helper()
	out := make(map[domain.HookName]fileState)
	for _, hook := range domain.Hooks {
		data, err := os.ReadFile(layout.Target(hook))
		if err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(layout.Target(hook))
		if err != nil {
			t.Fatal(err)
		}
		out[hook] = fileState{content: string(data), mode: info.Mode()}
	}
	return out
}

func assertInstalled(t *testing.T, layout domain.Layout, hook domain.HookName) {
	t.Helper()
	want, err := os.ReadFile(layout.Source(hook))
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(layout.Target(hook))
	if err != nil {
		t.Fatalf("%s not installed: %v", hook, err)
	}
	if string(got) != string(want) {
		t.Errorf("%s content = %q, want %q", hook, got, want)
	}
	info, err := os.Stat(layout.Target(hook))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&domain.ExecutableBits != domain.ExecutableBits {
		t.Errorf("%s mode = %v, want owner/group/other execute", hook, info.Mode().Perm())
	}
}
