package application

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/openark-net/githooks/pkg/hooks/domain"
)

const targetDirPerm fs.FileMode = 0755

type Installer struct {
	fs       domain.FileSystem
	hooks    []domain.HookName
	eventsCh chan domain.Event
}

// New returns a single-use Installer; Install closes its event channel.
func New(fsys domain.FileSystem) *Installer {
	return &Installer{
		fs:       fsys,
		hooks:    domain.Hooks,
		eventsCh: make(chan domain.Event, 100),
	}
}

// Events is closed when Install returns.
func (i *Installer) Events() <-chan domain.Event {
	return i.eventsCh
}

// Install copies every hook from layout.SourceDir into layout.TargetDir and
// makes the copies executable. A missing source directory aborts before any
// write; per-hook problems are collected in the result.
func (i *Installer) Install(layout domain.Layout) (domain.InstallResult, error) {
	defer close(i.eventsCh)

	if _, err := i.fs.Stat(layout.SourceDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.InstallResult{}, fmt.Errorf("%w: expected %s", domain.ErrSourceDirMissing, layout.SourceDir)
		}
		return domain.InstallResult{}, fmt.Errorf("stat %s: %w", layout.SourceDir, err)
	}

	if err := i.fs.MkdirAll(layout.TargetDir, targetDirPerm); err != nil {
		return domain.InstallResult{}, fmt.Errorf("creating %s: %w", layout.TargetDir, err)
	}

	var result domain.InstallResult
	for _, hook := range i.hooks {
		if failure := i.installHook(layout, hook); failure != nil {
			result.Failures = append(result.Failures, *failure)
			i.eventsCh <- domain.HookFailed{Failure: *failure}
			continue
		}
		result.Installed = append(result.Installed, hook)
		i.eventsCh <- domain.HookInstalled{Hook: hook, Target: layout.Target(hook)}
	}

	return result, nil
}

func (i *Installer) installHook(layout domain.Layout, hook domain.HookName) *domain.HookFailure {
	source := layout.Source(hook)
	target := layout.Target(hook)

	if _, err := i.fs.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = domain.ErrHookMissing
		}
		return &domain.HookFailure{Hook: hook, Path: source, Err: err}
	}

	if err := i.fs.CopyFile(source, target); err != nil {
		return &domain.HookFailure{Hook: hook, Path: source, Err: err}
	}

	if err := i.fs.AddMode(target, domain.ExecutableBits); err != nil {
		return &domain.HookFailure{Hook: hook, Path: target, Err: fmt.Errorf("making executable: %w", err)}
	}

	return nil
}
