package application

import (
	"bytes"

	"github.com/openark-net/githooks/pkg/hooks/domain"
)

// Status compares each installed hook against its source without writing
// anything.
func Status(fsys domain.FileSystem, layout domain.Layout) []domain.HookStatus {
	statuses := make([]domain.HookStatus, 0, len(domain.Hooks))

	for _, hook := range domain.Hooks {
		status := domain.HookStatus{Hook: hook}

		source, srcErr := fsys.ReadFile(layout.Source(hook))
		status.SourceExists = srcErr == nil

		info, err := fsys.Stat(layout.Target(hook))
		if err != nil || !info.Mode().IsRegular() {
			statuses = append(statuses, status)
			continue
		}
		status.Installed = true
		status.Executable = info.Mode().Perm()&domain.ExecutableBits == domain.ExecutableBits

		if status.SourceExists {
			target, err := fsys.ReadFile(layout.Target(hook))
			status.UpToDate = err == nil && bytes.Equal(source, target)
		}

		statuses = append(statuses, status)
	}

	return statuses
}

func AllHealthy(statuses []domain.HookStatus) bool {
	for _, s := range statuses {
		if !s.Healthy() {
			return false
		}
	}
	return true
}
