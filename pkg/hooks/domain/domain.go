package domain

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

type HookName string

const (
	PreCommit HookName = "pre-commit"
	PrePush   HookName = "pre-push"
)

// Hooks is the fixed install set, in install order.
var Hooks = []HookName{PreCommit, PrePush}

const (
	SourceDirName = ".githooks"
	GitDirName    = ".git"
	HooksDirName  = "hooks"
)

var (
	ErrNotGitRepo       = errors.New("not a git repository")
	ErrGitNotFound      = errors.New("git executable not found")
	ErrSourceDirMissing = errors.New(".githooks directory not found")
	ErrHookMissing      = errors.New("hook not found")
	ErrHookNotRegular   = errors.New("hook is not a regular file")
)

// IsEnvironmentError reports whether err means the repository root could
// not be resolved at all.
func IsEnvironmentError(err error) bool {
	return errors.Is(err, ErrNotGitRepo) || errors.Is(err, ErrGitNotFound)
}

type Layout struct {
	Root      string
	SourceDir string
	TargetDir string
}

func NewLayout(root string) Layout {
	return Layout{
		Root:      root,
		SourceDir: filepath.Join(root, SourceDirName),
		TargetDir: filepath.Join(root, GitDirName, HooksDirName),
	}
}

func (l Layout) Source(hook HookName) string {
	return filepath.Join(l.SourceDir, string(hook))
}

func (l Layout) Target(hook HookName) string {
	return filepath.Join(l.TargetDir, string(hook))
}

type HookFailure struct {
	Hook HookName
	Path string
	Err  error
}

func (f HookFailure) Error() string {
	return string(f.Hook) + ": " + f.Err.Error()
}

func (f HookFailure) Unwrap() error {
	return f.Err
}

type InstallResult struct {
	Installed []HookName
	Failures  []HookFailure
}

func (r InstallResult) Failed() int {
	return len(r.Failures)
}

func (r InstallResult) OK() bool {
	return len(r.Failures) == 0
}

// ExecutableBits are the owner, group and other execute permissions.
const ExecutableBits fs.FileMode = 0o111

type HookStatus struct {
	Hook         HookName `yaml:"hook"`
	SourceExists bool     `yaml:"source_exists"`
	Installed    bool     `yaml:"installed"`
	UpToDate     bool     `yaml:"up_to_date"`
	Executable   bool     `yaml:"executable"`
}

func (s HookStatus) Healthy() bool {
	return s.Installed && s.UpToDate && s.Executable
}

type Command struct {
	Name       string
	Args       []string
	WorkingDir string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type CommandState int

const (
	Completed CommandState = iota
	Failed
)

type CommandResult struct {
	Command  Command
	State    CommandState
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set when the command could not be started or was cancelled.
	Err error
}

type CommandRunner interface {
	Run(ctx context.Context, cmd Command) CommandResult
}

type RepoLocator interface {
	RepoRoot(ctx context.Context) (string, error)
}

type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	AddMode(path string, bits fs.FileMode) error
	ReadFile(path string) ([]byte, error)
}

type Event interface {
	sealed()
}

type HookInstalled struct {
	Hook   HookName
	Target string
}

func (HookInstalled) sealed() {}

type HookFailed struct {
	Failure HookFailure
}

func (HookFailed) sealed() {}
