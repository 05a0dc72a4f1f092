package presenter

import (
	"errors"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/openark-net/githooks/pkg/hooks/domain"
)

type Presenter struct {
	out     io.Writer
	success *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	done    chan struct{}
}

func New(out io.Writer) *Presenter {
	return &Presenter{
		out: out,
		success: &pterm.PrefixPrinter{
			Prefix:       pterm.Prefix{Text: "✓", Style: pterm.NewStyle(pterm.FgGreen)},
			MessageStyle: pterm.NewStyle(pterm.FgDefault),
			Writer:       out,
		},
		failure: &pterm.PrefixPrinter{
			Prefix:       pterm.Prefix{Text: "ERROR", Style: pterm.NewStyle(pterm.FgRed, pterm.Bold)},
			MessageStyle: pterm.NewStyle(pterm.FgRed),
			Writer:       out,
		},
		warning: &pterm.PrefixPrinter{
			Prefix:       pterm.Prefix{Text: "WARN", Style: pterm.NewStyle(pterm.FgYellow, pterm.Bold)},
			MessageStyle: pterm.NewStyle(pterm.FgYellow),
			Writer:       out,
		},
		done: make(chan struct{}),
	}
}

func (p *Presenter) Banner() {
	pterm.Fprintln(p.out)
	pterm.DefaultBox.WithWriter(p.out).Println("Setting Up Git Hooks")
	pterm.Fprintln(p.out)
}

func (p *Presenter) Run(events <-chan domain.Event) {
	for event := range events {
		switch e := event.(type) {
		case domain.HookInstalled:
			p.success.Printfln("Installed: %s", e.Hook)
		case domain.HookFailed:
			p.hookFailed(e.Failure)
		}
	}
	close(p.done)
}

func (p *Presenter) Wait() {
	<-p.done
}

func (p *Presenter) hookFailed(f domain.HookFailure) {
	if errors.Is(f.Err, domain.ErrHookMissing) {
		p.failure.Printfln("Hook not found: %s", f.Path)
		return
	}
	p.failure.Printfln("Failed to install %s: %v", f.Hook, f.Err)
}

// Error prints a fatal diagnostic for err.
func (p *Presenter) Error(err error) {
	switch {
	case domain.IsEnvironmentError(err):
		p.failure.Println("Not in a git repository or git not installed")
	default:
		p.failure.Println(err.Error())
	}
}

func (p *Presenter) Warn(format string, args ...any) {
	p.warning.Printfln(format, args...)
}

func (p *Presenter) Summary(result domain.InstallResult) {
	pterm.Fprintln(p.out)

	if !result.OK() {
		p.failure.Printfln("Failed to install %d hook(s)", result.Failed())
		return
	}

	pterm.DefaultBox.WithWriter(p.out).Println(pterm.Green("✓ All git hooks installed successfully!"))
	pterm.Fprintln(p.out)
	pterm.Fprintln(p.out, "Installed hooks:")
	for _, hook := range result.Installed {
		pterm.Fprintln(p.out, "  •", string(hook))
	}
	pterm.Fprintln(p.out)
	pterm.Fprintln(p.out, "To skip hooks temporarily:")
	pterm.Fprintln(p.out, "  git commit --no-verify")
	pterm.Fprintln(p.out, "  git push --no-verify")
	pterm.Fprintln(p.out)
}

func (p *Presenter) StatusTable(layout domain.Layout, statuses []domain.HookStatus) error {
	pterm.Fprintln(p.out, pterm.Gray(fmt.Sprintf("%s -> %s", layout.SourceDir, layout.TargetDir)))

	data := pterm.TableData{{"Hook", "Source", "Installed", "Up to date", "Executable"}}
	for _, s := range statuses {
		data = append(data, []string{
			string(s.Hook),
			mark(s.SourceExists),
			mark(s.Installed),
			mark(s.UpToDate),
			mark(s.Executable),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(p.out).Render()
}

type statusReport struct {
	Root      string              `yaml:"root"`
	SourceDir string              `yaml:"source_dir"`
	TargetDir string              `yaml:"target_dir"`
	Hooks     []domain.HookStatus `yaml:"hooks"`
}

func (p *Presenter) StatusYAML(layout domain.Layout, statuses []domain.HookStatus) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	defer enc.Close()

	return enc.Encode(statusReport{
		Root:      layout.Root,
		SourceDir: layout.SourceDir,
		TargetDir: layout.TargetDir,
		Hooks:     statuses,
	})
}

func mark(ok bool) string {
	if ok {
		return pterm.Green("yes")
	}
	return pterm.Red("no")
}
