package manager

import (
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/ohsu-comp-bio/yatamana/util/fsutil"
)

// makeRunner writes the runner script of t to a new executable file in
// the runner directory and returns its path.
func (m *Manager) makeRunner(t task.Task) (string, error) {
	template, err := m.conf.RunnerTemplate()
	if err != nil {
		m.log.Error("Can't write runner", err)
		return "", err
	}
	script, err := t.RenderRunner(template)
	if err != nil {
		return "", err
	}

	dir := m.conf.RunnerDir()
	if _, err := fsutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("creating runner directory: %w", err)
	}

	f, err := os.CreateTemp(dir, t.RunnerPrefix()+"-*.sh")
	if err != nil {
		return "", fmt.Errorf("creating runner: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(script); err != nil {
		return "", fmt.Errorf("writing runner: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing runner: %w", err)
	}
	if err := fsutil.MakeExecutable(f.Name()); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// appendFooter records when, where and how the runner was submitted.
func (m *Manager) appendFooter(runner string, cmd []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	footer := []string{
		"",
		"#",
		"# Created at " + m.now().Format("2006-01-02 15:04:05.000000"),
		"# In " + cwd,
		"# Command planned:",
		"# " + shellquote.Join(cmd...),
		"#",
	}

	f, err := os.OpenFile(runner, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.Join(footer, "\n")); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
