// proc.go — the process service behind EXECUTE, OUTPUT and SPAWN.
//
// Two failure shapes are kept apart on purpose: a program that ran and
// exited non-zero is a result (success=false), while a program that could
// not be started at all is an error, which the evaluator turns into Empty.
package findit

import (
	"bytes"
	"os"
	osexec "os/exec"
)

// Runner starts external programs.
type Runner interface {
	// Run waits for the program; success means exit code 0. A non-empty
	// redirect sends stdout to that file.
	Run(prog string, args []string, redirect string) (bool, error)
	// Output waits for the program and returns its captured stdout; err is
	// set both for spawn failures and non-zero exits.
	Output(prog string, args []string) (string, error)
	// Start launches the program detached and returns its pid.
	Start(prog string, args []string, redirect string) (int, error)
}

// osRunner is the real process launcher.
type osRunner struct{}

// openRedirect creates or truncates the redirect target.
func openRedirect(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (osRunner) Run(prog string, args []string, redirect string) (bool, error) {
	cmd := osexec.Command(prog, args...)
	if redirect != "" {
		f, err := openRedirect(redirect)
		if err != nil {
			return false, err
		}
		defer f.Close()
		cmd.Stdout = f
	}
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	if ee, ok := err.(*osexec.ExitError); ok && ee.ProcessState != nil {
		// Ran and exited non-zero: a result, not a failure.
		return false, nil
	}
	return false, err
}

func (osRunner) Output(prog string, args []string) (string, error) {
	cmd := osexec.Command(prog, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (osRunner) Start(prog string, args []string, redirect string) (int, error) {
	cmd := osexec.Command(prog, args...)
	if redirect != "" {
		f, err := openRedirect(redirect)
		if err != nil {
			return 0, err
		}
		// The file handle is inherited by the child; closing our copy after
		// Start does not affect it.
		defer f.Close()
		cmd.Stdout = f
	}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
