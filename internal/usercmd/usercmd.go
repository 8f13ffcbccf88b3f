package usercmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommandError is returned when an external command exits non-zero or
// cannot be started at all (ExitCode -1).
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Stdout)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %v: exit %d: %s", e.Name, e.Args, e.ExitCode, msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

type Runner struct {
	// Timeout bounds every command. Zero means no timeout.
	Timeout time.Duration

	GroupAdd string
	UserAdd  string
}

func New() *Runner {
	return &Runner{GroupAdd: "groupadd", UserAdd: "useradd"}
}

// Run executes name with args and returns its captured stdout.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return stdout.String(), &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: code,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return stdout.String(), nil
}

// AddGroup runs groupadd with an explicit gid.
func (r *Runner) AddGroup(ctx context.Context, name string, gid int) error {
	_, err := r.Run(ctx, r.GroupAdd, "-g", strconv.Itoa(gid), name)
	return err
}

type AddUserRequest struct {
	Name  string
	ID    int
	Gecos string
	Shell string
	Home  string
	// NoPasswordAging forces the shadow aging fields to "never expire".
	NoPasswordAging bool
}

// AddUser runs useradd with uid and gid both set to req.ID. The home
// directory is recorded but not created.
func (r *Runner) AddUser(ctx context.Context, req AddUserRequest) error {
	_, err := r.Run(ctx, r.UserAdd, UserAddArgs(req)...)
	return err
}

func UserAddArgs(req AddUserRequest) []string {
	id := strconv.Itoa(req.ID)
	args := []string{
		"-u", id,
		"-g", id,
		"-c", req.Gecos,
		"-s", req.Shell,
		"-d", req.Home,
		"-M",
	}
	if req.NoPasswordAging {
		args = append(args,
			"-K", "PASS_MAX_DAYS=-1",
			"-K", "PASS_MIN_DAYS=-1",
			"-K", "PASS_WARN_AGE=-1",
		)
	}
	return append(args, req.Name)
}
