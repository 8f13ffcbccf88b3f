// Package repair walks the discovered gears and restores whatever node-level
// metadata each one is missing: its group, its user, its cgroup entries and
// its PAM limits file.
//
// Every fix is guarded by an existence check, so a run can be repeated
// safely. A failed fix is counted and the run moves on; only errors that
// indicate a broken configuration or a bug stop it.
package repair

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hnrobert/gearfix/internal/cgroups"
	"github.com/hnrobert/gearfix/internal/config"
	"github.com/hnrobert/gearfix/internal/gear"
	"github.com/hnrobert/gearfix/internal/limits"
	"github.com/hnrobert/gearfix/internal/logger"
	"github.com/hnrobert/gearfix/internal/usercmd"
	"github.com/hnrobert/gearfix/internal/usermgr"
)

// Accounts answers existence questions about the host account databases.
type Accounts interface {
	GroupExists(name string) (bool, error)
	UserExists(name string) (bool, error)
	GroupWithGID(gid int) (string, error)
	UserWithUID(uid int) (string, error)
}

// AccountCreator creates host accounts.
type AccountCreator interface {
	AddGroup(ctx context.Context, name string, gid int) error
	AddUser(ctx context.Context, req usercmd.AddUserRequest) error
}

// NodeChecker runs a whole-node consistency check after the gears are done.
type NodeChecker interface {
	Check(ctx context.Context) error
}

type Driver struct {
	Config    *config.Config
	Accounts  Accounts
	Creator   AccountCreator
	Cgroups   cgroups.Files
	CgCreator cgroups.Creator
	// Checker is optional; nil skips the final node check.
	Checker NodeChecker
}

// New wires a Driver to the host as described by cfg.
func New(cfg *config.Config) *Driver {
	runner := usercmd.New()
	runner.GroupAdd = cfg.GroupAddCommand
	runner.UserAdd = cfg.UserAddCommand

	files := cgroups.Files{RulesPath: cfg.CgRulesFile, ConfigPath: cfg.CgConfigFile}
	var creator cgroups.Creator = &cgroups.FileCreator{Files: files, Root: cfg.CgroupRoot}
	if len(cfg.CgroupCreateCommand) > 0 {
		creator = &cgroups.CommandCreator{Runner: runner, Argv: cfg.CgroupCreateCommand}
	}

	return &Driver{
		Config:    cfg,
		Accounts:  &usermgr.Manager{PasswdPath: cfg.PasswdFile, GroupPath: cfg.GroupFile},
		Creator:   runner,
		Cgroups:   files,
		CgCreator: creator,
		Checker:   &AcceptNode{Runner: runner, Argv: cfg.AcceptNodeCommand},
	}
}

// Run repairs every gear in order, then runs the node check. The returned
// error is non-nil only when the run had to stop early; step failures are
// counted in the report instead.
func (d *Driver) Run(ctx context.Context, gears []gear.Gear) (*Report, error) {
	rep := &Report{RunID: uuid.NewString()}
	log := logger.With("run", rep.RunID)
	log.Infof("repairing %d gear(s)", len(gears))

	for _, g := range gears {
		if err := d.RepairGear(ctx, rep, g); err != nil {
			return rep, err
		}
		rep.Gears++
	}

	if d.Checker != nil {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res := StepResult{Step: StepAcceptNode, Outcome: OutcomePresent}
		if err := d.Checker.Check(ctx); err != nil {
			if !Recoverable(err) {
				return rep, fmt.Errorf("%s: %w", StepAcceptNode, err)
			}
			res.Outcome, res.Err = OutcomeFailed, err
			rep.Failures++
			log.Errorf("node check failed: %v", err)
		}
		rep.add(res)
	}

	log.Infof("done: %d gear(s), %d fix(es), %d failure(s)", rep.Gears, rep.Fixed, rep.Failures)
	return rep, nil
}

// RepairGear runs the group, user, cgroup and limits steps for one gear.
func (d *Driver) RepairGear(ctx context.Context, rep *Report, g gear.Gear) error {
	log := logger.With("run", rep.RunID, "gear", g.UUID)

	steps := []struct {
		step  Step
		check func() (bool, error)
		fix   func() error
	}{
		{StepGroup, func() (bool, error) { return d.Accounts.GroupExists(g.UUID) }, func() error { return d.fixGroup(ctx, log, g) }},
		{StepUser, func() (bool, error) { return d.Accounts.UserExists(g.UUID) }, func() error { return d.fixUser(ctx, log, g) }},
		{StepCgroups, func() (bool, error) { return d.Cgroups.Present(g.UUID) }, func() error { return d.CgCreator.Create(ctx, g.UUID) }},
		{StepLimits, func() (bool, error) { return limits.Exists(g.LimitsFile(d.Config.LimitsDir)) }, func() error { return d.fixLimits(g) }},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := d.runStep(s.check, s.fix)
		res.Gear, res.Step = g.UUID, s.step
		if res.Outcome == OutcomeFailed {
			if !Recoverable(res.Err) {
				return fmt.Errorf("%s %s: %w", s.step, g.UUID, res.Err)
			}
			rep.Failures++
			log.Errorf("%s failed: %v", s.step, res.Err)
		}
		if res.Outcome == OutcomeFixed {
			rep.Fixed++
			log.Infof("%s restored", s.step)
		}
		rep.add(res)
	}
	return nil
}

func (d *Driver) runStep(check func() (bool, error), fix func() error) StepResult {
	present, err := check()
	if err != nil {
		return StepResult{Outcome: OutcomeFailed, Err: &CheckError{Err: err}}
	}
	if present {
		return StepResult{Outcome: OutcomePresent}
	}
	if err := fix(); err != nil {
		return StepResult{Outcome: OutcomeFailed, Err: err}
	}
	return StepResult{Outcome: OutcomeFixed}
}

func (d *Driver) fixGroup(ctx context.Context, log *zap.SugaredLogger, g gear.Gear) error {
	if other, err := d.Accounts.GroupWithGID(g.OwnerID); err == nil && other != "" {
		log.Warnf("gid %d is already held by group %s", g.OwnerID, other)
	}
	return d.Creator.AddGroup(ctx, g.UUID, g.OwnerID)
}

func (d *Driver) fixUser(ctx context.Context, log *zap.SugaredLogger, g gear.Gear) error {
	if err := d.Config.RequireAccountFields(); err != nil {
		return err
	}
	if other, err := d.Accounts.UserWithUID(g.OwnerID); err == nil && other != "" {
		log.Warnf("uid %d is already held by user %s", g.OwnerID, other)
	}
	return d.Creator.AddUser(ctx, usercmd.AddUserRequest{
		Name:            g.UUID,
		ID:              g.OwnerID,
		Gecos:           d.Config.GearGecos,
		Shell:           d.Config.GearShell,
		Home:            g.Path,
		NoPasswordAging: d.Config.PasswordAgingDisabled(),
	})
}

func (d *Driver) fixLimits(g gear.Gear) error {
	_, err := limits.Create(g.LimitsFile(d.Config.LimitsDir), g.UUID, d.Config.LimitsNproc)
	return err
}

// CheckError wraps a failure to determine whether something exists.
type CheckError struct {
	Err error
}

func (e *CheckError) Error() string { return "check: " + e.Err.Error() }

func (e *CheckError) Unwrap() error { return e.Err }

// Recoverable reports whether err comes from the host rather than from
// gearfix itself: a failed command, an unreadable or unwritable file, or a
// failed existence check. Those are counted and skipped; anything else stops
// the run.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, config.ErrMissing) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		checkErr  *CheckError
		cmdErr    *usercmd.CommandError
		createErr *cgroups.CreateError
		pathErr   *fs.PathError
	)
	return errors.As(err, &checkErr) ||
		errors.As(err, &cmdErr) ||
		errors.As(err, &createErr) ||
		errors.As(err, &pathErr)
}
