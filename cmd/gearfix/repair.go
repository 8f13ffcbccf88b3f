package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hnrobert/gearfix/internal/config"
	"github.com/hnrobert/gearfix/internal/gear"
	"github.com/hnrobert/gearfix/internal/logger"
	"github.com/hnrobert/gearfix/internal/repair"
)

type repairOptions struct {
	configPath     string
	baseDir        string
	yes            bool
	quiet          bool
	skipAcceptNode bool
}

func newRootCmd() *cobra.Command {
	opts := &repairOptions{}
	cmd := &cobra.Command{
		Use:   "gearfix",
		Short: "Restore missing users, groups, cgroups and limits for the gears on this node",
		Long: "gearfix scans the gear base directory and, for every gear found, recreates its\n" +
			"group, user, cgroup entries and PAM limits file if they are missing. It is safe\n" +
			"to run repeatedly.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "node configuration file")
	f.StringVar(&opts.baseDir, "base-dir", "", "gear base directory (overrides the configuration)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "do not ask for confirmation")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "only report warnings and errors")
	f.BoolVar(&opts.skipAcceptNode, "skip-accept-node", false, "do not run the node acceptance check afterwards")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runRepair(cmd *cobra.Command, opts *repairOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return &exitError{code: ExitFatal, err: err}
	}
	if opts.baseDir != "" {
		cfg.GearBaseDir = opts.baseDir
	}
	if err := logger.Init(logger.Options{
		Quiet:  opts.quiet,
		File:   cfg.LogFile,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}); err != nil {
		return &exitError{code: ExitFatal, err: fmt.Errorf("init logging: %w", err)}
	}

	gears, err := gear.Discover(cfg.GearBaseDir)
	if err != nil {
		return &exitError{code: ExitFatal, err: err}
	}

	if !opts.yes {
		prompt := fmt.Sprintf("This will restore missing node metadata for %d gear(s) under %s. Continue? [y/N] ",
			len(gears), cfg.GearBaseDir)
		if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt) {
			return &exitError{code: ExitDeclined, err: fmt.Errorf("aborted")}
		}
	}

	d := repair.New(cfg)
	if opts.skipAcceptNode {
		d.Checker = nil
	}
	rep, err := d.Run(cmd.Context(), gears)
	if err != nil {
		return &exitError{code: ExitFatal, err: err}
	}
	if !rep.OK() {
		for _, s := range rep.Failed() {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAILED %s %s: %v\n", s.Gear, s.Step, s.Err)
		}
		return &exitError{code: ExitFailures}
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
