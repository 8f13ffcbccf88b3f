package repair

import (
	"context"
	"errors"
	"strings"

	"github.com/hnrobert/gearfix/internal/logger"
	"github.com/hnrobert/gearfix/internal/usercmd"
)

// AcceptNode runs the node acceptance checker (oo-accept-node by default).
// A non-zero exit is reported as a *usercmd.CommandError.
type AcceptNode struct {
	Runner *usercmd.Runner
	Argv   []string
}

func (a *AcceptNode) Check(ctx context.Context) error {
	if len(a.Argv) == 0 {
		return errors.New("accept-node: no command configured")
	}
	out, err := a.Runner.Run(ctx, a.Argv[0], a.Argv[1:]...)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			logger.Info("%s: %s", a.Argv[0], line)
		}
	}
	return err
}
