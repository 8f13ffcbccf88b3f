package cgroups

import (
	"context"
	"fmt"
	"strings"

	"github.com/hnrobert/gearfix/internal/hostfs"
	"github.com/hnrobert/gearfix/internal/usercmd"
)

// Controllers lists the subsystems every gear is placed under.
var Controllers = []string{"cpu", "cpuacct", "memory", "net_cls", "freezer"}

// UUIDPlaceholder is replaced by the gear uuid in CommandCreator arguments.
const UUIDPlaceholder = "{uuid}"

// CommandCreator delegates entry creation to an external command.
type CommandCreator struct {
	Runner *usercmd.Runner
	Argv   []string
}

func (c *CommandCreator) Create(ctx context.Context, uuid string) error {
	if len(c.Argv) == 0 {
		return &CreateError{UUID: uuid, Err: fmt.Errorf("no cgroup command configured")}
	}
	args := make([]string, 0, len(c.Argv))
	substituted := false
	for _, a := range c.Argv[1:] {
		if strings.Contains(a, UUIDPlaceholder) {
			substituted = true
			a = strings.ReplaceAll(a, UUIDPlaceholder, uuid)
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, uuid)
	}
	if _, err := c.Runner.Run(ctx, c.Argv[0], args...); err != nil {
		return &CreateError{UUID: uuid, Err: err}
	}
	return nil
}

// FileCreator appends entries to the libcgroup files directly. Each file is
// only touched when its entry is missing.
type FileCreator struct {
	Files Files
	// Root is the cgroup path prefix, e.g. "openshift".
	Root string
}

func (c *FileCreator) Create(_ context.Context, uuid string) error {
	if err := c.create(uuid); err != nil {
		return &CreateError{UUID: uuid, Err: err}
	}
	return nil
}

func (c *FileCreator) create(uuid string) error {
	rule, err := c.Files.RuleExists(uuid)
	if err != nil {
		return err
	}
	if !rule {
		if err := hostfs.AppendLine(c.Files.RulesPath, RuleLine(c.Root, uuid), 0644); err != nil {
			return err
		}
	}
	conf, err := c.Files.ConfigExists(uuid)
	if err != nil {
		return err
	}
	if !conf {
		for _, line := range ConfigBlock(c.Root, uuid) {
			if err := hostfs.AppendLine(c.Files.ConfigPath, line, 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func groupPath(root, uuid string) string {
	if root == "" {
		return uuid
	}
	return strings.Trim(root, "/") + "/" + uuid
}

// RuleLine is the cgrules.conf line classifying uuid's processes.
func RuleLine(root, uuid string) string {
	return fmt.Sprintf("%s\t%s\t/%s", uuid, strings.Join(Controllers, ","), groupPath(root, uuid))
}

// ConfigBlock is the cgconfig.conf group declaration for uuid.
func ConfigBlock(root, uuid string) []string {
	lines := []string{fmt.Sprintf("group %s {", groupPath(root, uuid))}
	for _, ctl := range Controllers {
		lines = append(lines, fmt.Sprintf("\t%s {", ctl), "\t}")
	}
	return append(lines, "}")
}
