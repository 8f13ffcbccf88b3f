package usermgr

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type parsedFile[T any] struct {
	items []*T
}

func (pf *parsedFile[T]) add(e T) {
	pf.items = append(pf.items, &e)
}

func (pf *parsedFile[T]) entries() []*T {
	return pf.items
}

func parseColonLine(line string) []string {
	// Keep trailing empty fields.
	return strings.Split(line, ":")
}

// nssCompat reports whether an account line is an NSS compat inclusion or
// exclusion (+user, -user, +@netgroup, a bare +). Such lines carry no ids.
func nssCompat(name string) bool {
	return strings.HasPrefix(name, "+") || strings.HasPrefix(name, "-")
}

func readLines(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 1024*1024)
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func atoi(field, ctx string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid int %q in %s: %w", field, ctx, err)
	}
	return n, nil
}
