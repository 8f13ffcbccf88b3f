package usermgr

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
)

type Manager struct {
	PasswdPath string
	GroupPath  string
}

// LookupGroup returns the group entry called name, or ErrGroupNotFound.
func (m *Manager) LookupGroup(name string) (*GroupEntry, error) {
	gr, err := LoadGroup(m.GroupPath)
	if err != nil {
		return nil, fmt.Errorf("read group database %s: %w", m.GroupPath, err)
	}
	e := gr.Find(name)
	if e == nil {
		return nil, ErrGroupNotFound
	}
	return e, nil
}

// LookupUser returns the passwd entry called name, or ErrUserNotFound.
func (m *Manager) LookupUser(name string) (*PasswdEntry, error) {
	pw, err := LoadPasswd(m.PasswdPath)
	if err != nil {
		return nil, fmt.Errorf("read passwd database %s: %w", m.PasswdPath, err)
	}
	e := pw.Find(name)
	if e == nil {
		return nil, ErrUserNotFound
	}
	return e, nil
}

func (m *Manager) GroupExists(name string) (bool, error) {
	_, err := m.LookupGroup(name)
	return exists(err, ErrGroupNotFound)
}

func (m *Manager) UserExists(name string) (bool, error) {
	_, err := m.LookupUser(name)
	return exists(err, ErrUserNotFound)
}

// GroupWithGID returns the name of the group already holding gid, or "".
func (m *Manager) GroupWithGID(gid int) (string, error) {
	gr, err := LoadGroup(m.GroupPath)
	if err != nil {
		return "", fmt.Errorf("read group database %s: %w", m.GroupPath, err)
	}
	if e := gr.FindByGID(gid); e != nil {
		return e.Name, nil
	}
	return "", nil
}

// UserWithUID returns the name of the user already holding uid, or "".
func (m *Manager) UserWithUID(uid int) (string, error) {
	pw, err := LoadPasswd(m.PasswdPath)
	if err != nil {
		return "", fmt.Errorf("read passwd database %s: %w", m.PasswdPath, err)
	}
	if e := pw.FindByUID(uid); e != nil {
		return e.Name, nil
	}
	return "", nil
}

func exists(err, notFound error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, notFound):
		return false, nil
	default:
		return false, err
	}
}
