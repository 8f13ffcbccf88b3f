// Package hostfs provides small helpers for reading and appending to host
// configuration files (account databases, cgroup files, PAM limits).
//
// Well-known locations:
//
//	/etc/passwd, /etc/group
//	/etc/cgrules.conf, /etc/cgconfig.conf
//	/etc/security/limits.d
package hostfs
