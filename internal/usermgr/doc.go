// Package usermgr answers questions about the host account databases
// (/etc/passwd and /etc/group) by parsing them directly.
//
// Read errors and malformed numeric fields are reported to the caller; a name
// that is simply not present is reported as absent.
package usermgr
