package hostfs

// Well-known host file locations.
const (
	EtcPasswd   = "/etc/passwd"
	EtcGroup    = "/etc/group"
	EtcCgRules  = "/etc/cgrules.conf"
	EtcCgConfig = "/etc/cgconfig.conf"
	LimitsDir   = "/etc/security/limits.d"
	GearBaseDir = "/var/lib/openshift"
)
