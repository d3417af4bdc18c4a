//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package xsys

func uname() (sys, release, machine string, ok bool) {
	return "", "", "", false
}
