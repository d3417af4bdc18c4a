//go:build linux || darwin || freebsd || netbsd || openbsd

package xsys

import "golang.org/x/sys/unix"

func uname() (sys, release, machine string, ok bool) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", "", "", false
	}
	return unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Machine[:]),
		true
}
