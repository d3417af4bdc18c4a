package xsys

import "errors"

var (
	// ErrEmptyDir 表示 InstallID 的目录参数为空。
	ErrEmptyDir = errors.New("xsys: directory is required")

	// ErrInvalidInstallID 表示磁盘上的安装标识不是合法 UUID。
	ErrInvalidInstallID = errors.New("xsys: invalid install id")
)
