// Package xfile 提供日志文件相关的路径与文件探测工具。
//
// # 路径函数
//
//   - [SanitizePath]: 规范化文件路径，拒绝空路径、空字节、".." 路径段和目录路径
//   - [SafeJoin]: 将相对文件名拼接到绝对目录下，结果保证不逃逸出该目录
//   - [EnsureDir]: 确保文件的父目录存在（默认 0750）
//
// # 文件探测
//
//   - [Probe]: 一次 Stat 得到存在性、大小、修改时间
//   - [NewerOf]: 比较两个文件的修改时间，供轮转恢复和导出排序使用
//
// 路径穿越检测按路径段精确匹配，"..config" 之类的合法文件名不会被误判：
//
//	SafeJoin("/var/log", "..config")      // "/var/log/..config"
//	SafeJoin("/var/log", "../etc/passwd") // ErrPathTraversal
package xfile
