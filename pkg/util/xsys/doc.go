// Package xsys 提供日志导出头部所需的设备与进程元数据。
//
// # 功能概览
//
//   - [Device]: 操作系统、内核版本、硬件架构与主机名（Unix 上通过 uname 获取，结果缓存）
//   - [ProcessName]: 当前进程名称（不含路径，结果缓存）
//   - [InstallID]: 持久化在指定目录下的安装标识（UUID v4），首次调用时生成
//
// 所有函数都是"尽力获取"语义：取不到的字段为空字符串，不影响日志导出。
package xsys
