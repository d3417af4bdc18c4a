// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 路径规范化、安全拼接、目录创建、文件探测
//   - xpool: 泛型 Worker Pool，可配置 worker/队列大小、优雅关闭
//   - xsys: 进程名、设备信息与安装标识
//
// 设计原则：
//   - 安全处理路径遍历
//   - 跨平台兼容
package util
