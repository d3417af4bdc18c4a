// Package xrotate 提供日志文件轮转功能。
//
// Rotator 接口定义了轮转器的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 当前实现
//
//   - [NewDualFile]: 双文件半桶轮转。两个文件交替写入，当前文件达到
//     上限的一半时截断另一个文件并切换过去，磁盘占用恒定不超过上限
//   - [NewMirror]: 基于 lumberjack v2 的 JSON 行镜像，按大小滚动并保留有限备份
//
// # 双文件轮转
//
// 启动时续写最近修改的那个文件（追加模式，大小取文件现有长度），
// 两个文件都不存在时从 A 开始，修改时间相同时选 B。
// 切换时重新打开文件失败会重试一次（retry-go），仍失败则保留空句柄，
// 由下一次 Write 以截断模式重新打开切换目标。
//
// # JSON 镜像
//
// 镜像只接受完整的 JSON 行，备份名使用本地时间，[MirrorBackups] 可在
// 不打开镜像的情况下列出备份。两种文件都使用 0600 权限。
package xrotate
