package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrSamePath 双文件轮转的两个路径指向同一文件
	ErrSamePath = errors.New("xrotate: both rotation files resolve to the same path")

	// ErrInvalidMaxBytes 双文件轮转的总上限无效（必须 >= 2）
	ErrInvalidMaxBytes = errors.New("xrotate: invalid max bytes")

	// ErrInvalidMaxSize MaxSizeMB 值无效（必须在 1~10240 范围内）
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeMB")

	// ErrInvalidMaxBackups MaxBackups 值无效（必须在 0~1024 范围内）
	ErrInvalidMaxBackups = errors.New("xrotate: invalid MaxBackups")

	// ErrInvalidMaxAge MaxAgeDays 值无效（必须在 0~3650 范围内）
	ErrInvalidMaxAge = errors.New("xrotate: invalid MaxAgeDays")

	// ErrNoCleanupPolicy MaxBackups 和 MaxAgeDays 不能同时为 0
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")
)

// 运行期错误
var (
	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")

	// ErrPartialLine 镜像写入的数据不以换行结尾
	ErrPartialLine = errors.New("xrotate: mirror write must end with newline")

	// ErrNoFile 当前没有可写的文件句柄（上次切换打开失败且重新打开仍失败）
	ErrNoFile = errors.New("xrotate: no open file")
)
