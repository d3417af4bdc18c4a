package xsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InstallIDFile 安装标识文件名
const InstallIDFile = "install_id"

// installMu 串行化同进程内的读-生成-写序列
var installMu sync.Mutex

// InstallID 读取 dir 下的安装标识，不存在时生成 UUID v4 并写入。
//
// 标识在同一目录下保持稳定，用作导出报告中的设备标识；
// 文件内容损坏时返回 [ErrInvalidInstallID]，不会静默覆盖。
func InstallID(dir string) (string, error) {
	if dir == "" {
		return "", ErrEmptyDir
	}

	installMu.Lock()
	defer installMu.Unlock()

	path := filepath.Join(dir, InstallIDFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidInstallID, id)
		}
		return id, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("xsys: read install id: %w", err)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("xsys: create install id dir: %w", err)
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("xsys: write install id: %w", err)
	}
	return id, nil
}
