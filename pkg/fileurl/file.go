// Package fileurl holds small filesystem helpers used during startup
// Package fileurl 启动阶段使用的文件系统辅助函数
package fileurl

import (
	"os"
	"path/filepath"
)

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 所在目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// WriteIfAbsent writes content to dst unless the file already exists
// WriteIfAbsent 文件不存在时写入内容
// return: true when the file was created
// 返回值: 是否新建了文件
func WriteIfAbsent(dst string, content []byte, perm os.FileMode) (bool, error) {
	if IsExist(dst) {
		return false, nil
	}
	if err := CreatePath(dst, os.ModePerm); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, content, perm); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureDirs creates every non-empty directory in dirs
// EnsureDirs 创建所有非空目录
func EnsureDirs(perm os.FileMode, dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, perm); err != nil {
			return err
		}
	}
	return nil
}
