package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// CheckFileExists 检查文件是否存在
func CheckFileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CheckDirExists 检查目录是否存在
func CheckDirExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RequireDir 确认路径是已存在的目录，否则返回ErrInvalidRoot
func RequireDir(name, dirPath string) error {
	if dirPath == "" {
		return NewKindError(ErrInvalidRoot, name+" 未设置", nil)
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		return NewKindError(ErrInvalidRoot, name+" 无法访问: "+dirPath, err)
	}
	if !info.IsDir() {
		return NewKindError(ErrInvalidRoot, name+" 不是目录: "+dirPath, nil)
	}
	return nil
}

// IsWithin 判断path是否位于root之下（包含root本身）
func IsWithin(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// FileSize 返回文件大小，无法获取时返回0
func FileSize(filePath string) int64 {
	info, err := os.Lstat(filePath)
	if err != nil {
		return 0
	}
	return info.Size()
}
