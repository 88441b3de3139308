package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPruneErrorKind(t *testing.T) {
	cause := errors.New("底层错误")
	err := NewKindError(ErrInvalidRoot, "icon_root 不是目录", cause)

	assert.True(t, errors.Is(err, ErrInvalidRoot))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrDeletionDenied))
	assert.Equal(t, "icon_root 不是目录: 底层错误", err.Error())

	// 包装后依然可以识别类别
	wrapped := fmt.Errorf("执行失败: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidRoot))

	plain := NewError("普通错误", nil)
	assert.Equal(t, "普通错误", plain.Error())
	assert.Equal(t, "other", KindName(plain))
}

func TestClassifyRemoveError(t *testing.T) {
	assert.NoError(t, ClassifyRemoveError("x.png", nil))

	// 不存在的文件
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "missing.png")
	err := ClassifyRemoveError(missing, os.Remove(missing))
	assert.True(t, errors.Is(err, ErrDeletionTargetMissing))
	assert.Equal(t, ErrDeletionTargetMissing.Error(), KindName(err))

	// 权限错误
	permErr := &os.PathError{Op: "remove", Path: "x.png", Err: os.ErrPermission}
	err = ClassifyRemoveError("x.png", permErr)
	assert.True(t, errors.Is(err, ErrDeletionDenied))

	// 其他错误不归入任何类别
	err = ClassifyRemoveError("x.png", errors.New("is a directory"))
	assert.False(t, errors.Is(err, ErrDeletionDenied))
	assert.False(t, errors.Is(err, ErrDeletionTargetMissing))
}

func TestErrorStats(t *testing.T) {
	// 初始化日志
	InitLogger(LogLevelNormal, "")

	handler := NewErrorHandler()

	// 产生一些错误统计
	handler.Record("delete", NewKindError(ErrDeletionDenied, "a", nil))
	handler.Record("delete", NewKindError(ErrDeletionDenied, "b", nil)) // 同类错误
	handler.Record("delete", NewKindError(ErrDeletionTargetMissing, "c", nil))
	handler.Record("search", errors.New("unknown"))
	handler.Record("search", nil) // nil不计数

	// 验证统计
	stats := handler.GetErrorStats()
	assert.Equal(t, 2, len(stats))
	assert.Equal(t, 2, stats["delete"][ErrDeletionDenied.Error()])
	assert.Equal(t, 1, stats["delete"][ErrDeletionTargetMissing.Error()])
	assert.Equal(t, 1, stats["search"]["other"])
	assert.Equal(t, 4, handler.Total())

	// 测试打印错误统计
	handler.PrintErrorStats() // 这仅测试方法是否正常运行
	NewErrorHandler().PrintErrorStats()
}

func TestRequireDir(t *testing.T) {
	tempDir := t.TempDir()
	assert.NoError(t, RequireDir("source_root", tempDir))

	err := RequireDir("source_root", "")
	assert.True(t, errors.Is(err, ErrInvalidRoot))

	err = RequireDir("source_root", filepath.Join(tempDir, "nope"))
	assert.True(t, errors.Is(err, ErrInvalidRoot))

	file := filepath.Join(tempDir, "file.txt")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	err = RequireDir("icon_root", file)
	assert.True(t, errors.Is(err, ErrInvalidRoot))
	assert.True(t, CheckFileExists(file))
	assert.False(t, CheckDirExists(file))
	assert.Equal(t, int64(1), FileSize(file))
	assert.Equal(t, int64(0), FileSize(filepath.Join(tempDir, "nope")))
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join("a", "b")
	assert.True(t, IsWithin(root, root))
	assert.True(t, IsWithin(root, filepath.Join("a", "b", "c", "x.png")))
	assert.False(t, IsWithin(root, filepath.Join("a", "bc")))
	assert.False(t, IsWithin(root, "a"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "1.0 KiB", FormatFileSize(1024))
	assert.Equal(t, "0 B", FormatFileSize(-5))
	assert.Equal(t, "500ms", FormatTimeDuration(0.5))
	assert.Equal(t, "5s", FormatTimeDuration(5))
	assert.Equal(t, "1m 5s", FormatTimeDuration(65))
	assert.Equal(t, "1h 0m 1s", FormatTimeDuration(3601))
}
