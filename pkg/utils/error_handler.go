package utils

import (
	"errors"
	"fmt"
	"os"
	"sort"
)

// 错误类别
var (
	ErrSearchToolUnavailable = errors.New("search tool unavailable")
	ErrInvalidRoot           = errors.New("invalid root")
	ErrDeletionDenied        = errors.New("deletion denied")
	ErrDeletionTargetMissing = errors.New("deletion target missing")
)

// PruneError 是图标清理工具错误的基础类型
type PruneError struct {
	Kind    error // 错误类别，可为nil
	Message string
	Cause   error
}

// Error 实现error接口
func (e *PruneError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

// Unwrap 支持error chain，同时暴露类别和原因
func (e *PruneError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewError 创建一个新的PruneError
func NewError(message string, cause error) error {
	return &PruneError{
		Message: message,
		Cause:   cause,
	}
}

// NewKindError 创建带类别的PruneError
func NewKindError(kind error, message string, cause error) error {
	return &PruneError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyRemoveError 将删除文件时的系统错误归类
func ClassifyRemoveError(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return NewKindError(ErrDeletionTargetMissing, "文件不存在: "+path, err)
	case errors.Is(err, os.ErrPermission):
		return NewKindError(ErrDeletionDenied, "没有删除权限: "+path, err)
	default:
		return NewError("删除失败: "+path, err)
	}
}

// ErrorHandler 统计各操作的错误
type ErrorHandler struct {
	ErrorStats map[string]map[string]int // 操作 -> 错误信息 -> 计数
}

// NewErrorHandler 创建新的错误处理器
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{
		ErrorStats: make(map[string]map[string]int),
	}
}

// Record 记录一次失败，按错误类别归档
func (h *ErrorHandler) Record(operation string, err error) {
	if err == nil {
		return
	}
	h.updateErrorStats(operation, KindName(err))
}

// KindName 返回错误类别的名称
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrDeletionTargetMissing):
		return ErrDeletionTargetMissing.Error()
	case errors.Is(err, ErrDeletionDenied):
		return ErrDeletionDenied.Error()
	case errors.Is(err, ErrSearchToolUnavailable):
		return ErrSearchToolUnavailable.Error()
	case errors.Is(err, ErrInvalidRoot):
		return ErrInvalidRoot.Error()
	default:
		return "other"
	}
}

// 更新错误统计
func (h *ErrorHandler) updateErrorStats(operation string, errMsg string) {
	if h.ErrorStats[operation] == nil {
		h.ErrorStats[operation] = make(map[string]int)
	}
	h.ErrorStats[operation][errMsg]++
}

// GetErrorStats 获取错误统计信息
func (h *ErrorHandler) GetErrorStats() map[string]map[string]int {
	return h.ErrorStats
}

// Total 返回记录的错误总数
func (h *ErrorHandler) Total() int {
	total := 0
	for _, errs := range h.ErrorStats {
		for _, count := range errs {
			total += count
		}
	}
	return total
}

// PrintErrorStats 打印错误统计信息
func (h *ErrorHandler) PrintErrorStats() {
	if len(h.ErrorStats) == 0 {
		Debug("没有错误记录")
		return
	}

	operations := make([]string, 0, len(h.ErrorStats))
	for operation := range h.ErrorStats {
		operations = append(operations, operation)
	}
	sort.Strings(operations)

	Warn("错误统计:")
	for _, operation := range operations {
		Warn("操作: %s", operation)
		for errMsg, count := range h.ErrorStats[operation] {
			Warn("  - %s: %d次", errMsg, count)
		}
	}
}
