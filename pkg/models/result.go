package models

import (
	"time"
)

// DeleteStatus 删除结果状态
type DeleteStatus string

const (
	StatusDeleted DeleteStatus = "deleted" // 已删除
	StatusDryRun  DeleteStatus = "dry-run" // 演练模式，未删除
	StatusMissing DeleteStatus = "missing" // 文件不存在
	StatusDenied  DeleteStatus = "denied"  // 没有权限
	StatusFailed  DeleteStatus = "failed"  // 其他失败
)

// DeleteResult 单个未使用图标的处理结果
type DeleteResult struct {
	Name   string       `json:"name"`            // 图标名
	Path   string       `json:"path"`            // 删除目标
	Status DeleteStatus `json:"status"`          // 处理状态
	Size   int64        `json:"size"`            // 删除前的文件大小
	Err    error        `json:"-"`               // 失败原因
	Error  string       `json:"error,omitempty"` // 失败原因（报告用）
}

// Failed 是否删除失败
func (r DeleteResult) Failed() bool {
	return r.Status == StatusMissing || r.Status == StatusDenied || r.Status == StatusFailed
}

// Report 一次清理的结果统计
type Report struct {
	RunID        string         `json:"run_id"`        // 运行ID
	StartedAt    time.Time      `json:"started_at"`    // 开始时间
	DurationMs   int64          `json:"duration_ms"`   // 耗时（毫秒）
	SourceRoot   string         `json:"source_root"`   // 源码目录
	IconRoot     string         `json:"icon_root"`     // 图标目录
	DryRun       bool           `json:"dry_run"`       // 是否为演练
	UsedCount    int            `json:"used_count"`    // 引用的图标数
	IndexedCount int            `json:"indexed_count"` // 索引的图标数
	Results      []DeleteResult `json:"results"`       // 未使用图标的处理结果
	FreedBytes   int64          `json:"freed_bytes"`   // 释放的空间
}

// Count 统计指定状态的结果数量
func (r *Report) Count(status DeleteStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// FailedCount 删除失败的数量
func (r *Report) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}
