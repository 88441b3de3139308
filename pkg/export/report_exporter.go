package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// ReportSummary 报告中的汇总部分
type ReportSummary struct {
	Deleted    int    `json:"deleted"`
	DryRun     int    `json:"dry_run"`
	Failed     int    `json:"failed"`
	FreedBytes int64  `json:"freed_bytes"`
	FreedHuman string `json:"freed_human"`
}

// ReportDocument 写入文件的报告结构
type ReportDocument struct {
	*models.Report
	Summary ReportSummary `json:"summary"`
}

// ReportExporter 负责将清理结果导出为JSON文件
type ReportExporter struct {
	OutputFile string
}

// NewReportExporter 创建一个新的报告导出器
func NewReportExporter(outputFile string) *ReportExporter {
	return &ReportExporter{
		OutputFile: outputFile,
	}
}

// BuildDocument 根据运行结果生成报告结构
func (e *ReportExporter) BuildDocument(report *models.Report) ReportDocument {
	return ReportDocument{
		Report: report,
		Summary: ReportSummary{
			Deleted:    report.Count(models.StatusDeleted),
			DryRun:     report.Count(models.StatusDryRun),
			Failed:     report.FailedCount(),
			FreedBytes: report.FreedBytes,
			FreedHuman: utils.FormatFileSize(report.FreedBytes),
		},
	}
}

// Export 导出JSON报告
func (e *ReportExporter) Export(report *models.Report) (string, error) {
	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(e.OutputFile), 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	jsonData, err := json.MarshalIndent(e.BuildDocument(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON编码失败: %w", err)
	}

	if err := os.WriteFile(e.OutputFile, jsonData, 0644); err != nil {
		return "", fmt.Errorf("写入JSON文件失败: %w", err)
	}

	utils.Info("已导出报告: %s", e.OutputFile)
	return e.OutputFile, nil
}
