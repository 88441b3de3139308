package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ccp-p/asr-media-cli/icon-pruner/internal/adapters"
	"github.com/ccp-p/asr-media-cli/icon-pruner/internal/ui"
	"github.com/ccp-p/asr-media-cli/icon-pruner/internal/watcher"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/export"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/pruner"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/search"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

const pruneBarID = "prune"

// PruneController 清理控制器，协调搜索、索引和删除
type PruneController struct {
	// 配置
	Config *models.Config

	// 组件
	Searcher        search.Searcher
	Remover         pruner.Remover
	ProgressManager *ui.ProgressManager

	// 输出：Out 只写删除记录，Status 写汇总信息
	Out    io.Writer
	Status io.Writer

	// 状态数据
	Stats struct {
		Runs          int
		DeletedIcons  int
		FailedIcons   int
		FreedBytes    int64
		LastRunID     string
		LastRunFinish time.Time
	}

	mu sync.Mutex
}

// UnusedIcon 统计模式下的未使用图标
type UnusedIcon struct {
	Name string
	Path string
	Size int64
}

// Inspection 统计结果，不删除任何文件
type Inspection struct {
	UsedCount    int
	IndexedCount int
	Unused       []UnusedIcon
	UnusedBytes  int64
	ByDirectory  map[string]int // 相对图标根目录的目录 -> 未使用图标数
}

// NewPruneController 创建清理控制器，配置必须已经校验
func NewPruneController(config *models.Config) (*PruneController, error) {
	searcher, err := search.NewSearcher(config)
	if err != nil {
		return nil, err
	}

	if grep, ok := searcher.(*search.GrepSearcher); ok {
		if err := grep.CheckGrep(); err != nil {
			return nil, err
		}
	}

	return &PruneController{
		Config:          config,
		Searcher:        searcher,
		Remover:         pruner.OSRemover{},
		ProgressManager: ui.NewProgressManager(config.ShowProgress && ui.IsTerminal()),
		Out:             os.Stdout,
		Status:          os.Stderr,
	}, nil
}

// analyze 搜索源码和图标树，返回引用集合和图标索引
func (pc *PruneController) analyze(ctx context.Context) (models.UsedIcons, *models.IconIndex, error) {
	if err := utils.RequireDir("source_root", pc.Config.SourceRoot); err != nil {
		return nil, nil, err
	}
	if err := utils.RequireDir("icon_root", pc.Config.IconRoot); err != nil {
		return nil, nil, err
	}

	iconRoot, err := filepath.Abs(pc.Config.IconRoot)
	if err != nil {
		return nil, nil, utils.NewKindError(utils.ErrInvalidRoot, "无法解析图标目录", err)
	}
	iconScanner := scanner.NewIconScanner(iconRoot)

	utils.Info("搜索源码目录: %s", pc.Config.SourceRoot)
	lines, err := pc.Searcher.Search(ctx, search.Query{
		Root:    pc.Config.SourceRoot,
		Literal: pc.Config.SearchLiteral,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("搜索源码失败: %w", err)
	}
	used := iconScanner.ExtractUsedIcons(lines)

	utils.Info("索引图标目录: %s", iconRoot)
	files, err := pc.Searcher.Search(ctx, search.Query{
		Root:      pc.Config.IconRoot,
		FilesOnly: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("搜索图标目录失败: %w", err)
	}
	index := iconScanner.IndexIcons(files)

	return used, index, nil
}

// Run 执行一次完整的清理
func (pc *PruneController) Run(ctx context.Context) (*models.Report, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	startTime := time.Now()
	report := &models.Report{
		RunID:      uuid.NewString(),
		StartedAt:  startTime,
		SourceRoot: pc.Config.SourceRoot,
		IconRoot:   pc.Config.IconRoot,
		DryRun:     pc.Config.DryRun,
	}
	log := utils.WithField("run_id", report.RunID)
	log.Infof("开始清理未使用的图标")

	used, index, err := pc.analyze(ctx)
	if err != nil {
		return nil, err
	}
	report.UsedCount = len(used)
	report.IndexedCount = index.Len()

	p := pruner.NewPruner(pc.Out, pc.Config.DryRun)
	if pc.Remover != nil {
		p.Remover = pc.Remover
	}

	total := len(pruner.Unused(used, index))
	if bar := pc.ProgressManager.CreateProgressBar(pruneBarID, total, "删除", "准备中..."); bar != nil {
		p.ProgressCallback = func(current, total int, name string) {
			pc.ProgressManager.UpdateProgressBar(pruneBarID, current, name)
		}
	}

	report.Results = p.Prune(used, index)
	pc.ProgressManager.CompleteProgressBar(pruneBarID, "完成")

	for _, result := range report.Results {
		if result.Status == models.StatusDeleted {
			report.FreedBytes += result.Size
		}
	}
	report.DurationMs = time.Since(startTime).Milliseconds()

	p.Errors.PrintErrorStats()
	pc.updateStats(report)
	pc.printSummary(report)

	if pc.Config.ReportFile != "" {
		path, err := export.NewReportExporter(pc.Config.ReportFile).Export(report)
		if err != nil {
			return report, fmt.Errorf("导出报告失败: %w", err)
		}
		log.Infof("报告已保存: %s", path)
	}

	return report, nil
}

// Inspect 统计未使用的图标，不删除任何文件
func (pc *PruneController) Inspect(ctx context.Context) (*Inspection, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	used, index, err := pc.analyze(ctx)
	if err != nil {
		return nil, err
	}

	iconRoot, _ := filepath.Abs(pc.Config.IconRoot)
	inspection := &Inspection{
		UsedCount:    len(used),
		IndexedCount: index.Len(),
		ByDirectory:  make(map[string]int),
	}

	for _, name := range pruner.Unused(used, index) {
		path, _ := index.Get(name)
		size := utils.FileSize(path)
		inspection.Unused = append(inspection.Unused, UnusedIcon{Name: name, Path: path, Size: size})
		inspection.UnusedBytes += size

		dir, err := filepath.Rel(iconRoot, filepath.Dir(path))
		if err != nil {
			dir = filepath.Dir(path)
		}
		inspection.ByDirectory[filepath.ToSlash(dir)]++
	}

	return inspection, nil
}

// PrintInspection 打印统计结果，最多列出 top 个最大的未使用图标
func PrintInspection(w io.Writer, inspection *Inspection, top int) {
	fmt.Fprintln(w, "============= 图标统计结果 =============")
	fmt.Fprintf(w, "被引用的图标: %d 个\n", inspection.UsedCount)
	fmt.Fprintf(w, "已索引的图标: %d 个\n", inspection.IndexedCount)
	fmt.Fprintf(w, "未使用的图标: %d 个\n", len(inspection.Unused))
	fmt.Fprintf(w, "未使用图标总大小: %s\n", utils.FormatFileSize(inspection.UnusedBytes))

	fmt.Fprintln(w, "\n============= 目录分布 =============")
	dirs := make([]string, 0, len(inspection.ByDirectory))
	for dir := range inspection.ByDirectory {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		fmt.Fprintf(w, "%s: %d 个\n", dir, inspection.ByDirectory[dir])
	}

	fmt.Fprintln(w, "\n============= 最大的未使用图标 =============")
	largest := append([]UnusedIcon(nil), inspection.Unused...)
	sort.SliceStable(largest, func(i, j int) bool {
		return largest[i].Size > largest[j].Size
	})
	if top > 0 && len(largest) > top {
		largest = largest[:top]
	}
	for i, icon := range largest {
		fmt.Fprintf(w, "%d. %s - %s (%s)\n", i+1, icon.Name, icon.Path, utils.FormatFileSize(icon.Size))
	}
}

// Watch 先执行一次清理，然后监控源码目录，每次变化后重新清理，直到ctx取消
func (pc *PruneController) Watch(ctx context.Context) error {
	if _, err := pc.Run(ctx); err != nil {
		return err
	}

	trigger := adapters.NewPruneTrigger()
	debounce := time.Duration(pc.Config.WatchDebounce * float64(time.Second))
	monitor, err := watcher.NewSourceMonitor(pc.Config.SourceRoot, trigger, debounce, pc.Config.IconRoot)
	if err != nil {
		return err
	}
	monitor.IgnoreFiles(pc.Config.ReportFile, pc.Config.LogFile)
	if err := monitor.Start(); err != nil {
		return err
	}

	utils.Info("监控已启动，按Ctrl+C退出...")

	g, gctx := errgroup.WithContext(ctx)

	// 停止监控
	g.Go(func() error {
		<-gctx.Done()
		monitor.Stop()
		return nil
	})

	// 串行执行清理
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-trigger.Requests():
				utils.Info("检测到 %d 处源码变化，重新清理", len(paths))
				if _, err := pc.Run(gctx); err != nil {
					if gctx.Err() != nil {
						return nil
					}
					utils.Error("清理失败: %v", err)
				}
			}
		}
	})

	err = g.Wait()
	pc.ProgressManager.CloseAll("已停止")
	return err
}

// 统计处理结果
func (pc *PruneController) updateStats(report *models.Report) {
	pc.Stats.Runs++
	pc.Stats.DeletedIcons += report.Count(models.StatusDeleted)
	pc.Stats.FailedIcons += report.FailedCount()
	pc.Stats.FreedBytes += report.FreedBytes
	pc.Stats.LastRunID = report.RunID
	pc.Stats.LastRunFinish = time.Now()
}

// printSummary 在标准错误输出彩色汇总
func (pc *PruneController) printSummary(report *models.Report) {
	duration := utils.FormatTimeDuration(float64(report.DurationMs) / 1000)

	fmt.Fprintf(pc.Status, "引用 %d 个图标，索引 %d 个图标，未使用 %d 个\n",
		report.UsedCount, report.IndexedCount, len(report.Results))

	if report.DryRun {
		color.New(color.FgYellow).Fprintf(pc.Status, "演练模式：%d 个图标将被删除（%s），用时 %s\n",
			report.Count(models.StatusDryRun), sumSizes(report.Results), duration)
		return
	}

	color.New(color.FgGreen).Fprintf(pc.Status, "已删除 %d 个图标，释放 %s，用时 %s\n",
		report.Count(models.StatusDeleted), utils.FormatFileSize(report.FreedBytes), duration)
	if failed := report.FailedCount(); failed > 0 {
		color.New(color.FgRed).Fprintf(pc.Status, "%d 个图标删除失败\n", failed)
	}
}

func sumSizes(results []models.DeleteResult) string {
	var total int64
	for _, result := range results {
		total += result.Size
	}
	return utils.FormatFileSize(total)
}
