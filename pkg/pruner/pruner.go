// Package pruner 删除没有被源码引用的图标文件。
package pruner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// Remover 删除单个文件
type Remover interface {
	Remove(path string) error
}

// OSRemover 使用操作系统删除文件，目录不会被删除
type OSRemover struct{}

// Remove 删除普通文件
func (OSRemover) Remove(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	return os.Remove(path)
}

// ProgressCallback 进度回调函数类型
type ProgressCallback func(current, total int, name string)

// Pruner 比较引用集合与图标索引，删除未使用的图标
type Pruner struct {
	Out              io.Writer // 删除记录输出
	Remover          Remover
	DryRun           bool
	ProgressCallback ProgressCallback
	Errors           *utils.ErrorHandler
}

// NewPruner 创建清理器
func NewPruner(out io.Writer, dryRun bool) *Pruner {
	return &Pruner{
		Out:     out,
		Remover: OSRemover{},
		DryRun:  dryRun,
		Errors:  utils.NewErrorHandler(),
	}
}

// Unused 按索引顺序返回未被引用的图标名
func Unused(used models.UsedIcons, index *models.IconIndex) []string {
	var names []string
	for _, name := range index.Names() {
		if !used.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// Prune 对每个未被引用的图标打印 "名字 - 路径" 并尝试删除。
// 删除失败打印 "Failed路径" 后继续处理下一个。
func (p *Pruner) Prune(used models.UsedIcons, index *models.IconIndex) []models.DeleteResult {
	unused := Unused(used, index)
	results := make([]models.DeleteResult, 0, len(unused))

	for i, name := range unused {
		path, _ := index.Get(name)
		fmt.Fprintf(p.Out, "%s - %s\n", name, path)

		result := p.remove(name, path)
		if result.Failed() {
			fmt.Fprintf(p.Out, "Failed%s\n", path)
			utils.Warn("删除失败: %v", result.Err)
			p.Errors.Record("delete", result.Err)
		}
		results = append(results, result)

		if p.ProgressCallback != nil {
			p.ProgressCallback(i+1, len(unused), name)
		}
	}

	return results
}

// remove 删除单个文件并归类结果
func (p *Pruner) remove(name, path string) models.DeleteResult {
	result := models.DeleteResult{
		Name: name,
		Path: path,
		Size: utils.FileSize(path),
	}

	if p.DryRun {
		result.Status = models.StatusDryRun
		return result
	}

	err := utils.ClassifyRemoveError(path, p.Remover.Remove(path))
	switch {
	case err == nil:
		result.Status = models.StatusDeleted
		utils.Debug("已删除: %s", path)
		return result
	case errors.Is(err, utils.ErrDeletionTargetMissing):
		result.Status = models.StatusMissing
	case errors.Is(err, utils.ErrDeletionDenied):
		result.Status = models.StatusDenied
	default:
		result.Status = models.StatusFailed
	}

	result.Err = err
	result.Error = err.Error()
	return result
}
