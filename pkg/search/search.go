// Package search 提供递归文本搜索能力，分别用于搜索源码树和图标树。
package search

import (
	"context"
	"fmt"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// Match 一条搜索结果
type Match struct {
	Path string // 相对于搜索根目录的路径，使用 / 分隔
	Line string // 匹配的行内容，FilesOnly模式下为空
}

// Query 搜索条件
type Query struct {
	Root      string // 搜索根目录
	Literal   string // 需要包含的字面量，为空表示匹配任何非空行
	FilesOnly bool   // 每个文件只返回一条结果
}

// Searcher 递归搜索目录中的文本行
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Match, error)
}

// NewSearcher 根据配置创建搜索器
func NewSearcher(config *models.Config) (Searcher, error) {
	switch config.SearchBackend {
	case models.BackendWalk, "":
		return NewWalkSearcher(), nil
	case models.BackendGrep:
		return NewGrepSearcher(config.GrepPath), nil
	default:
		return nil, fmt.Errorf("未知的搜索后端: %s", config.SearchBackend)
	}
}

func checkRoot(root string) error {
	return utils.RequireDir("搜索目录", root)
}
