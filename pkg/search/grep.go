package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// GrepSearcher 调用外部grep进行递归搜索
type GrepSearcher struct {
	GrepPath string
}

// NewGrepSearcher 创建grep搜索器
func NewGrepSearcher(grepPath string) *GrepSearcher {
	if grepPath == "" {
		grepPath = "grep"
	}
	return &GrepSearcher{GrepPath: grepPath}
}

// CheckGrep 检查grep是否可用
func (s *GrepSearcher) CheckGrep() error {
	if _, err := exec.LookPath(s.GrepPath); err != nil {
		return utils.NewKindError(utils.ErrSearchToolUnavailable, "未找到grep: "+s.GrepPath, err)
	}
	return nil
}

// Search 运行 grep -R，文件名与内容之间用NUL分隔
func (s *GrepSearcher) Search(ctx context.Context, q Query) ([]Match, error) {
	if err := checkRoot(q.Root); err != nil {
		return nil, err
	}
	if err := s.CheckGrep(); err != nil {
		return nil, err
	}

	args := grepArgs(q)
	cmd := exec.CommandContext(ctx, s.GrepPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	utils.Debug("执行命令: %s %s", s.GrepPath, strings.Join(args, " "))

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
			// 没有匹配
			return nil, nil
		case errors.As(err, &exitErr) && stdout.Len() > 0:
			// 部分文件不可读时grep返回2，但已输出的结果仍然有效
			utils.Warn("grep 返回 %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		case errors.As(err, &exitErr):
			return nil, fmt.Errorf("grep 执行失败: %s: %w", strings.TrimSpace(stderr.String()), err)
		default:
			return nil, utils.NewKindError(utils.ErrSearchToolUnavailable, "无法启动grep", err)
		}
	}

	var matches []Match
	if q.FilesOnly {
		matches = parseFileList(stdout.Bytes(), q.Root)
	} else {
		matches = parseLines(stdout.Bytes(), q.Root)
	}

	utils.Debug("搜索 %s 完成，共 %d 条结果", q.Root, len(matches))
	return matches, nil
}

// grepArgs 构造grep参数
func grepArgs(q Query) []string {
	args := []string{"-R", "-Z"}
	if q.FilesOnly {
		args = append(args, "-l")
	}
	if q.Literal == "" {
		// 任何非空行，二进制文件也按文本处理
		args = append(args, "-a", "-e", ".")
	} else {
		args = append(args, "-F", "-e", q.Literal)
	}
	return append(args, "--", q.Root)
}

// parseLines 解析 "路径\x00内容" 格式的输出
func parseLines(out []byte, root string) []Match {
	var matches []Match
	for _, line := range strings.Split(string(out), "\n") {
		path, content, ok := strings.Cut(line, "\x00")
		if !ok {
			// 例如 "Binary file ... matches"
			continue
		}
		matches = append(matches, Match{Path: relPath(root, path), Line: content})
	}
	return matches
}

// parseFileList 解析 -l -Z 输出的文件列表
func parseFileList(out []byte, root string) []Match {
	var matches []Match
	for _, path := range strings.Split(string(out), "\x00") {
		path = strings.TrimPrefix(path, "\n")
		if path == "" {
			continue
		}
		matches = append(matches, Match{Path: relPath(root, path)})
	}
	return matches
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
