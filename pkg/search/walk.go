package search

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// WalkSearcher 在进程内遍历目录并逐行匹配
type WalkSearcher struct {
	// MaxLineSize 单行最大长度，超过的部分不参与匹配
	MaxLineSize int
}

// NewWalkSearcher 创建遍历搜索器
func NewWalkSearcher() *WalkSearcher {
	return &WalkSearcher{MaxLineSize: 1024 * 1024}
}

// Search 按字典序遍历Root下的普通文件，与 grep -R 一样跟随符号链接
func (s *WalkSearcher) Search(ctx context.Context, q Query) ([]Match, error) {
	if err := checkRoot(q.Root); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []Match
	literal := []byte(q.Literal)
	var ancestors dirStack

	err := godirwalk.Walk(q.Root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			isDir, err := de.IsDirOrSymlinkToDir()
			if err != nil {
				utils.Warn("无法解析符号链接: %s: %v", osPathname, err)
				return nil
			}
			if isDir {
				return ancestors.enter(osPathname)
			}
			if !isRegularFile(osPathname, de) {
				return nil
			}

			rel, err := filepath.Rel(q.Root, osPathname)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			found, err := s.scanFile(osPathname, rel, literal, q.FilesOnly)
			if err != nil {
				utils.Warn("读取文件失败: %s: %v", osPathname, err)
				return nil
			}
			matches = append(matches, found...)
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			utils.Warn("访问路径出错: %s: %v", osPathname, err)
			return godirwalk.SkipNode
		},
		FollowSymbolicLinks: true,
		Unsorted:            false,
	})
	if err != nil {
		return nil, err
	}

	utils.Debug("搜索 %s 完成，共 %d 条结果", q.Root, len(matches))
	return matches, nil
}

// dirStack 当前目录及其上级目录的真实路径
type dirStack []struct{ path, resolved string }

// enter 进入目录。真实路径与某个上级目录相同时说明有循环，跳过该目录
func (st *dirStack) enter(osPathname string) error {
	for len(*st) > 0 && !isChildPath((*st)[len(*st)-1].path, osPathname) {
		*st = (*st)[:len(*st)-1]
	}

	resolved, err := filepath.EvalSymlinks(osPathname)
	if err != nil {
		utils.Warn("无法解析目录: %s: %v", osPathname, err)
		return godirwalk.SkipThis
	}
	for _, dir := range *st {
		if dir.resolved == resolved {
			utils.Warn("目录循环，已跳过: %s", osPathname)
			return godirwalk.SkipThis
		}
	}

	*st = append(*st, struct{ path, resolved string }{osPathname, resolved})
	return nil
}

func isChildPath(parent, path string) bool {
	prefix := strings.TrimSuffix(parent, string(filepath.Separator)) + string(filepath.Separator)
	return strings.HasPrefix(path, prefix)
}

// isRegularFile 普通文件或指向普通文件的符号链接
func isRegularFile(osPathname string, de *godirwalk.Dirent) bool {
	if de.IsRegular() {
		return true
	}
	if !de.IsSymlink() {
		return false
	}
	info, err := os.Stat(osPathname)
	if err != nil {
		utils.Warn("无法访问链接目标: %s: %v", osPathname, err)
		return false
	}
	return info.Mode().IsRegular()
}

// scanFile 逐行扫描单个文件
func (s *WalkSearcher) scanFile(path, rel string, literal []byte, filesOnly bool) ([]Match, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	var matches []Match

	for {
		line, err := readLine(reader, s.MaxLineSize)
		if len(line) > 0 && lineMatches(line, literal) {
			if filesOnly {
				return []Match{{Path: rel}}, nil
			}
			matches = append(matches, Match{Path: rel, Line: string(line)})
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return matches, nil
}

// lineMatches 空字面量匹配任何非空行
func lineMatches(line, literal []byte) bool {
	if len(literal) == 0 {
		return len(line) > 0
	}
	return bytes.Contains(line, literal)
}

// readLine 读取一行，去掉行尾换行符，超长部分被丢弃
func readLine(r *bufio.Reader, max int) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if len(line) < max {
			room := max - len(line)
			if len(chunk) > room {
				line = append(line, chunk[:room]...)
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimSuffix(line, []byte("\n")), err
	}
}
