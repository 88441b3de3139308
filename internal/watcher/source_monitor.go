package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// ChangeHandler 处理源码树变化的接口
type ChangeHandler interface {
	OnSourceChanged(paths []string)
}

// SourceMonitor 递归监控源码目录，图标目录下的变化被忽略
type SourceMonitor struct {
	watcher      *fsnotify.Watcher
	sourceRoot   string
	ignoreRoots  []string
	ignoreFiles  []string
	handler      ChangeHandler
	debounceTime time.Duration
	pending      map[string]struct{}
	timer        *time.Timer
	mutex        sync.Mutex
	stopChan     chan struct{}
	stopOnce     sync.Once
	started      bool
	done         chan struct{}
}

// NewSourceMonitor 创建新的源码监控器
func NewSourceMonitor(sourceRoot string, handler ChangeHandler, debounceTime time.Duration, ignoreRoots ...string) (*SourceMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	monitor := &SourceMonitor{
		watcher:      watcher,
		sourceRoot:   sourceRoot,
		ignoreRoots:  ignoreRoots,
		handler:      handler,
		debounceTime: debounceTime,
		pending:      make(map[string]struct{}),
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}

	return monitor, nil
}

// Start 开始监控源码目录
func (m *SourceMonitor) Start() error {
	if err := utils.RequireDir("source_root", m.sourceRoot); err != nil {
		return err
	}

	if err := m.addTree(m.sourceRoot); err != nil {
		return fmt.Errorf("添加监控目录失败: %w", err)
	}

	// 启动监控协程
	m.started = true
	go m.watchLoop()

	utils.Info("开始监控源码目录: %s", m.sourceRoot)
	return nil
}

// Stop 停止监控
func (m *SourceMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.watcher.Close()
		if m.started {
			<-m.done
		}

		// 取消待处理的定时器
		m.mutex.Lock()
		if m.timer != nil {
			m.timer.Stop()
		}
		m.mutex.Unlock()

		utils.Info("停止监控源码目录: %s", m.sourceRoot)
	})
}

// addTree 将目录及其子目录加入监控，fsnotify本身不递归
func (m *SourceMonitor) addTree(root string) error {
	return godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if m.isIgnored(osPathname) {
				return godirwalk.SkipThis
			}
			if strings.HasPrefix(de.Name(), ".") && osPathname != filepath.Clean(root) {
				return godirwalk.SkipThis
			}
			return m.watcher.Add(osPathname)
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			utils.Warn("访问路径出错: %s: %v", osPathname, err)
			return godirwalk.SkipNode
		},
		Unsorted: true,
	})
}

// watchLoop 监控循环
func (m *SourceMonitor) watchLoop() {
	defer close(m.done)
	for {
		select {
		case <-m.stopChan:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleEvent(event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			utils.Error("监控源码目录时出错: %v", err)
		}
	}
}

// IgnoreFiles 忽略程序自己写入的文件，例如报告和日志，日志轮转产生的备份同样忽略
func (m *SourceMonitor) IgnoreFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		m.ignoreFiles = append(m.ignoreFiles, path)
	}
}

// isIgnored 判断路径是否位于忽略的目录中或是被忽略的文件
func (m *SourceMonitor) isIgnored(path string) bool {
	for _, root := range m.ignoreRoots {
		if root != "" && utils.IsWithin(root, path) {
			return true
		}
	}
	if len(m.ignoreFiles) == 0 {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, file := range m.ignoreFiles {
		if abs == file || isRotatedBackup(file, abs) {
			return true
		}
	}
	return false
}

// isRotatedBackup 判断是否为 lumberjack 的备份文件：name-时间戳.ext，可能带 .gz
func isRotatedBackup(file, path string) bool {
	if filepath.Dir(file) != filepath.Dir(path) {
		return false
	}
	ext := filepath.Ext(file)
	prefix := strings.TrimSuffix(filepath.Base(file), ext) + "-"
	name := strings.TrimSuffix(filepath.Base(path), ".gz")
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext)
}

// 处理文件事件
func (m *SourceMonitor) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || m.isIgnored(event.Name) {
		return
	}

	// 新建的目录需要加入监控
	if event.Op&fsnotify.Create != 0 && utils.CheckDirExists(event.Name) {
		if err := m.addTree(event.Name); err != nil {
			utils.Warn("添加监控目录失败: %s: %v", event.Name, err)
		}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.pending[event.Name] = struct{}{}

	// 重置防抖定时器
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounceTime, m.flush)

	utils.Debug("检测到源码变化: %s (%s)", event.Name, event.Op)
}

// flush 将积累的变化交给处理器
func (m *SourceMonitor) flush() {
	m.mutex.Lock()
	paths := make([]string, 0, len(m.pending))
	for path := range m.pending {
		paths = append(paths, path)
	}
	m.pending = make(map[string]struct{})
	m.timer = nil
	m.mutex.Unlock()

	select {
	case <-m.stopChan:
		return
	default:
	}

	if len(paths) == 0 || m.handler == nil {
		return
	}
	sort.Strings(paths)
	m.handler.OnSourceChanged(paths)
}
