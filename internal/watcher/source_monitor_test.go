package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler 记录每次回调收到的路径
type recordingHandler struct {
	mu    sync.Mutex
	calls [][]string
}

func (h *recordingHandler) OnSourceChanged(paths []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, paths)
}

func (h *recordingHandler) Calls() [][]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]string(nil), h.calls...)
}

func setupSource(t *testing.T) (string, string) {
	t.Helper()
	sourceDir := t.TempDir()
	iconDir := filepath.Join(sourceDir, "oxygen")
	require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "src"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(iconDir, "16x16"), 0755))
	return sourceDir, iconDir
}

func TestSourceMonitorDebounce(t *testing.T) {
	sourceDir, iconDir := setupSource(t)
	handler := &recordingHandler{}

	monitor, err := NewSourceMonitor(sourceDir, handler, 100*time.Millisecond, iconDir)
	require.NoError(t, err)
	require.NoError(t, monitor.Start())
	defer monitor.Stop()

	// 连续写入两个文件只触发一次
	file1 := filepath.Join(sourceDir, "src", "a.cpp")
	file2 := filepath.Join(sourceDir, "src", "b.cpp")
	require.NoError(t, os.WriteFile(file1, []byte(`QIcon::fromTheme("edit-copy");`), 0644))
	require.NoError(t, os.WriteFile(file2, []byte(`QIcon::fromTheme("edit-cut");`), 0644))

	assert.Eventually(t, func() bool { return len(handler.Calls()) == 1 }, 3*time.Second, 20*time.Millisecond)

	calls := handler.Calls()
	assert.Contains(t, calls[0], file1)
	assert.Contains(t, calls[0], file2)
}

func TestSourceMonitorIgnoresIconRoot(t *testing.T) {
	sourceDir, iconDir := setupSource(t)
	handler := &recordingHandler{}

	monitor, err := NewSourceMonitor(sourceDir, handler, 50*time.Millisecond, iconDir)
	require.NoError(t, err)
	require.NoError(t, monitor.Start())
	defer monitor.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(iconDir, "16x16", "x.png"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(iconDir, "y.png"), []byte("png"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, handler.Calls())
}

func TestSourceMonitorNewDirectory(t *testing.T) {
	sourceDir, iconDir := setupSource(t)
	handler := &recordingHandler{}

	monitor, err := NewSourceMonitor(sourceDir, handler, 50*time.Millisecond, iconDir)
	require.NoError(t, err)
	require.NoError(t, monitor.Start())
	defer monitor.Stop()

	newDir := filepath.Join(sourceDir, "src", "gui")
	require.NoError(t, os.Mkdir(newDir, 0755))
	assert.Eventually(t, func() bool { return len(handler.Calls()) == 1 }, 3*time.Second, 20*time.Millisecond)

	// 新目录中的文件同样被监控
	newFile := filepath.Join(newDir, "window.cpp")
	require.NoError(t, os.WriteFile(newFile, []byte("x"), 0644))
	assert.Eventually(t, func() bool { return len(handler.Calls()) == 2 }, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, handler.Calls()[1], newFile)
}

func TestHandleEventFiltersChmod(t *testing.T) {
	sourceDir, iconDir := setupSource(t)
	handler := &recordingHandler{}

	monitor, err := NewSourceMonitor(sourceDir, handler, time.Hour, iconDir)
	require.NoError(t, err)
	defer monitor.Stop()

	monitor.handleEvent(fsnotify.Event{Name: filepath.Join(sourceDir, "a.cpp"), Op: fsnotify.Chmod})
	monitor.handleEvent(fsnotify.Event{Name: filepath.Join(iconDir, "a.png"), Op: fsnotify.Write})
	assert.Empty(t, monitor.pending)

	monitor.handleEvent(fsnotify.Event{Name: filepath.Join(sourceDir, "a.cpp"), Op: fsnotify.Write})
	assert.Len(t, monitor.pending, 1)

	// 手动触发
	monitor.flush()
	assert.Equal(t, [][]string{{filepath.Join(sourceDir, "a.cpp")}}, handler.Calls())
	assert.Empty(t, monitor.pending)
}

func TestStartInvalidRoot(t *testing.T) {
	monitor, err := NewSourceMonitor(filepath.Join(t.TempDir(), "missing"), &recordingHandler{}, time.Second)
	require.NoError(t, err)
	assert.Error(t, monitor.Start())
	monitor.Stop()
}

func TestIgnoreFiles(t *testing.T) {
	sourceDir, iconDir := setupSource(t)
	handler := &recordingHandler{}

	monitor, err := NewSourceMonitor(sourceDir, handler, time.Hour, iconDir)
	require.NoError(t, err)
	defer monitor.Stop()

	report := filepath.Join(sourceDir, "reports", "iconprune.json")
	logFile := filepath.Join(sourceDir, "logs", "iconprune.log")
	monitor.IgnoreFiles(report, "", logFile)

	ignored := []string{
		report,
		logFile,
		filepath.Join(sourceDir, "logs", "iconprune-2026-10-16T10-00-00.000.log"),
		filepath.Join(sourceDir, "logs", "iconprune-2026-10-16T10-00-00.000.log.gz"),
	}
	for _, path := range ignored {
		monitor.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	}
	assert.Empty(t, monitor.pending)

	// 同目录的其他文件照常处理
	other := filepath.Join(sourceDir, "reports", "notes.json")
	monitor.handleEvent(fsnotify.Event{Name: other, Op: fsnotify.Write})
	assert.Equal(t, map[string]struct{}{other: {}}, monitor.pending)
}
