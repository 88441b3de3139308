package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/search"
)

func TestExtractReference(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{`QIcon icon = QIcon::fromTheme("abc-def");`, "abc-def", true},
		{`src/a.cpp:  m_action->setIcon(QIcon::fromTheme("edit-copy"));`, "edit-copy", true},
		{`QIcon::fromTheme("document-new", QIcon(":/new.png"))`, "document-new", true},
		// 只取每行第一个
		{`QIcon::fromTheme("go-up"); QIcon::fromTheme("go-down");`, "go-up", true},
		// 大写、数字、下划线不在字符集中
		{`QIcon::fromTheme("ABCdef")`, "", false},
		{`QIcon::fromTheme("abc_def")`, "", false},
		{`QIcon::fromTheme("media-playback-start2")`, "", false},
		{`QIcon::fromTheme("abcDef")`, "", false},
		{`QIcon::fromTheme(iconName)`, "", false},
		{`QIcon::fromTheme("")`, "", false},
		{`fromTheme ("edit-copy")`, "", false},
	}

	for _, c := range cases {
		name, ok := ExtractReference(c.line)
		assert.Equal(t, c.ok, ok, c.line)
		assert.Equal(t, c.want, name, c.line)
	}
}

func TestExtractUsedIcons(t *testing.T) {
	scanner := NewIconScanner("/icons")
	lines := []search.Match{
		{Path: "a.cpp", Line: `QIcon::fromTheme("edit-copy")`},
		{Path: "b.cpp", Line: `QIcon::fromTheme("edit-copy")`},
		{Path: "b.cpp", Line: `QIcon::fromTheme("edit_cut")`},
		{Path: "c.cpp", Line: `QIcon::fromTheme("go-home")`},
	}

	used := scanner.ExtractUsedIcons(lines)

	// 去重
	assert.Equal(t, []string{"edit-copy", "go-home"}, used.Names())
	assert.False(t, used.Has("edit_cut"))
	assert.False(t, used.Has("edit"))
}

func TestParseIconPath(t *testing.T) {
	cases := []struct {
		path   string
		name   string
		suffix string
		ok     bool
	}{
		{"edit-cut.png", "edit-cut", "edit-cut.png", true},
		{"16x16/actions/edit-copy.png", "edit-copy", "16x16/actions/edit-copy.png", true},
		{"22x22/apps/preferences-desktop-locale.png", "preferences-desktop-locale", "22x22/apps/preferences-desktop-locale.png", true},
		{"48x48/mimetypes/application-x-c++src.png", "application-x-c++src", "48x48/mimetypes/application-x-c++src.png", true},
		{"scalable/kde.1.png", "kde.1", "scalable/kde.1.png", true},
		// 非PNG文件
		{"index.theme", "", "", false},
		{"16x16/actions/edit-copy.svg", "", "", false},
		// 文件名含不允许的字符
		{"16x16/actions/edit_copy.png", "", "", false},
		{"16x16/actions/edit copy.png", "", "", false},
	}

	for _, c := range cases {
		name, suffix, ok := ParseIconPath(c.path)
		assert.Equal(t, c.ok, ok, c.path)
		assert.Equal(t, c.name, name, c.path)
		assert.Equal(t, c.suffix, suffix, c.path)
	}
}

func TestIndexIcons(t *testing.T) {
	iconRoot := filepath.Join("basket", "oxygen")
	scanner := NewIconScanner(iconRoot)

	records := []search.Match{
		{Path: "set1/x.png"},
		{Path: "set1/y.png"},
		{Path: "index.theme"},
		{Path: "set2/x.png"},
		// 同一个文件出现多次不算重名
		{Path: "set1/y.png"},
	}

	index := scanner.IndexIcons(records)

	assert.Equal(t, []string{"x", "y"}, index.Names())

	// 后出现的路径覆盖先出现的路径
	path, ok := index.Get("x")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(iconRoot, "set2", "x.png"), path)

	path, ok = index.Get("y")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(iconRoot, "set1", "y.png"), path)
}
