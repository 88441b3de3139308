package scanner

import (
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/search"
)

var (
	// fromTheme("name" ，名字只允许小写字母和连字符
	themeLookupPattern = regexp.MustCompile(`fromTheme\("([a-z\-]+)"`)
	// 第一个 /stem.png
	iconStemPattern = regexp.MustCompile(`/([A-Za-z0-9.+\-]+)\.png`)
	// 从第一个 / 到最后一个 stem.png
	iconSuffixPattern = regexp.MustCompile(`/(.*/)?[A-Za-z0-9.+\-]+\.png`)
)

// IconScanner 从搜索结果中提取图标引用并建立图标索引
type IconScanner struct {
	IconRoot string // 图标集根目录，删除路径以它为基准
}

// NewIconScanner 创建新的图标扫描器
func NewIconScanner(iconRoot string) *IconScanner {
	return &IconScanner{IconRoot: iconRoot}
}

// ExtractReference 从一行文本中提取图标名，每行最多一个
func ExtractReference(line string) (string, bool) {
	m := themeLookupPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractUsedIcons 汇总所有被引用的图标名
func (s *IconScanner) ExtractUsedIcons(lines []search.Match) models.UsedIcons {
	used := models.NewUsedIcons()

	for _, line := range lines {
		if name, ok := ExtractReference(line.Line); ok {
			used.Add(name)
		}
	}

	logrus.Infof("共找到 %d 个被引用的图标", len(used))
	return used
}

// ParseIconPath 从相对路径中提取图标名和相对于图标根目录的路径，
// 两个模式都匹配时才有效
func ParseIconPath(relPath string) (name string, suffix string, ok bool) {
	subject := "/" + filepath.ToSlash(relPath)

	stem := iconStemPattern.FindStringSubmatch(subject)
	tail := iconSuffixPattern.FindString(subject)
	if stem == nil || tail == "" {
		return "", "", false
	}
	return stem[1], tail[1:], true
}

// IndexIcons 根据图标树的搜索结果建立索引，同名图标后者覆盖前者
func (s *IconScanner) IndexIcons(records []search.Match) *models.IconIndex {
	index := models.NewIconIndex()
	collisions := 0

	for _, record := range records {
		name, suffix, ok := ParseIconPath(record.Path)
		if !ok {
			continue
		}

		path := filepath.Join(s.IconRoot, filepath.FromSlash(suffix))
		if previous, exists := index.Get(name); exists && previous != path {
			collisions++
			logrus.Debugf("图标 %s 重名: %s 覆盖 %s", name, path, previous)
		}
		index.Set(name, path)
	}

	if collisions > 0 {
		logrus.Warnf("有 %d 个同名图标被覆盖，只有最后出现的路径会被处理", collisions)
	}
	logrus.Infof("索引完成，共 %d 个图标", index.Len())

	return index
}
