package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// 搜索后端
const (
	BackendWalk = "walk" // 进程内遍历目录
	BackendGrep = "grep" // 调用外部grep
)

// Config 表示应用程序的配置
type Config struct {
	SourceRoot    string  `json:"source_root" yaml:"source_root" env:"SOURCE_ROOT"`          // 源码根目录
	IconRoot      string  `json:"icon_root" yaml:"icon_root" env:"ICON_ROOT"`                // 图标集根目录
	SearchBackend string  `json:"search_backend" yaml:"search_backend" env:"BACKEND"`        // 搜索后端 (walk, grep)
	GrepPath      string  `json:"grep_path" yaml:"grep_path" env:"GREP_PATH"`                // grep可执行文件
	SearchLiteral string  `json:"search_literal" yaml:"search_literal" env:"SEARCH_LITERAL"` // 源码中搜索的字面量
	DryRun        bool    `json:"dry_run" yaml:"dry_run" env:"DRY_RUN"`                      // 只打印不删除
	ShowProgress  bool    `json:"show_progress" yaml:"show_progress" env:"SHOW_PROGRESS"`    // 显示进度条
	ReportFile    string  `json:"report_file" yaml:"report_file" env:"REPORT_FILE"`          // JSON报告输出路径
	WatchDebounce float64 `json:"watch_debounce" yaml:"watch_debounce" env:"WATCH_DEBOUNCE"` // 监听模式防抖时间（秒）
	LogLevel      string  `json:"log_level" yaml:"log_level" env:"LOG_LEVEL"`                // 日志级别
	LogFile       string  `json:"log_file" yaml:"log_file" env:"LOG_FILE"`                   // 日志文件
}

// EnvPrefix 环境变量前缀
const EnvPrefix = "ICONPRUNE_"

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		SourceRoot:    ".",
		IconRoot:      "./oxygen",
		SearchBackend: BackendWalk,
		GrepPath:      "grep",
		SearchLiteral: "QIcon::fromTheme",
		DryRun:        false,
		ShowProgress:  false,
		ReportFile:    "",
		WatchDebounce: 2.0,
		LogLevel:      "INFO",
		LogFile:       "",
	}
}

// Validate 验证配置是否有效，目录是否存在在运行时检查
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceRoot) == "" {
		return &ConfigValidationError{"SourceRoot", "不能为空"}
	}

	if strings.TrimSpace(c.IconRoot) == "" {
		return &ConfigValidationError{"IconRoot", "不能为空"}
	}

	switch c.SearchBackend {
	case BackendWalk:
	case BackendGrep:
		if c.GrepPath == "" {
			return &ConfigValidationError{"GrepPath", "使用grep后端时不能为空"}
		}
	default:
		return &ConfigValidationError{"SearchBackend", "必须是 walk 或 grep"}
	}

	if c.SearchLiteral == "" {
		return &ConfigValidationError{"SearchLiteral", "不能为空"}
	}

	if c.WatchDebounce < 0.1 || c.WatchDebounce > 60.0 {
		return &ConfigValidationError{"WatchDebounce", "必须在0.1-60.0秒之间"}
	}

	return nil
}

// LoadFromFile 从文件加载配置，按扩展名选择JSON或YAML
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("读取配置文件失败: %v", err)
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		logrus.Errorf("解析配置文件失败: %v", err)
		return err
	}

	if err := c.Validate(); err != nil {
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// ApplyEnv 用环境变量覆盖配置，变量名带 ICONPRUNE_ 前缀
func (c *Config) ApplyEnv() error {
	tempConfig := *c

	err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
	if err != nil {
		*c = tempConfig
		return fmt.Errorf("解析环境变量失败: %w", err)
	}

	if err := c.Validate(); err != nil {
		*c = tempConfig
		return err
	}

	return nil
}

// SaveToFile 保存配置到文件
func (c *Config) SaveToFile(path string) error {
	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logrus.Errorf("创建目录失败: %v", err)
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return err
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		logrus.Errorf("写入配置文件失败: %v", err)
		return err
	}

	return nil
}

// Reset 重置为默认配置
func (c *Config) Reset() {
	defaultConfig := NewDefaultConfig()
	*c = *defaultConfig
}

// PrintConfig 打印当前配置
func (c *Config) PrintConfig() {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return
	}
	logrus.Debugf("当前配置:\n%s", string(bytes))
}
