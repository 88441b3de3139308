package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccp-p/asr-media-cli/icon-pruner/internal/controller"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// options 命令行参数，只有显式设置的参数会覆盖配置
type options struct {
	configFile string
	sourceRoot string
	iconRoot   string
	backend    string
	dryRun     bool
	reportFile string
	progress   bool
	logLevel   string
	logFile    string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "iconprune",
	Short: "删除源码中没有通过 QIcon::fromTheme 引用的图标",
	Long: `在源码目录中搜索 QIcon::fromTheme("name") 调用，
为图标目录中的所有 PNG 文件建立索引，删除没有被引用的图标。
每个未使用的图标在标准输出打印一行 "名字 - 路径"，删除失败时再打印 "Failed路径"。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPrune,
}

func init() {
	bindFlags(rootCmd.PersistentFlags(), &opts)
	rootCmd.AddCommand(pruneCmd, statsCmd, watchCmd)
}

// bindFlags 注册所有命令共用的参数
func bindFlags(flags *pflag.FlagSet, o *options) {
	flags.StringVar(&o.configFile, "config", "", "配置文件路径 (.json, .yaml, .yml)")
	flags.StringVar(&o.sourceRoot, "source", "", "源码根目录")
	flags.StringVar(&o.iconRoot, "icons", "", "图标集根目录")
	flags.StringVar(&o.backend, "backend", "", "搜索后端 (walk, grep)")
	flags.BoolVar(&o.dryRun, "dry-run", false, "只打印不删除")
	flags.StringVar(&o.reportFile, "report", "", "JSON报告输出路径")
	flags.BoolVar(&o.progress, "progress", false, "显示进度条")
	flags.StringVar(&o.logLevel, "log-level", "", "日志级别 (VERBOSE, INFO, WARN)")
	flags.StringVar(&o.logFile, "log-file", "", "日志文件路径")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// 日志可能尚未初始化
		color.New(color.FgRed).Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 按 默认值 < 配置文件 < 环境变量 < 命令行参数 的顺序合并配置
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	config := models.NewDefaultConfig()

	if opts.configFile != "" {
		if err := config.LoadFromFile(opts.configFile); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		config.SourceRoot = opts.sourceRoot
	}
	if flags.Changed("icons") {
		config.IconRoot = opts.iconRoot
	}
	if flags.Changed("backend") {
		config.SearchBackend = opts.backend
	}
	if flags.Changed("dry-run") {
		config.DryRun = opts.dryRun
	}
	if flags.Changed("report") {
		config.ReportFile = opts.reportFile
	}
	if flags.Changed("progress") {
		config.ShowProgress = opts.progress
	}
	if flags.Changed("log-level") {
		config.LogLevel = opts.logLevel
	}
	if flags.Changed("log-file") {
		config.LogFile = opts.logFile
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setup 加载配置、初始化日志并创建控制器
func setup(cmd *cobra.Command) (*controller.PruneController, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := utils.InitLogger(config.LogLevel, config.LogFile); err != nil {
		return nil, err
	}
	config.PrintConfig()

	pc, err := controller.NewPruneController(config)
	if err != nil {
		logrus.Errorf("初始化失败: %v", err)
		return nil, err
	}
	return pc, nil
}
