package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 日志级别常量
const (
	LogLevelVerbose = "VERBOSE"
	LogLevelNormal  = "INFO"
	LogLevelQuiet   = "WARN"
)

var (
	// Log 全局日志实例
	Log *logrus.Logger
	// 控制台输出，标准输出留给删除记录
	consoleOutput io.Writer = os.Stderr
	// 当前打开的日志文件
	logFileWriter *lumberjack.Logger
)

// InitLogger 初始化日志系统
// level: 日志级别 (VERBOSE/INFO/WARN，也接受logrus的级别名)
// logFile: 日志文件路径，空字符串表示仅输出到控制台
func InitLogger(level string, logFile string) error {
	// 创建logger实例
	Log = logrus.New()

	// 设置日志格式
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if logFileWriter != nil {
		logFileWriter.Close()
		logFileWriter = nil
	}

	if logFile != "" {
		// 确保日志目录存在
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}

		logFileWriter = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // 天
		}

		// 同时输出到文件和控制台
		Log.SetOutput(io.MultiWriter(consoleOutput, logFileWriter))
	} else {
		Log.SetOutput(consoleOutput)
	}

	Log.SetLevel(parseLevel(level))

	// 直接使用logrus的包保持同样的输出
	logrus.SetFormatter(Log.Formatter)
	logrus.SetOutput(Log.Out)
	logrus.SetLevel(Log.GetLevel())
	return nil
}

// SetConsoleOutput 替换控制台输出，测试中用于捕获日志
func SetConsoleOutput(w io.Writer) {
	consoleOutput = w
	if Log != nil && logFileWriter == nil {
		Log.SetOutput(w)
		logrus.SetOutput(w)
	}
}

func parseLevel(level string) logrus.Level {
	switch level {
	case LogLevelVerbose:
		return logrus.DebugLevel
	case LogLevelNormal:
		return logrus.InfoLevel
	case LogLevelQuiet:
		return logrus.WarnLevel
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}

// Debug 输出调试日志
func Debug(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Debugf(format, args...)
		} else {
			Log.Debug(format)
		}
	}
}

// Info 输出信息日志
func Info(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Infof(format, args...)
		} else {
			Log.Info(format)
		}
	}
}

// Warn 输出警告日志
func Warn(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Warnf(format, args...)
		} else {
			Log.Warn(format)
		}
	}
}

// Error 输出错误日志
func Error(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Errorf(format, args...)
		} else {
			Log.Error(format)
		}
	}
}

// Fatal 输出致命错误日志并退出
func Fatal(format string, args ...interface{}) {
	if Log == nil {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
		os.Exit(1)
	}
	if len(args) > 0 {
		Log.Fatalf(format, args...)
	} else {
		Log.Fatal(format)
	}
}

// WithField 创建带字段的日志条目
func WithField(key string, value interface{}) *logrus.Entry {
	if Log == nil {
		InitLogger(LogLevelNormal, "")
	}
	return Log.WithField(key, value)
}

// WithFields 创建带多个字段的日志条目
func WithFields(fields logrus.Fields) *logrus.Entry {
	if Log == nil {
		InitLogger(LogLevelNormal, "")
	}
	return Log.WithFields(fields)
}
