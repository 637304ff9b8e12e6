package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/op/go-logging"
)

const moduleName = "bio-shop-vpn"

var (
	logger *logging.Logger

	logBufferMu sync.RWMutex
	logBuffer   []struct {
		time  string
		level logging.Level
		log   string
	}
	logFile *os.File
)

func init() {
	InitLogger(logging.INFO, "")
}

// InitLogger 初始化日志，filePath 非空时日志同时写入该文件
func InitLogger(level logging.Level, filePath string) {
	newLogger := logging.MustGetLogger(moduleName)
	format := logging.MustStringFormatter(`%{time:2006/01/02 15:04:05} %{level} - %{message}`)

	backends := []logging.Backend{
		leveled(logging.NewLogBackend(os.Stderr, "", 0), format, level),
	}

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法创建日志文件 %s: %v\n", filePath, err)
		} else {
			if logFile != nil {
				_ = logFile.Close()
			}
			logFile = file
			backends = append(backends, leveled(logging.NewLogBackend(file, "", 0), format, level))
		}
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

func leveled(backend logging.Backend, format logging.Formatter, level logging.Level) logging.LeveledBackend {
	backendLeveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	backendLeveled.SetLevel(level, moduleName)
	return backendLeveled
}

// Close 关闭日志文件（如果有）
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func Debug(args ...any) {
	logger.Debug(args...)
	addToBuffer("DEBUG", fmt.Sprint(args...))
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
	addToBuffer("DEBUG", fmt.Sprintf(format, args...))
}

func Info(args ...any) {
	logger.Info(args...)
	addToBuffer("INFO", fmt.Sprint(args...))
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
	addToBuffer("INFO", fmt.Sprintf(format, args...))
}

func Notice(args ...any) {
	logger.Notice(args...)
	addToBuffer("NOTICE", fmt.Sprint(args...))
}

func Noticef(format string, args ...any) {
	logger.Noticef(format, args...)
	addToBuffer("NOTICE", fmt.Sprintf(format, args...))
}

func Warning(args ...any) {
	logger.Warning(args...)
	addToBuffer("WARNING", fmt.Sprint(args...))
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
	addToBuffer("WARNING", fmt.Sprintf(format, args...))
}

func Error(args ...any) {
	logger.Error(args...)
	addToBuffer("ERROR", fmt.Sprint(args...))
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
	addToBuffer("ERROR", fmt.Sprintf(format, args...))
}

const maxBufferSize = 200

func addToBuffer(level string, newLog string) {
	logLevel, _ := logging.LogLevel(level)

	logBufferMu.Lock()
	defer logBufferMu.Unlock()

	if len(logBuffer) >= maxBufferSize {
		logBuffer = logBuffer[1:]
	}
	logBuffer = append(logBuffer, struct {
		time  string
		level logging.Level
		log   string
	}{
		time:  time.Now().Format("2006/01/02 15:04:05"),
		level: logLevel,
		log:   newLog,
	})
}

// GetLogs 返回最近 c 条不低于 level 的日志，新的在前
func GetLogs(c int, level string) []string {
	var output []string
	logLevel, _ := logging.LogLevel(level)

	logBufferMu.RLock()
	defer logBufferMu.RUnlock()

	for i := len(logBuffer) - 1; i >= 0 && len(output) < c; i-- {
		if logBuffer[i].level <= logLevel {
			output = append(output, fmt.Sprintf("%s %s - %s", logBuffer[i].time, logBuffer[i].level, logBuffer[i].log))
		}
	}
	return output
}
