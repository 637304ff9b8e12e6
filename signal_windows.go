//go:build windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler 注册信号监听（Windows版仅包含基础信号）
func setupSignalHandler(sigCh chan os.Signal) {
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
}
