//go:build !linux

package stack

import "go.uber.org/zap"

// New 其他平台没有 EWMH，用 Nop
func New(className string, logger *zap.Logger) Hinter {
	logger.Debug("stacking hints not supported on this platform")
	return Nop{}
}
