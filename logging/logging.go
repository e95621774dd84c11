// Package logging configures the process-wide structured logger.
package logging

import "io"
import "log/slog"
import "os"
import "strings"

import "github.com/klauspost/cpuid/v2"

import "github.com/neurlang/textcnn/tensor"

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "TEXTCNN_LOG_LEVEL"

var level = new(slog.LevelVar)

// Configure installs a TextHandler writing to w as the default logger. The
// level is read from TEXTCNN_LOG_LEVEL (DEBUG, INFO, WARN or ERROR) and
// defaults to INFO.
func Configure(w io.Writer) *slog.Logger {
	level.Set(ParseLevel(os.Getenv(EnvLevel)))
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}

// ParseLevel maps a level name to a slog level, INFO if unknown.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// SetLevel changes the level of the logger installed by Configure.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// CPU logs the processor and the selected math kernels.
func CPU(l *slog.Logger) {
	l.Info("cpu",
		"brand", cpuid.CPU.BrandName,
		"physical_cores", cpuid.CPU.PhysicalCores,
		"logical_cores", cpuid.CPU.LogicalCores,
		"avx2", cpuid.CPU.Supports(cpuid.AVX2),
		"fma3", cpuid.CPU.Supports(cpuid.FMA3),
		"unrolled_kernels", tensor.Unrolled,
	)
}
