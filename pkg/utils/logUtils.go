package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v2"
)

const (
	buildInfoFilename = "build-info.yaml"
	buildInfoPrefix   = "build."
	modulePath        = "github.com/todo-app/todo-backend"
)

type BuildInfoMode int

const (
	BuildInfoNever BuildInfoMode = iota
	BuildInfoOnce
	BuildInfoAlways
)

type LoggerConfig struct {
	LogToFile        bool   `json:"log_to_file" yaml:"log_to_file"`
	Filename         string `json:"filename" yaml:"filename"`
	MaxSize          int    `json:"max_size" yaml:"max_size"`
	MaxAge           int    `json:"max_age" yaml:"max_age"`
	MaxBackups       int    `json:"max_backups" yaml:"max_backups"`
	LogLevel         string `json:"log_level" yaml:"log_level"`
	IncludeSrc       bool   `json:"include_src" yaml:"include_src"`
	CompressOldLogs  bool   `json:"compress_old_logs" yaml:"compress_old_logs"`
	IncludeBuildInfo string `json:"include_build_info" yaml:"include_build_info"` // never, always, once
}

// buildInfoHandler adds the build info attributes to every record
type buildInfoHandler struct {
	slog.Handler
	buildInfoAttrs []slog.Attr
}

func (h *buildInfoHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.buildInfoAttrs...)
	return h.Handler.Handle(ctx, r)
}

func (h *buildInfoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &buildInfoHandler{Handler: h.Handler.WithAttrs(attrs), buildInfoAttrs: h.buildInfoAttrs}
}

func (h *buildInfoHandler) WithGroup(name string) slog.Handler {
	return &buildInfoHandler{Handler: h.Handler.WithGroup(name), buildInfoAttrs: h.buildInfoAttrs}
}

// InitLogger configures the default slog logger
func InitLogger(conf LoggerConfig) {
	slog.SetDefault(NewLogger(conf, os.Stdout))

	if getBuildInfoMode(conf.IncludeBuildInfo) == BuildInfoOnce {
		attrs := loadBuildInfoAsSlogAttrs(buildInfoFilename, buildInfoPrefix)
		args := make([]any, len(attrs))
		for i, attr := range attrs {
			args[i] = attr
		}
		slog.Info("Build info", args...)
	}
}

func NewLogger(conf LoggerConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     logLevelFromString(conf.LogLevel),
		AddSource: conf.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
					source.Function = strings.ReplaceAll(source.Function, modulePath, "")
				}
			}
			return a
		},
	}

	w := out
	if conf.LogToFile && conf.Filename != "" {
		logTarget := &lumberjack.Logger{
			Filename:   conf.Filename,
			MaxSize:    conf.MaxSize,         // megabytes
			MaxAge:     conf.MaxAge,          // days
			Compress:   conf.CompressOldLogs, // compress old files
			MaxBackups: conf.MaxBackups,
		}
		w = io.MultiWriter(out, logTarget)
	}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if getBuildInfoMode(conf.IncludeBuildInfo) == BuildInfoAlways {
		handler = &buildInfoHandler{
			Handler:        handler,
			buildInfoAttrs: loadBuildInfoAsSlogAttrs(buildInfoFilename, buildInfoPrefix),
		}
	}
	return slog.New(handler)
}

func logLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getBuildInfoMode(includeBuildInfo string) BuildInfoMode {
	switch includeBuildInfo {
	case "always":
		return BuildInfoAlways
	case "once":
		return BuildInfoOnce
	default:
		return BuildInfoNever
	}
}

func loadBuildInfoAsSlogAttrs(filename, prefix string) []slog.Attr {
	data, err := os.ReadFile(filename)
	if err != nil {
		panic("Error reading build info file: " + err.Error())
	}

	buildInfo := make(map[string]string)
	if err := yaml.Unmarshal(data, &buildInfo); err != nil {
		panic("Error parsing build info: " + err.Error())
	}

	attrs := make([]slog.Attr, 0, len(buildInfo))
	for k, v := range buildInfo {
		attrs = append(attrs, slog.String(fmt.Sprintf("%s%s", prefix, k), v))
	}
	return attrs
}
