package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func init() {
	level := slog.LevelInfo
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			panic(fmt.Sprintf("invalid log level: %s", s))
		}
	}

	format := os.Getenv("LOG_FORMAT")
	if format == "" && level == slog.LevelDebug {
		format = "tint"
	}

	slog.SetDefault(newLogger(os.Stdout, level, format, modulePrefix()))
	slog.Debug("logging configured", "level", level, "format", format)
}

// newLogger returns a colored, source-annotated logger for "tint" and a JSON
// logger for anything else.
func newLogger(w io.Writer, level slog.Level, format, prefix string) *slog.Logger {
	if format != "tint" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	replace := func(_ []string, a slog.Attr) slog.Attr {
		if source, ok := a.Value.Any().(*slog.Source); ok && a.Key == slog.SourceKey {
			source.File = trimSource(source.File, prefix)
		}
		if err, ok := a.Value.Any().(error); ok {
			errAttr := tint.Err(err)
			errAttr.Key = a.Key
			return errAttr
		}
		return a
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  time.TimeOnly,
		ReplaceAttr: replace,
		AddSource:   true,
		NoColor:     w != os.Stdout,
	}))
}

// modulePrefix is "/<last module path element>/", used to shorten source
// paths in debug output.
func modulePrefix() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		return "/" + filepath.Base(info.Main.Path) + "/"
	}
	if wd, err := os.Getwd(); err == nil {
		return "/" + filepath.Base(wd) + "/"
	}
	return "/slabcity-studio/"
}

func trimSource(file, prefix string) string {
	if _, rest, ok := strings.Cut(file, prefix); ok {
		return rest
	}
	if i := strings.LastIndex(file, "/src/"); i != -1 {
		return file[i+len("/src/"):]
	}
	return file
}
