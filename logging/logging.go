// Package logging hands out named zap loggers whose levels can be changed
// at runtime, one atomic level per name.
package logging

import (
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg = zap.Config{
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	mu           sync.Mutex
	levels       = map[string]zap.AtomicLevel{}
	defaultLevel = zapcore.InfoLevel
)

func levelFor(name string) zap.AtomicLevel {
	mu.Lock()
	defer mu.Unlock()
	l, ok := levels[name]
	if !ok {
		l = zap.NewAtomicLevelAt(defaultLevel)
		levels[name] = l
	}
	return l
}

// New returns a logger named name. Loggers sharing a name share a level.
func New(name string) *zap.SugaredLogger {
	c := cfg
	c.Level = levelFor(name)
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}

func SetLevel(name string, level zapcore.Level) {
	levelFor(name).SetLevel(level)
}

func GetLevel(name string) zapcore.Level {
	return levelFor(name).Level()
}

// SetAll changes every existing logger and the level new ones start at.
func SetAll(level zapcore.Level) {
	mu.Lock()
	defer mu.Unlock()
	defaultLevel = level
	for _, l := range levels {
		l.SetLevel(level)
	}
}

// Names lists the loggers created so far.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	n := make([]string, 0, len(levels))
	for k := range levels {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}
