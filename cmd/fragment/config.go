// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storj.io/common/memory"
	"storj.io/fragment"
	"storj.io/fragment/private/technique"
)

// Error is the class of command line errors.
var Error = errs.Class("fragment")

// loadConfig binds the flags of cmd to vip. Values come from, in order of
// precedence, the command line, FRAGMENT_* environment variables, the
// --config file and the flag defaults.
func loadConfig(cmd *cobra.Command, vip *viper.Viper) error {
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return Error.Wrap(err)
	}

	vip.SetEnvPrefix("fragment")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	if path := vip.GetString("config"); path != "" {
		vip.SetConfigFile(os.ExpandEnv(path))
		if err := vip.ReadInConfig(); err != nil {
			return Error.New("failed to read config %q: %v", path, err)
		}
	}
	return nil
}

// newLogger creates a logger configured by the log.* settings.
func newLogger(vip *viper.Viper) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(vip.GetString("log.level"))
	if err != nil {
		return nil, Error.Wrap(err)
	}

	levelEncoder := zapcore.CapitalColorLevelEncoder
	if runtime.GOOS == "windows" {
		levelEncoder = zapcore.CapitalLevelEncoder
	}

	timeKey := "T"
	if os.Getenv("FRAGMENT_LOG_NOTIME") != "" {
		timeKey = ""
	}

	output := vip.GetString("log.output")
	log, err := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     !vip.GetBool("log.caller"),
		DisableStacktrace: true,
		Encoding:          vip.GetString("log.encoding"),
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        timeKey,
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    levelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}.Build()
	return log, Error.Wrap(err)
}

func techniqueNames() string {
	var names []string
	for _, t := range technique.All() {
		if t.Implemented() {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, ", ")
}

// parseSize parses a human readable size such as 64MiB or 4096.
func parseSize(flag, value string) (memory.Size, error) {
	var size memory.Size
	if !strings.ContainsAny(value, "0123456789") {
		return 0, fragment.ErrInvalidParameter.New("%s: %q is not a size", flag, value)
	}
	if err := size.Set(value); err != nil {
		return 0, fragment.ErrInvalidParameter.New("%s: %v", flag, err)
	}
	return size, nil
}
