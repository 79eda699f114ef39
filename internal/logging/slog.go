// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// slogBridge is a slog.Handler writing through zerolog. Attributes bound by
// WithAttrs live in the zerolog context; open groups become a key prefix.
type slogBridge struct {
	zl     zerolog.Logger
	prefix string
}

// NewSlogHandler returns a slog.Handler that writes to zl.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewSlogHandler(zl zerolog.Logger) slog.Handler {
	return &slogBridge{zl: zl}
}

// NewSlogLogger returns a slog.Logger over the global logger, for
// libraries such as sutureslog that only accept slog.
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler(Logger()))
}

func (b *slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	zl := zerologLevel(level)
	return zl >= b.zl.GetLevel() && zl >= zerolog.GlobalLevel()
}

//nolint:gocritic // slog.Handler passes the record by value
func (b *slogBridge) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	b.zl.WithLevel(zerologLevel(r.Level)).Fields(flatten(nil, b.prefix, attrs)).Msg(r.Message)
	return nil
}

func (b *slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &slogBridge{
		zl:     b.zl.With().Fields(flatten(nil, b.prefix, attrs)).Logger(),
		prefix: b.prefix,
	}
}

func (b *slogBridge) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}
	return &slogBridge{zl: b.zl, prefix: b.prefix + name + "."}
}

// flatten appends attrs as zerolog key/value pairs. Nested groups join
// their keys with dots; empty attributes are dropped as slog requires.
func flatten(dst []interface{}, prefix string, attrs []slog.Attr) []interface{} {
	for _, a := range attrs {
		v := a.Value.Resolve()
		switch {
		case a.Key == "" && v.Kind() != slog.KindGroup:
			continue
		case v.Kind() == slog.KindGroup:
			p := prefix
			if a.Key != "" {
				p += a.Key + "."
			}
			dst = flatten(dst, p, v.Group())
			continue
		}

		val := v.Any()
		if err, ok := val.(error); ok {
			val = err.Error()
		}
		dst = append(dst, prefix+a.Key, val)
	}
	return dst
}

func zerologLevel(l slog.Level) zerolog.Level {
	switch {
	case l >= slog.LevelError:
		return zerolog.ErrorLevel
	case l >= slog.LevelWarn:
		return zerolog.WarnLevel
	case l >= slog.LevelInfo:
		return zerolog.InfoLevel
	case l >= slog.LevelDebug:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}
