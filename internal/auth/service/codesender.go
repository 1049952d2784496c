package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/reel/pkg/slogx"
)

// CodeSender delivers email login codes.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes codes to the log instead of sending mail. The code
// itself is only logged when IncludeCode is set, which should be dev only.
type LogCodeSender struct {
	Logger      *slog.Logger
	IncludeCode bool
}

func (s *LogCodeSender) SendCode(ctx context.Context, email, code string) error {
	log := s.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}

	attrs := []any{"email", email}
	if s.IncludeCode {
		attrs = append(attrs, "code", code)
	}
	log.InfoContext(ctx, "email login code issued", attrs...)
	return nil
}
