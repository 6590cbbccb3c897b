package content

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// FallbackSource returns the secondary's result whenever the primary fails.
type FallbackSource struct {
	primary   Source
	secondary Source
	logger    *zap.Logger
}

// Fallback composes primary and secondary. There is no retry: one primary
// attempt, then the secondary.
func Fallback(primary, secondary Source, logger *zap.Logger) *FallbackSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackSource{primary: primary, secondary: secondary, logger: logger}
}

// Generate tries the primary source, then the secondary.
func (s *FallbackSource) Generate(ctx context.Context, req Request) (*Fragment, error) {
	frag, err := s.tryPrimary(ctx, req)
	if err == nil && frag != nil {
		return frag, nil
	}
	if err == nil {
		err = errors.New("primary source returned no content")
	}

	fields := []zap.Field{
		zap.String("section", string(req.Section)),
		zap.Error(err),
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Status != 0 {
		fields = append(fields, zap.Int("status", remoteErr.Status))
	}
	s.logger.Warn("generation failed, falling back", fields...)

	// A cancelled caller still gets content: the secondary is expected to be local.
	return s.secondary.Generate(context.WithoutCancel(ctx), req)
}

// tryPrimary calls the primary source, turning a panic into an error.
func (s *FallbackSource) tryPrimary(ctx context.Context, req Request) (frag *Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag, err = nil, fmt.Errorf("primary source panicked: %v", r)
		}
	}()
	return s.primary.Generate(ctx, req)
}
