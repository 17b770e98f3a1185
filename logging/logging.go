package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const (
	slogFields  ctxKey = "slog_fields"
	PackageName string = "package"
	SessionID   string = "session"
)

type ContextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	err := h.Handler.Handle(ctx, r)
	if err != nil {
		return fmt.Errorf("error handling record for a log: %+v: %w", r, err)
	}

	return nil
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be included in any Record created with such context.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// Sibling contexts must not share a backing array.
		v = append(v[:len(v):len(v)], attr)

		return context.WithValue(parent, slogFields, v)
	}

	v := []slog.Attr{attr}

	return context.WithValue(parent, slogFields, v)
}

func PackageCtx(packageName string) context.Context {
	return WithPackage(context.Background(), packageName)
}

// WithPackage tags parent with the name of the package logging through it.
func WithPackage(parent context.Context, packageName string) context.Context {
	return AppendCtx(parent, slog.String(PackageName, packageName))
}

// SessionCtx tags parent with a random id identifying this run.
func SessionCtx(parent context.Context) (context.Context, string) {
	id := uuid.NewString()

	return AppendCtx(parent, slog.String(SessionID, id)), id
}

// Attrs returns the attributes carried by ctx.
func Attrs(ctx context.Context) []slog.Attr {
	v, _ := ctx.Value(slogFields).([]slog.Attr)

	return v
}
