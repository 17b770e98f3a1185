package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dasdy/padkeys/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.ContextHandler{Handler: slog.NewTextHandler(&buf, nil)})
	ctx := logging.WithPackage(context.Background(), "dispatch")

	logger.InfoContext(ctx, "pressed", "key", 30)

	assert.Contains(t, buf.String(), "package=dispatch")
	assert.Contains(t, buf.String(), "key=30")
}

func TestContextHandlerKeepsAttrsThroughWith(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.ContextHandler{Handler: slog.NewTextHandler(&buf, nil)}).With("mode", "keyboard")
	logger.InfoContext(logging.PackageCtx("engine"), "started")

	assert.Contains(t, buf.String(), "mode=keyboard")
	assert.Contains(t, buf.String(), "package=engine")
}

func TestAppendCtxDoesNotLeakBetweenSiblings(t *testing.T) {
	base := logging.AppendCtx(context.Background(), slog.String("a", "1"))
	base = logging.AppendCtx(base, slog.String("b", "2"))

	left := logging.AppendCtx(base, slog.String("left", "x"))
	right := logging.AppendCtx(base, slog.String("right", "y"))

	assert.Len(t, logging.Attrs(left), 3)
	assert.Equal(t, "left", logging.Attrs(left)[2].Key)
	assert.Equal(t, "right", logging.Attrs(right)[2].Key)
	assert.Len(t, logging.Attrs(base), 2)
}

func TestSessionCtx(t *testing.T) {
	ctx, id := logging.SessionCtx(context.Background())

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	attrs := logging.Attrs(ctx)
	require.Len(t, attrs, 1)
	assert.Equal(t, logging.SessionID, attrs[0].Key)
	assert.Equal(t, id, attrs[0].Value.String())
}
