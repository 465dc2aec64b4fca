package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the attached logger", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		l := zap.New(core).Sugar()

		ctx := WithLogger(context.Background(), l)
		FromContext(ctx).Infow("computed proposal", "indexID", "OMXC25CAP")

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		require.Equal(t, "computed proposal", entry.Message)
		require.Equal(t, "OMXC25CAP", entry.ContextMap()["indexID"])
	})

	t.Run("falls back to a new logger", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}
