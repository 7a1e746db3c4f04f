package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/logger"
)

func TestStringAttrs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"endpoint", logger.Endpoint("orders.create"), "endpoint", "orders.create"},
		{"link", logger.Link("auth"), "link", "auth"},
		{"component", logger.Component("httpserver"), "component", "httpserver"},
		{"request id", logger.RequestID("req-1"), "request_id", "req-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.key, tc.attr.Key)
			assert.Equal(t, tc.want, tc.attr.Value.String())
		})
	}
}

func TestRequestIDEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(250 * time.Millisecond)
	assert.Equal(t, "duration", attr.Key)
	assert.Equal(t, 250*time.Millisecond, attr.Value.Duration())
}

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Equal(t, "req", attr.Key)

	members := attr.Value.Group()
	require.Len(t, members, 2)
	assert.Equal(t, "id", members[0].Key)
	assert.Equal(t, "n", members[1].Key)
}

func TestErrorAttr(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	attr := logger.Error(boom)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, boom, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}), "nil error must vanish")
}

func TestErrorsAttr(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	third := errors.New("third")

	attr := logger.Errors(first, nil, third)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())

	members := attr.Value.Group()
	require.Len(t, members, 2)
	assert.Equal(t, "0", members[0].Key, "keys keep original positions")
	assert.Equal(t, "2", members[1].Key)
	assert.Equal(t, first, members[0].Value.Any())
	assert.Equal(t, third, members[1].Value.Any())

	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
}
