package requestid_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/requestid"
)

func TestNew(t *testing.T) {
	t.Parallel()

	id := requestid.New()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, requestid.New())
}

func TestValid(t *testing.T) {
	t.Parallel()

	valid := []string{
		"abc123",
		"req-2024-01-15",
		"a_b_c",
		uuid.New().String(),
		strings.Repeat("x", 128),
	}
	for _, id := range valid {
		assert.True(t, requestid.Valid(id), "expected %q to be valid", id)
	}

	invalid := []string{
		"",
		"has space",
		"slash/id",
		"back\\slash",
		"semi;colon",
		"<script>",
		strings.Repeat("x", 129),
	}
	for _, id := range invalid {
		assert.False(t, requestid.Valid(id), "expected %q to be rejected", id)
	}
}

func TestFromRequestHeader(t *testing.T) {
	t.Parallel()

	t.Run("reuses valid client id", func(t *testing.T) {
		t.Parallel()
		headers := map[string]string{requestid.Header: "client-id-42"}
		id := requestid.FromRequestHeader(func(k string) string { return headers[k] })
		assert.Equal(t, "client-id-42", id)
	})

	t.Run("replaces invalid client id", func(t *testing.T) {
		t.Parallel()
		headers := map[string]string{requestid.Header: "not valid!"}
		id := requestid.FromRequestHeader(func(k string) string { return headers[k] })
		assert.NotEqual(t, "not valid!", id)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
	})

	t.Run("generates when header is absent", func(t *testing.T) {
		t.Parallel()
		id := requestid.FromRequestHeader(func(string) string { return "" })
		_, err := uuid.Parse(id)
		require.NoError(t, err)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "stored-id")
	assert.Equal(t, "stored-id", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	attr, ok := extract(requestid.WithContext(context.Background(), "trace-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "trace-1", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
