package http1

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/indigo-web/hostd/config"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/transport/dummy"
	"github.com/stretchr/testify/require"
)

func chunks(data ...string) [][]byte {
	result := make([][]byte, len(data))
	for i, d := range data {
		result[i] = []byte(d)
	}

	return result
}

func nextBlock(t *testing.T, reader *Reader) []string {
	lines, err := reader.Next()
	require.NoError(t, err)

	return slices.Clone(lines)
}

func TestReader(t *testing.T) {
	headersCfg := config.Default().Headers

	t.Run("split across reads", func(t *testing.T) {
		client := dummy.NewMockClient(chunks(
			"GET / HTTP/1.1\r\nHo", "st: a\r\n", "\r", "\nGET /2 HTTP/1.0\r\n\r\n",
		)...)
		reader := NewReader(client, headersCfg)

		require.Equal(t, []string{"GET / HTTP/1.1", "Host: a"}, nextBlock(t, reader))
		require.Equal(t, []string{"GET /2 HTTP/1.0"}, nextBlock(t, reader))

		_, err := reader.Next()
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("bare LF", func(t *testing.T) {
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\nHost: a\n\n")...)
		require.Equal(t, []string{"GET / HTTP/1.1", "Host: a"}, nextBlock(t, NewReader(client, headersCfg)))
	})

	t.Run("leading blank lines", func(t *testing.T) {
		client := dummy.NewMockClient(chunks("\r\n\r\nGET / HTTP/1.1\r\n\r\n")...)
		require.Equal(t, []string{"GET / HTTP/1.1"}, nextBlock(t, NewReader(client, headersCfg)))
	})

	t.Run("unterminated block", func(t *testing.T) {
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\r\nHost: a\r\n")...)
		_, err := NewReader(client, headersCfg).Next()
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("too long request line", func(t *testing.T) {
		cfg := headersCfg
		cfg.MaxLineSize = 16
		client := dummy.NewMockClient(chunks("GET /" + strings.Repeat("a", 16) + " HTTP/1.1\r\n\r\n")...)
		_, err := NewReader(client, cfg).Next()
		require.ErrorIs(t, err, status.ErrURITooLong)
	})

	t.Run("line of exactly max size", func(t *testing.T) {
		cfg := headersCfg
		cfg.MaxLineSize = len("GET / HTTP/1.1")
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\r\n\r\n")...)
		require.Equal(t, []string{"GET / HTTP/1.1"}, nextBlock(t, NewReader(client, cfg)))
	})

	t.Run("too long header", func(t *testing.T) {
		cfg := headersCfg
		cfg.MaxLineSize = 16
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\r\n", "X: "+strings.Repeat("b", 8), strings.Repeat("b", 8)+"\r\n\r\n")...)
		_, err := NewReader(client, cfg).Next()
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := headersCfg
		cfg.MaxLines = 2
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\n\r\n")...)
		require.Equal(t, []string{"GET / HTTP/1.1", "A: 1", "B: 2"}, nextBlock(t, NewReader(client, cfg)))

		client = dummy.NewMockClient(chunks("GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n")...)
		_, err := NewReader(client, cfg).Next()
		require.ErrorIs(t, err, status.ErrTooManyHeaders)
	})

	t.Run("lines survive buffer growth", func(t *testing.T) {
		cfg := headersCfg
		cfg.MaxLineSize = 16 * 1024
		long := "X: " + strings.Repeat("x", 8*1024)
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\r\nA: 1\r\n", long+"\r\n", "B: 2\r\n\r\n")...)

		lines, err := NewReader(client, cfg).Next()
		require.NoError(t, err)
		require.Equal(t, []string{"GET / HTTP/1.1", "A: 1", long, "B: 2"}, lines)
	})

	t.Run("discard", func(t *testing.T) {
		client := dummy.NewMockClient(chunks(
			"POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nhel", "lo", "worldGET /x HTTP/1.1\r\n\r\n",
		)...)
		reader := NewReader(client, headersCfg)

		require.Equal(t, []string{"POST / HTTP/1.1", "Content-Length: 10"}, nextBlock(t, reader))
		require.NoError(t, reader.Discard(10))
		require.Equal(t, []string{"GET /x HTTP/1.1"}, nextBlock(t, reader))
	})

	t.Run("discard past the end", func(t *testing.T) {
		client := dummy.NewMockClient(chunks("GET / HTTP/1.1\r\n\r\nabc")...)
		reader := NewReader(client, headersCfg)
		nextBlock(t, reader)
		require.ErrorIs(t, reader.Discard(10), io.EOF)
	})
}
