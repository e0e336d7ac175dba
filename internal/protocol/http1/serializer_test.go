package http1

import (
	"testing"

	"github.com/indigo-web/hostd/http"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/transport/dummy"
	"github.com/stretchr/testify/require"
)

func TestSerializer(t *testing.T) {
	t.Run("minimal", func(t *testing.T) {
		client := dummy.NewMockClient()
		resp := http.NewResponse().ContentType("text/plain;charset=UTF-8").Bytes([]byte("Hello"))

		n, err := NewSerializer(client, nil).Write("1.1", resp)
		require.NoError(t, err)
		require.Equal(t, 5, n)
		require.Equal(t,
			"HTTP/1.1 200 OK\r\n"+
				"Content-Type: text/plain;charset=UTF-8\r\n"+
				"Content-Length: 5\r\n"+
				"\r\n"+
				"Hello",
			client.Written())
	})

	t.Run("optional headers", func(t *testing.T) {
		client := dummy.NewMockClient()
		resp := http.NewResponse().
			Code(status.Unauthorized).
			Connection("Keep-Alive").
			Authenticate(`Basic realm="staging"`)

		_, err := NewSerializer(client, nil).Write("1.0", resp)
		require.NoError(t, err)
		require.Equal(t,
			"HTTP/1.0 401 Unauthorized\r\n"+
				"Content-Type: text/html\r\n"+
				"Content-Length: 0\r\n"+
				"Connection: Keep-Alive\r\n"+
				`WWW-Authenticate: Basic realm="staging"`+"\r\n"+
				"\r\n",
			client.Written())
	})

	t.Run("unknown protocol", func(t *testing.T) {
		client := dummy.NewMockClient()
		resp := http.NewResponse().Code(status.BadRequest).Bytes([]byte("x"))

		_, err := NewSerializer(client, nil).Write("", resp)
		require.NoError(t, err)
		require.Contains(t, client.Written(), "HTTP/1.1 400 Bad Request\r\n")
	})

	t.Run("buffer reuse", func(t *testing.T) {
		client := dummy.NewMockClient()
		serializer := NewSerializer(client, make([]byte, 0, 16))

		_, err := serializer.Write("1.1", http.NewResponse().Bytes([]byte("first")))
		require.NoError(t, err)
		_, err = serializer.Write("1.1", http.NewResponse().Bytes([]byte("2")))
		require.NoError(t, err)

		require.Contains(t, client.Written(), "Content-Length: 5\r\n\r\nfirstHTTP/1.1 200 OK\r\n")
		require.Contains(t, client.Written(), "Content-Length: 1\r\n\r\n2")
	})

	t.Run("write failure", func(t *testing.T) {
		client := dummy.NewMockClient().FailWrites()
		_, err := NewSerializer(client, nil).Write("1.1", http.NewResponse())
		require.ErrorIs(t, err, dummy.ErrWriteFailed)
	})
}
