package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("pure domain", func(t *testing.T) {
		require.Equal(t, "foo.example.com", Normalize("foo.example.com"))
	})

	t.Run("with default port", func(t *testing.T) {
		require.Equal(t, "foo.example.com", Normalize("foo.example.com:80"))
	})

	t.Run("with different port", func(t *testing.T) {
		require.Equal(t, "foo.example.com:8080", Normalize("foo.example.com:8080"))
	})

	t.Run("case", func(t *testing.T) {
		require.Equal(t, "site1.local", Normalize(" Site1.LOCAL "))
	})

	t.Run("ip address", func(t *testing.T) {
		require.Equal(t, "1.1.1.1", Normalize("1.1.1.1:80"))
		require.Equal(t, "[::1]", Normalize("[::1]:80"))
		require.Equal(t, "[::1]", Normalize("[::1]"))
	})
}
