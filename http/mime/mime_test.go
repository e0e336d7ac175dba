package mime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	require.Equal(t, ".html", Extension("/site/index.HTML"))
	require.Equal(t, ".gz", Extension("/archive.tar.gz"))
	require.Equal(t, "", Extension("/README"))
	require.Equal(t, "", Extension("/dir.d/README"))
}

func TestTable(t *testing.T) {
	table := Defaults()

	t.Run("known", func(t *testing.T) {
		mime, err := table.Lookup(".HTML")
		require.NoError(t, err)
		require.Equal(t, HTML, mime)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := table.Lookup(".weird")
		require.ErrorIs(t, err, ErrUnknownExtension)
	})
}

func TestWithCharset(t *testing.T) {
	require.Equal(t, "text/html;charset=UTF-8", WithCharset(HTML))
	require.Equal(t, PNG, WithCharset(PNG))
}
