package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/hostd/docfs"
	"github.com/indigo-web/hostd/http/status"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	Dir, Name string
	Args      []string
}

// fakeRunner echoes commands back instead of running them, unless the command has a
// scripted output.
type fakeRunner struct {
	calls   []call
	outputs map[string]string
	err     error
}

func (f *fakeRunner) Exec(_ context.Context, dir, command string) (string, error) {
	f.calls = append(f.calls, call{Dir: dir, Name: "shell", Args: []string{command}})
	if output, found := f.outputs[command]; found {
		return output, f.err
	}

	return "[" + command + "]", f.err
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{Dir: dir, Name: name, Args: args})
	return name + " " + strings.Join(args, " "), f.err
}

func write(t *testing.T, name, content string) string {
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestSSI(t *testing.T) {
	ctx := context.Background()

	t.Run("no directives", func(t *testing.T) {
		root := t.TempDir()
		content := "<html>\n<body>plain</body>\n</html>\n"
		doc := write(t, filepath.Join(root, "index.html"), content)

		rendered, err := NewSSI(new(fakeRunner), 16, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, content, string(rendered))
	})

	t.Run("include and exec", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "parts", "header.html"), "<h1>Head</h1>\n<!--#include file=\"nav.html\"-->")
		write(t, filepath.Join(root, "parts", "nav.html"), "<nav/>")
		doc := write(t, filepath.Join(root, "index.html"),
			"<!--#include file=\"parts/header.html\"-->\n<p><!-- #exec cmd=\"date\" --></p>\n")

		runner := new(fakeRunner)
		rendered, err := NewSSI(runner, 16, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, "<h1>Head</h1>\n<nav/>\n<p>[date]</p>\n", string(rendered))
		require.Equal(t, []call{{Dir: root, Name: "shell", Args: []string{"date"}}}, runner.calls)
	})

	t.Run("exec output is expanded", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "part.html"), "part")
		doc := write(t, filepath.Join(root, "index.html"), `<!--#exec cmd="outer"-->`)

		runner := &fakeRunner{outputs: map[string]string{
			"outer": `<!--#exec cmd="inner"-->+<!--#include file="part.html"-->`,
			"inner": "INNER",
		}}
		rendered, err := NewSSI(runner, 16, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, "INNER+part", string(rendered))
		require.Len(t, runner.calls, 2)
		require.Equal(t, root, runner.calls[1].Dir)
	})

	t.Run("exec depth cap", func(t *testing.T) {
		root := t.TempDir()
		doc := write(t, filepath.Join(root, "index.html"), `<!--#exec cmd="again"-->`)

		runner := &fakeRunner{outputs: map[string]string{
			"again": `x<!--#exec cmd="again"-->`,
		}}
		rendered, err := NewSSI(runner, 3, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, "xxx<!-- ssi: exec nesting too deep: again -->", string(rendered))
		require.Len(t, runner.calls, 3)
	})

	t.Run("idempotent", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "part.html"), `part<!--#exec cmd="inner"-->`)
		doc := write(t, filepath.Join(root, "index.html"),
			`a<!--#include file="part.html"-->b<!--#exec cmd="outer"-->c<!--#include file="index.html"-->`)

		runner := &fakeRunner{outputs: map[string]string{
			"outer": `<!--#exec cmd="inner"-->`,
			"inner": "INNER",
		}}
		ssi := NewSSI(runner, 16, zap.NewNop())
		first, err := ssi.Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, "apartINNERbINNERc<!-- ssi: include cycle detected: index.html -->", string(first))

		expanded := write(t, filepath.Join(root, "expanded.html"), string(first))
		calls := len(runner.calls)
		second, err := ssi.Render(ctx, expanded)
		require.NoError(t, err)
		require.Equal(t, string(first), string(second))
		require.Len(t, runner.calls, calls)
	})

	t.Run("cycle", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "a.html"), `A<!--#include file="b.html"-->`)
		write(t, filepath.Join(root, "b.html"), `B<!--#include file="a.html"-->`)

		rendered, err := NewSSI(new(fakeRunner), 16, zap.NewNop()).Render(ctx, filepath.Join(root, "a.html"))
		require.NoError(t, err)
		require.Equal(t, "AB<!-- ssi: include cycle detected: a.html -->", string(rendered))
	})

	t.Run("self include", func(t *testing.T) {
		root := t.TempDir()
		doc := write(t, filepath.Join(root, "self.html"), `x<!--#include file="./self.html"-->`)

		rendered, err := NewSSI(new(fakeRunner), 16, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, "x<!-- ssi: include cycle detected: ./self.html -->", string(rendered))
	})

	t.Run("depth cap", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "1.html"), `1<!--#include file="2.html"-->`)
		write(t, filepath.Join(root, "2.html"), `2<!--#include file="3.html"-->`)
		write(t, filepath.Join(root, "3.html"), `3`)

		rendered, err := NewSSI(new(fakeRunner), 1, zap.NewNop()).Render(ctx, filepath.Join(root, "1.html"))
		require.NoError(t, err)
		require.Equal(t, "12<!-- ssi: include nesting too deep: 3.html -->", string(rendered))

		rendered, err = NewSSI(new(fakeRunner), 2, zap.NewNop()).Render(ctx, filepath.Join(root, "1.html"))
		require.NoError(t, err)
		require.Equal(t, "123", string(rendered))
	})

	t.Run("missing include", func(t *testing.T) {
		root := t.TempDir()
		doc := write(t, filepath.Join(root, "index.html"), `<!--#include file="nope.html"-->!`)

		rendered, err := NewSSI(new(fakeRunner), 16, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, "<!-- ssi: cannot include: nope.html -->!", string(rendered))
	})

	t.Run("malformed directives stay", func(t *testing.T) {
		root := t.TempDir()
		content := `<!--#include file=nope.html--><!--#exec cmd="ls"`
		doc := write(t, filepath.Join(root, "index.html"), content)

		rendered, err := NewSSI(new(fakeRunner), 16, zap.NewNop()).Render(ctx, doc)
		require.NoError(t, err)
		require.Equal(t, content, string(rendered))
	})

	t.Run("exec failure", func(t *testing.T) {
		root := t.TempDir()
		doc := write(t, filepath.Join(root, "index.html"), `<!--#exec cmd="sleep 100"-->`)

		runner := &fakeRunner{err: context.DeadlineExceeded}
		_, err := NewSSI(runner, 16, zap.NewNop()).Render(ctx, doc)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := NewSSI(new(fakeRunner), 16, zap.NewNop()).Render(ctx, filepath.Join(t.TempDir(), "x.html"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDynamic(t *testing.T) {
	root := t.TempDir()
	doc := write(t, filepath.Join(root, "app", "index.php"), "<?php echo 1;")

	runner := new(fakeRunner)
	rendered, err := NewDynamic(runner, "php").Render(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, "php "+doc, string(rendered))
	require.Equal(t, []call{{Dir: filepath.Dir(doc), Name: "php", Args: []string{doc}}}, runner.calls)

	runner.err = os.ErrNotExist
	_, err = NewDynamic(runner, "php").Render(context.Background(), doc)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDispatcher(t *testing.T) {
	root := t.TempDir()
	content := uniuri.New()
	write(t, filepath.Join(root, "page.HTML"), content)
	write(t, filepath.Join(root, "data.txt"), content)
	write(t, filepath.Join(root, "script.php"), content)

	runner := new(fakeRunner)
	ssi := NewSSI(runner, 16, zap.NewNop())
	dynamic := NewDynamic(runner, "php")
	dispatcher := NewDispatcher(ssi, dynamic)

	require.Equal(t, ssi, dispatcher.For(filepath.Join(root, "page.HTML")))
	require.Equal(t, dynamic, dispatcher.For(filepath.Join(root, "script.php")))
	require.Equal(t, Static{}, dispatcher.For(filepath.Join(root, "data.txt")))
	require.Equal(t, Static{}, dispatcher.For(filepath.Join(root, "html")))

	rendered, err := dispatcher.Render(context.Background(), filepath.Join(root, "data.txt"))
	require.NoError(t, err)
	require.Equal(t, content, string(rendered))
}

func TestTree(t *testing.T) {
	entries := []docfs.Entry{
		{Name: "b", IsDir: true},
		{Name: "a.txt"},
		{Name: "<x>.txt"},
	}

	t.Run("subdirectory", func(t *testing.T) {
		listing := Tree("/tree", "/docs", entries)
		require.Equal(t,
			`<section class="documents-directory-inner-content">`+
				`<header class="documents-directory">/docs</header>`+
				`<div class="documents-sub-directory-container">`+
				`<a class="documents-sub-directory" href="/tree">..</a>`+
				`<a class="documents-sub-directory" href="/tree/docs/b">b</a>`+
				`<span class="documents-sub-directory">a.txt</span>`+
				`<span class="documents-sub-directory">&lt;x&gt;.txt</span>`+
				`</div></section>`,
			listing)
	})

	t.Run("root", func(t *testing.T) {
		listing := Tree("/tree/", "", entries[:1])
		require.Contains(t, listing, `<header class="documents-directory">/</header>`)
		require.NotContains(t, listing, "..")
		require.Contains(t, listing, `href="/tree/b"`)
	})

	t.Run("nested parent", func(t *testing.T) {
		listing := Tree("/tree", "/docs/b/", nil)
		require.Contains(t, listing, `<a class="documents-sub-directory" href="/tree/docs">..</a>`)
	})

	t.Run("escaped links", func(t *testing.T) {
		listing := Tree("/tree", "/docs", []docfs.Entry{{Name: "my dir", IsDir: true}})
		require.Contains(t, listing, `href="/tree/docs/my%20dir">my dir</a>`)
	})
}

func TestPages(t *testing.T) {
	t.Run("built-in", func(t *testing.T) {
		pages := NewPages(t.TempDir(), ".server/error/html/index.html", ".server/tree/html/index.html")

		page := string(pages.Error(status.NotFound, `document "/x<y>" not found`))
		require.Contains(t, page, "<h1>404</h1>")
		require.Contains(t, page, "document &#34;/x&lt;y&gt;&#34; not found")

		page = string(pages.Tree("<section/>"))
		require.Contains(t, page, "<body><section/></body>")
	})

	t.Run("templates", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, ".server", "error", "html", "index.html"),
			"code=[PARAM=errorCode=PARAM] msg=[PARAM=errorMessage=PARAM]")
		write(t, filepath.Join(root, ".server", "tree", "html", "index.html"),
			"tree=[PARAM=treePage=PARAM]")
		pages := NewPages(root, ".server/error/html/index.html", ".server/tree/html/index.html")

		require.Equal(t, "code=403 msg=denied", string(pages.Error(status.Forbidden, "denied")))
		require.Equal(t, "tree=listing", string(pages.Tree("listing")))
	})
}
