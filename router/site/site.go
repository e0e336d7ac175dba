// Package site resolves requests against the document root. The resolution follows a fixed
// precedence: tree views first, then the existence of the document, then its protection,
// and finally the renderer picked by the document extension.
package site

import (
	"fmt"
	"net"
	"path"
	"strings"

	"github.com/indigo-web/hostd/auth"
	"github.com/indigo-web/hostd/config"
	"github.com/indigo-web/hostd/docfs"
	"github.com/indigo-web/hostd/http"
	"github.com/indigo-web/hostd/http/mime"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/render"
	"github.com/indigo-web/hostd/router"
	"go.uber.org/zap"
)

var _ router.Router = new(Router)

type Router struct {
	root      docfs.Root
	auth      auth.Resolver
	renderer  render.Renderer
	pages     render.Pages
	types     mime.Table
	logger    *zap.Logger
	treeURI   string
	tree      bool
	challenge string
}

// New builds the router. External programs (#exec directives and dynamic documents) are
// run via the runner.
func New(cfg *config.Config, runner render.Runner, logger *zap.Logger) (*Router, error) {
	root, err := docfs.New(cfg.Documents.Root)
	if err != nil {
		return nil, err
	}

	if !docfs.IsDir(root.Abs()) {
		return nil, fmt.Errorf("document root %s is not a directory", root.Abs())
	}

	renderer := render.NewDispatcher(
		render.NewSSI(runner, cfg.SSI.MaxDepth, logger),
		render.NewDynamic(runner, cfg.Exec.Interpreter),
	)

	return &Router{
		root:      root,
		auth:      auth.NewResolver(root.Abs()),
		renderer:  renderer,
		pages:     render.NewPages(root.Abs(), cfg.Documents.ErrorTemplate, cfg.Documents.TreeTemplate),
		types:     cfg.ContentTypes,
		logger:    logger,
		treeURI:   path.Clean("/" + cfg.Documents.TreeURI),
		tree:      cfg.Documents.TreeEnabled,
		challenge: `Basic realm="` + cfg.Documents.Realm + `"`,
	}, nil
}

func (r *Router) OnRequest(request *http.Request) *http.Response {
	response, err := r.resolve(request)
	if err != nil {
		return r.OnError(request, err)
	}

	return response
}

func (r *Router) resolve(request *http.Request) (*http.Response, error) {
	requestPath := docfs.Clean(request.Path)

	if dir, ok := r.treeDir(requestPath); ok {
		return r.treeView(request, dir)
	}

	if path.Base(requestPath) == auth.CredentialFile || !r.root.Exists(requestPath) {
		return r.page(request, status.NotFound, "document "+request.Path+" not found"), nil
	}

	document := r.root.Resolve(requestPath)

	if _, protected := r.auth.Locate(document); protected {
		authorization, err := request.Get("Authorization")
		if err != nil {
			return r.page(request, status.Unauthorized, "document "+request.Path+" is protected").
				Authenticate(r.challenge), nil
		}

		granted, err := r.auth.Validate(document, authorization)
		if err != nil {
			return nil, err
		}

		if !granted {
			return r.page(request, status.Forbidden, "access denied to protected document "+request.Path), nil
		}
	}

	contentType, err := r.types.Lookup(mime.Extension(requestPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", requestPath, err)
	}

	body, err := r.renderer.Render(request.Ctx, document)
	if err != nil {
		return nil, err
	}

	return request.Respond().
		ContentType(mime.WithCharset(contentType)).
		Bytes(body), nil
}

// treeDir returns the directory the tree view is requested for, relative to the document
// root, or false if the path doesn't point into the tree view at all.
func (r *Router) treeDir(requestPath string) (dir string, ok bool) {
	if !r.tree {
		return "", false
	}

	if r.treeURI == "/" {
		return requestPath, true
	}

	rest, found := strings.CutPrefix(requestPath, r.treeURI)
	if !found || (len(rest) > 0 && rest[0] != '/') {
		return "", false
	}

	return docfs.Clean(rest), true
}

func (r *Router) treeView(request *http.Request, dir string) (*http.Response, error) {
	entries, err := r.root.ListDir(dir)
	if err != nil {
		return r.page(request, status.NotFound, "directory "+request.Path+" not found"), nil
	}

	if dir == "/" {
		dir = ""
	}

	listing := render.Tree(r.treeURI, dir, entries)

	return request.Respond().
		ContentType(mime.WithCharset(mime.HTML)).
		Bytes(r.pages.Tree(listing)), nil
}

func (r *Router) page(request *http.Request, code status.Code, message string) *http.Response {
	return request.Respond().
		Code(code).
		ContentType(mime.WithCharset(mime.HTML)).
		Bytes(r.pages.Error(code, message))
}

// OnError answers the request that failed. Faults not classified as protocol errors become
// 500 Internal Server Error and are logged.
func (r *Router) OnError(request *http.Request, err error) *http.Response {
	code := status.CodeOf(err)
	message := string(status.Text(code))

	if code == status.InternalServerError {
		r.logger.Error("request failed",
			zap.String("remote", remoteAddr(request.Remote)),
			zap.String("uri", request.Path),
			zap.Error(err),
		)
	} else {
		message = err.Error()
	}

	return r.page(request, code, message)
}

func remoteAddr(addr net.Addr) string {
	if addr == nil {
		return ""
	}

	return addr.String()
}
