// Package render produces response bodies out of documents.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indigo-web/hostd/http/mime"
)

const (
	ExtSSI     = ".html"
	ExtDynamic = ".php"
)

// Runner runs external programs. It's implemented by process.Runner.
type Runner interface {
	// Exec runs the command through the shell with the working directory set to dir.
	Exec(ctx context.Context, dir, command string) (string, error)
	// Run runs the program with the working directory set to dir.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// Renderer turns the document at the absolute path into the response body.
type Renderer interface {
	Render(ctx context.Context, document string) ([]byte, error)
}

// Static returns the document as is.
type Static struct{}

func (Static) Render(_ context.Context, document string) ([]byte, error) {
	content, err := os.ReadFile(document)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}

	return content, nil
}

// Dispatcher picks the renderer by the document extension.
type Dispatcher struct {
	ssi     Renderer
	dynamic Renderer
	static  Renderer
}

func NewDispatcher(ssi, dynamic Renderer) Dispatcher {
	return Dispatcher{
		ssi:     ssi,
		dynamic: dynamic,
		static:  Static{},
	}
}

func (d Dispatcher) Render(ctx context.Context, document string) ([]byte, error) {
	return d.For(document).Render(ctx, document)
}

// For returns the renderer responsible for the document.
func (d Dispatcher) For(document string) Renderer {
	switch mime.Extension(filepath.ToSlash(document)) {
	case ExtSSI:
		return d.ssi
	case ExtDynamic:
		return d.dynamic
	default:
		return d.static
	}
}
