package render

import (
	"context"
	"fmt"
	"path/filepath"
)

// Dynamic renders documents by running them through an interpreter. The absolute path of
// the document is its only argument.
type Dynamic struct {
	runner      Runner
	interpreter string
}

func NewDynamic(runner Runner, interpreter string) Dynamic {
	return Dynamic{
		runner:      runner,
		interpreter: interpreter,
	}
}

func (d Dynamic) Render(ctx context.Context, document string) ([]byte, error) {
	output, err := d.runner.Run(ctx, filepath.Dir(document), d.interpreter, document)
	if err != nil {
		return nil, fmt.Errorf("dynamic %s: %w", filepath.Base(document), err)
	}

	return []byte(output), nil
}
