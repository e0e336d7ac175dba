package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var (
	includeDirective = regexp.MustCompile(`<!--[^>]*?#include\s*file\s*=\s*"([^"]*)"[^>]*?-->`)
	execDirective    = regexp.MustCompile(`<!--[^>]*?#exec\s*cmd\s*=\s*"([^"]*)"[^>]*?-->`)
)

// SSI expands server-side include directives of HTML documents. First, every
// <!--#include file="..."--> is replaced with the content of the named file, resolved
// relatively to the directory of the file holding the directive. Included files are
// expanded recursively. Then every <!--#exec cmd="..."--> is replaced with the output of
// the command, run by the shell in the document's directory. Command output is expanded
// the same way before it is inserted. Both kinds of nesting are bounded by maxDepth.
type SSI struct {
	runner   Runner
	logger   *zap.Logger
	maxDepth int
}

func NewSSI(runner Runner, maxDepth int, logger *zap.Logger) *SSI {
	return &SSI{
		runner:   runner,
		logger:   logger,
		maxDepth: maxDepth,
	}
}

// Render expands the document at the absolute path.
func (s *SSI) Render(ctx context.Context, document string) ([]byte, error) {
	content, err := os.ReadFile(document)
	if err != nil {
		return nil, fmt.Errorf("ssi: %w", err)
	}

	expanded, err := s.expand(ctx, string(content), document, 1)
	if err != nil {
		return nil, err
	}

	return []byte(expanded), nil
}

// expand resolves the includes of content, then runs its commands. Content produced by a
// command sits one level deeper than the content holding the directive.
func (s *SSI) expand(ctx context.Context, content, document string, depth int) (string, error) {
	return s.exec(ctx, document, s.include(content, []string{document}), depth)
}

// include expands include directives of content. The chain holds the files being
// expanded, the current one last.
func (s *SSI) include(content string, chain []string) string {
	base := filepath.Dir(chain[len(chain)-1])

	return replace(content, includeDirective, func(name string) string {
		target := filepath.Join(base, filepath.FromSlash(name))

		switch {
		case slices.Contains(chain, target):
			s.logger.Warn("ssi include cycle", zap.String("file", target), zap.Strings("chain", chain))
			return comment("include cycle detected: " + name)
		case len(chain) > s.maxDepth:
			s.logger.Warn("ssi include too deep", zap.String("file", target), zap.Int("max_depth", s.maxDepth))
			return comment("include nesting too deep: " + name)
		}

		included, err := os.ReadFile(target)
		if err != nil {
			s.logger.Warn("ssi include failed", zap.String("file", target), zap.Error(err))
			return comment("cannot include: " + name)
		}

		return s.include(string(included), append(slices.Clip(chain), target))
	})
}

func (s *SSI) exec(ctx context.Context, document, content string, depth int) (string, error) {
	var execErr error

	result := replace(content, execDirective, func(command string) string {
		if execErr != nil {
			return ""
		}

		if depth > s.maxDepth {
			s.logger.Warn("ssi exec too deep", zap.String("cmd", command), zap.Int("max_depth", s.maxDepth))
			return comment("exec nesting too deep: " + command)
		}

		output, err := s.runner.Exec(ctx, filepath.Dir(document), command)
		if err != nil {
			execErr = fmt.Errorf("ssi exec %q: %w", command, err)
			return ""
		}

		output, execErr = s.expand(ctx, output, document, depth+1)

		return output
	})

	return result, execErr
}

// replace substitutes every match of the directive with the result of fn applied to the
// first capture group.
func replace(content string, directive *regexp.Regexp, fn func(arg string) string) string {
	matches := directive.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	last := 0

	for _, match := range matches {
		b.WriteString(content[last:match[0]])
		b.WriteString(fn(content[match[2]:match[3]]))
		last = match[1]
	}

	b.WriteString(content[last:])

	return b.String()
}

func comment(text string) string {
	return "<!-- ssi: " + strings.ReplaceAll(text, "--", "- -") + " -->"
}
