package journal

import (
	"os"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestReadme keeps the README structurally honest: it must parse as
// Markdown, every fenced code block must declare a language, and every
// documented command must be one the CLI actually registers.
func TestReadme(t *testing.T) {
	source, err := os.ReadFile("README.md")
	if err != nil {
		t.Fatalf("failed to read README.md: %v", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	known := map[string]bool{
		"init": true, "import": true, "sync": true, "symbols": true,
		"summary": true, "pnl": true, "asset": true, "trades": true,
		"holdings": true, "watch": true, "insight": true, "fmt": true,
		"help": true,
	}

	var fenced, commands int
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		fenced++
		lang := string(block.Language(source))
		if lang == "" {
			t.Error("README has a fenced code block with no language tag")
			return ast.WalkContinue, nil
		}
		if lang != "bash" {
			return ast.WalkContinue, nil
		}
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimSpace(string(seg.Value(source)))
			if !strings.HasPrefix(line, "tj ") {
				continue
			}
			commands++
			name := strings.Fields(line)[1]
			if !known[name] {
				t.Errorf("README documents unknown command %q", name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if fenced == 0 {
		t.Error("README has no code examples")
	}
	if commands == 0 {
		t.Error("README shows no tj invocations")
	}
}
