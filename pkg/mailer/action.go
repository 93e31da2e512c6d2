package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// actionPrefix opens an action link: [!action|Confirm address](https://example.com/confirm).
const actionPrefix = "[!action|"

// actionStyle is inlined because most mail clients drop <style> blocks.
const actionStyle = "display:inline-block;padding:10px 20px;background:#0f6cbd;color:#ffffff;text-decoration:none;border-radius:4px"

// KindAction is the node kind of ActionNode.
var KindAction = ast.NewNodeKind("Action")

// ActionNode is a call-to-action link rendered as a button.
type ActionNode struct {
	ast.BaseInline
	Label []byte
	URL   []byte
}

func (n *ActionNode) Kind() ast.NodeKind { return KindAction }

func (n *ActionNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label": string(n.Label),
		"URL":   string(n.URL),
	}, nil)
}

type actionParser struct{}

func (actionParser) Trigger() []byte { return []byte{'['} }

func (actionParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte(actionPrefix)) {
		return nil
	}

	rest := line[len(actionPrefix):]
	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd <= 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}
	target := rest[labelEnd+2:]
	urlEnd := bytes.IndexByte(target, ')')
	if urlEnd <= 0 {
		return nil
	}

	block.Advance(len(actionPrefix) + labelEnd + 2 + urlEnd + 1)
	return &ActionNode{
		Label: rest[:labelEnd],
		URL:   bytes.TrimSpace(target[:urlEnd]),
	}
}

type actionRenderer struct{}

func (actionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAction, renderAction)
}

func renderAction(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ActionNode)

	href := []byte("#")
	if isSafeLink(n.URL) {
		href = util.URLEscape(n.URL, true)
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(href))
	_, _ = w.WriteString(`" class="action" style="` + actionStyle + `">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

// isSafeLink accepts http, https and mailto targets only.
func isSafeLink(url []byte) bool {
	lower := bytes.ToLower(url)
	for _, scheme := range []string{"https://", "http://", "mailto:"} {
		if bytes.HasPrefix(lower, []byte(scheme)) {
			return true
		}
	}
	return false
}

type actionExtension struct{}

// ActionExtension adds [!action|Label](URL) links to goldmark.
// Compose enables it for every message body.
func ActionExtension() goldmark.Extender { return actionExtension{} }

func (actionExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(actionParser{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(actionRenderer{}, 50),
	))
}
