package css

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses CSS source and collects its declarations
func (p *Parser) Parse(source string) (*Sheet, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	sheet := &Sheet{Declarations: []Declaration{}}
	walkTree(tree.RootNode(), src, sheet)
	return sheet, nil
}

// walkTree recursively visits every node, collecting declarations in
// document order. Declarations nested under media queries, supports
// blocks and nested rules are all reached.
func walkTree(node *sitter.Node, source []byte, sheet *Sheet) {
	if node == nil {
		return
	}

	if node.Kind() == "declaration" {
		handleDeclaration(node, source, sheet)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), source, sheet)
	}
}

// handleDeclaration records a declaration's property name and the exact
// byte span of its value. The span runs from the first value token after
// the ":" to the last token before any "!important" or ";", so comments
// and whitespace between value tokens are preserved verbatim.
func handleDeclaration(node *sitter.Node, source []byte, sheet *Sheet) {
	var propertyNode *sitter.Node
	var first, last *sitter.Node
	sawColon := false
	valueEndsAt := uint(0)

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			if propertyNode == nil {
				propertyNode = child
			}
		case ":":
			sawColon = true
			valueEndsAt = child.EndByte()
		case ";", "!", "important":
			// Terminators, never part of the value.
		case "comment":
			// Interior comments fall inside the first..last span;
			// leading and trailing ones are excluded.
		default:
			if sawColon {
				if first == nil {
					first = child
				}
				last = child
			}
		}
	}

	if propertyNode == nil || !sawColon {
		return
	}

	decl := Declaration{
		Property: string(source[propertyNode.StartByte():propertyNode.EndByte()]),
	}
	if first != nil {
		decl.ValueStart = first.StartByte()
		decl.ValueEnd = last.EndByte()
		decl.Value = string(source[decl.ValueStart:decl.ValueEnd])
	} else {
		// Empty value, e.g. `--x:;`
		decl.ValueStart = valueEndsAt
		decl.ValueEnd = valueEndsAt
	}

	sheet.Declarations = append(sheet.Declarations, decl)
}
