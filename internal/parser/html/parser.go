package html

import (
	"fmt"
	"sort"
	"sync"

	"bennypowers.dev/cvf/internal/parser/css"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser handles parsing HTML to extract CSS regions
type Parser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
	attrQuery  *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element (raw_text) @css)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}

		attrQuery, qerr := sitter.NewQuery(htmlLang, `
			(attribute
				(attribute_name) @attr_name
				(quoted_attribute_value (attribute_value) @attr_value)
				(#eq? @attr_name "style"))
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile attribute query: %v", qerr))
		}

		return &Parser{
			parser:     parser,
			styleQuery: styleQuery,
			attrQuery:  attrQuery,
		}
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
	if p.styleQuery != nil {
		p.styleQuery.Close()
	}
	if p.attrQuery != nil {
		p.attrQuery.Close()
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

// CSSRegions extracts CSS regions from HTML source in document order:
// the contents of <style> elements and the values of style attributes.
func (p *Parser) CSSRegions(source string) []CSSRegion {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var regions []CSSRegion

	// <style> tag contents
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(p.styleQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			regions = append(regions, CSSRegion{
				Content:   string(sourceBytes[node.StartByte():node.EndByte()]),
				StartByte: node.StartByte(),
				Type:      StyleTag,
			})
		}
	}

	// style="..." attribute values
	cursor2 := sitter.NewQueryCursor()
	defer cursor2.Close()

	attrMatches := cursor2.Matches(p.attrQuery, root, sourceBytes)
	for match := attrMatches.Next(); match != nil; match = attrMatches.Next() {
		for _, capture := range match.Captures {
			captureName := p.attrQuery.CaptureNames()[capture.Index]
			if captureName != "attr_value" {
				continue
			}
			node := capture.Node
			regions = append(regions, CSSRegion{
				Content:   string(sourceBytes[node.StartByte():node.EndByte()]),
				StartByte: node.StartByte(),
				Type:      StyleAttribute,
			})
		}
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].StartByte < regions[j].StartByte
	})
	return regions
}

// Sheet extracts and parses all CSS regions of an HTML document, mapping
// every declaration's value span back onto the HTML source so the
// document can be edited in place.
func (p *Parser) Sheet(source string) (*css.Sheet, error) {
	regions := p.CSSRegions(source)
	sheet := &css.Sheet{Declarations: []css.Declaration{}}
	if len(regions) == 0 {
		return sheet, nil
	}

	cssParser := css.AcquireParser()
	defer css.ReleaseParser(cssParser)

	for _, region := range regions {
		switch region.Type {
		case StyleTag:
			parsed, err := cssParser.Parse(region.Content)
			if err != nil {
				continue
			}
			appendRegionDeclarations(sheet, parsed, region.StartByte, 0)

		case StyleAttribute:
			// Wrap in a dummy rule to make valid CSS, then undo the
			// two byte "x{" prefix when mapping spans back.
			parsed, err := cssParser.Parse("x{" + region.Content + "}")
			if err != nil {
				continue
			}
			appendRegionDeclarations(sheet, parsed, region.StartByte, 2)
		}
	}

	return sheet, nil
}

// appendRegionDeclarations shifts declaration spans from region
// coordinates into document coordinates and collects them.
func appendRegionDeclarations(sheet, parsed *css.Sheet, startByte, wrapper uint) {
	for _, decl := range parsed.Declarations {
		if decl.ValueStart < wrapper {
			continue
		}
		decl.ValueStart = startByte + decl.ValueStart - wrapper
		decl.ValueEnd = startByte + decl.ValueEnd - wrapper
		sheet.Declarations = append(sheet.Declarations, decl)
	}
}
