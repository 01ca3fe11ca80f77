// Package bbcode converts BBCode markup into sanitized HTML.
//
// The pipeline is three stages: Tokenize splits raw text into a flat
// token stream, Parser.Parse builds the token stream into a Document
// tree with proper nesting (auto-closing and stack-fold recovery take
// the place of a hard parse error), and Renderer.Render walks a
// Document into an HTML string, validating every URL, color, font, and
// size against an allow-list before it reaches output.
//
// The package-level Parse and ParseWithConfig functions cover the common
// case of going straight from source to HTML with default or custom
// configuration. Callers that need to register custom tags, inspect the
// tree, or reuse a Parser/Renderer across many documents should build
// their own pipeline from NewParser and NewRenderer instead.
//
//	html := bbcode.Parse("[b]hello[/b] [url=https://example.com]link[/url]")
package bbcode

// Parse converts input to HTML using DefaultParserConfig and
// DefaultRenderConfig.
func Parse(input string) string {
	return ParseWithConfig(input, DefaultParserConfig(), DefaultRenderConfig())
}

// ParseWithConfig converts input to HTML using the given parser and
// render configuration.
func ParseWithConfig(input string, pc ParserConfig, rc RenderConfig) string {
	doc := NewParser(NewRegistry(), pc).Parse(input)
	return NewRenderer(rc).Render(doc)
}

// Tokenize exposes the lexer's raw token stream, mainly useful for
// tests and diagnostics; ordinary callers want Parse or a Parser.
func Tokenize(input string) []Token {
	return Lex(input)
}
