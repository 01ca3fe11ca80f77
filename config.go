package bbcode

// defaultMaxDepth bounds nesting so that even adversarial input performs
// bounded work (§5: total work is O(input length × max_depth)).
const defaultMaxDepth = 50

// ParserConfig controls how the tree builder resolves and recovers from
// malformed input. The zero value is not valid configuration; use
// DefaultParserConfig to get one with the documented defaults.
type ParserConfig struct {
	// MaxDepth bounds stack depth; tags that would exceed it degrade to
	// literal text (§4.2).
	MaxDepth int

	// AutoLink, when true, keeps AutoURL tokens as AutoURL nodes; when
	// false they render as plain text.
	AutoLink bool

	// ConvertLinebreaks, when false, keeps line breaks as plain text
	// nodes, so they render as the literal newline from the source
	// instead of "<br />".
	ConvertLinebreaks bool

	// AllowUnknownTags, when true, renders an unresolved tag name as its
	// original bracketed text instead of dropping it silently.
	AllowUnknownTags bool
}

// DefaultParserConfig returns the documented default configuration.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MaxDepth:          defaultMaxDepth,
		AutoLink:          true,
		ConvertLinebreaks: true,
		AllowUnknownTags:  true,
	}
}

// defaultAllowedSchemes is the scheme allow-list used when RenderConfig
// does not specify one.
var defaultAllowedSchemes = []string{"http", "https", "mailto"}

// RenderConfig controls HTML emission and sanitization.
type RenderConfig struct {
	// ClassPrefix is prepended (with a "-") to every CSS class the
	// renderer emits for a BBCode-specific element, e.g. "bbcode-quote".
	// The spoiler's inner "spoiler-content" div and a code block's
	// "language-X" class are written without it.
	ClassPrefix string

	// NofollowLinks adds rel="nofollow" to [url] and auto-linked anchors.
	// [email] and [user] anchors do not get it.
	NofollowLinks bool

	// OpenLinksInNewTab adds target="_blank" to [url] and auto-linked
	// anchors. [email] and [user] anchors do not get it.
	OpenLinksInNewTab bool

	// Sanitize, when false, emits text content without HTML-escaping.
	// Intended only for trusted input; defaults to true.
	Sanitize bool

	// ConvertLinebreaks mirrors ParserConfig.ConvertLinebreaks for callers
	// that render a Document produced with a different configuration.
	ConvertLinebreaks bool

	// AllowedSchemes is the URL scheme allow-list checked by the URL
	// validator (§4.4). Scheme comparison is case-folded.
	AllowedSchemes []string
}

// DefaultRenderConfig returns the documented default configuration.
func DefaultRenderConfig() RenderConfig {
	schemes := make([]string, len(defaultAllowedSchemes))
	copy(schemes, defaultAllowedSchemes)
	return RenderConfig{
		ClassPrefix:       "bbcode",
		NofollowLinks:     true,
		OpenLinksInNewTab: false,
		Sanitize:          true,
		ConvertLinebreaks: true,
		AllowedSchemes:    schemes,
	}
}
