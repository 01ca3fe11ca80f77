package bbcode

import (
	"strconv"
	"strings"
)

// Renderer walks a Document and emits HTML. It holds only its
// configuration; a single Renderer is safe to reuse and to share across
// goroutines since Render never mutates the Document it walks.
type Renderer struct {
	config RenderConfig

	// stats is nil for every exported Renderer except the private copy
	// RenderWithDiagnostics builds for itself, so Render keeps the
	// no-shared-mutable-state guarantee above.
	stats *renderStats
}

// NewRenderer returns a Renderer using config.
func NewRenderer(config RenderConfig) *Renderer {
	return &Renderer{config: config}
}

// Render walks doc and returns the HTML it describes.
func (r *Renderer) Render(doc *Document) string {
	var b strings.Builder
	r.renderNodes(&b, doc.Nodes)
	return b.String()
}

type renderStats struct {
	broken int
}

// LintResult is the result of RenderWithDiagnostics.
type LintResult struct {
	HTML string

	// Broken counts tags that the renderer emitted as their literal
	// bracket text instead of their usual HTML shape: a rejected
	// URL/email/color/font/size, or a tag with no HTML mapping (such as a
	// custom tag). Tags the parser already turned into text (unknown
	// names, a missing required option, a nesting or depth violation) are
	// not counted.
	Broken int
}

// RenderWithDiagnostics renders doc like Render, plus a count of tags
// that degraded to raw text. Used by cmd/bbcodelint's --strict flag to
// detect "this input didn't fully render" without diffing HTML.
func (r *Renderer) RenderWithDiagnostics(doc *Document) LintResult {
	rr := &Renderer{config: r.config, stats: &renderStats{}}
	var b strings.Builder
	rr.renderNodes(&b, doc.Nodes)
	return LintResult{HTML: b.String(), Broken: rr.stats.broken}
}

func (r *Renderer) class(suffix string) string {
	if r.config.ClassPrefix == "" {
		return suffix
	}
	return r.config.ClassPrefix + "-" + suffix
}

func (r *Renderer) renderNodes(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		r.renderNode(b, n)
	}
}

func (r *Renderer) renderNode(b *strings.Builder, n Node) {
	switch n.Kind {
	case NodeText:
		r.writeText(b, n.Text)
	case NodeLineBreak:
		if r.config.ConvertLinebreaks {
			b.WriteString("<br />\n")
		} else {
			b.WriteString(n.Text)
		}
	case NodeAutoURL:
		r.renderAutoURL(b, n.Text)
	case NodeTag:
		r.renderTag(b, n.Tag)
	}
}

func (r *Renderer) writeText(b *strings.Builder, s string) {
	if r.config.Sanitize {
		b.WriteString(escapeHTML(s))
	} else {
		b.WriteString(s)
	}
}

func (r *Renderer) renderAutoURL(b *strings.Builder, url string) {
	if !validateURL(url, r.config.AllowedSchemes) {
		r.writeText(b, url)
		return
	}
	b.WriteString(`<a class="`)
	b.WriteString(r.class("url"))
	b.WriteString(`" href="`)
	b.WriteString(escapeHTML(url))
	b.WriteString(`"`)
	r.writeLinkAttrs(b)
	b.WriteString(`>`)
	b.WriteString(escapeHTML(url))
	b.WriteString(`</a>`)
}

func (r *Renderer) writeLinkAttrs(b *strings.Builder) {
	if r.config.NofollowLinks {
		b.WriteString(` rel="nofollow"`)
	}
	if r.config.OpenLinksInNewTab {
		b.WriteString(` target="_blank"`)
	}
}

// renderBroken re-emits a tag's original bracket text literally: the
// open tag, its rendered children (still processed, never dropped), and
// the close tag if one was found in the source.
func (r *Renderer) renderBroken(b *strings.Builder, t *TagNode) {
	if r.stats != nil {
		r.stats.broken++
	}
	r.writeText(b, t.RawOpen)
	r.renderNodes(b, t.Children)
	if t.RawClose != "" {
		r.writeText(b, t.RawClose)
	}
}

func (r *Renderer) renderTag(b *strings.Builder, t *TagNode) {
	switch t.Name {
	case "b":
		r.wrap(b, t, "strong", "")
	case "i":
		r.wrap(b, t, "em", "")
	case "u":
		r.wrap(b, t, "u", "")
	case "s":
		r.wrap(b, t, "s", "")
	case "sub":
		r.wrap(b, t, "sub", "")
	case "sup":
		r.wrap(b, t, "sup", "")
	case "color":
		r.renderColor(b, t)
	case "font":
		r.renderFont(b, t)
	case "size":
		r.renderSize(b, t)
	case "url":
		r.renderURL(b, t)
	case "email":
		r.renderEmail(b, t)
	case "img":
		r.renderImg(b, t)
	case "quote":
		r.renderQuote(b, t)
	case "code":
		r.renderCode(b, t, "")
	case "icode":
		r.renderInlineCode(b, t)
	case "php":
		r.renderCode(b, t, "php")
	case "html":
		r.renderCode(b, t, "html")
	case "plain":
		r.renderPlain(b, t)
	case "list":
		r.renderList(b, t)
	case "*":
		r.wrap(b, t, "li", "")
	case "left":
		r.renderAlign(b, t, "left")
	case "center":
		r.renderAlign(b, t, "center")
	case "right":
		r.renderAlign(b, t, "right")
	case "justify":
		r.renderAlign(b, t, "justify")
	case "indent":
		r.renderIndent(b, t)
	case "heading":
		r.renderHeading(b, t)
	case "hr":
		b.WriteString("<hr />")
	case "br":
		b.WriteString("<br />")
	case "spoiler":
		r.renderSpoiler(b, t)
	case "ispoiler":
		r.renderInlineSpoiler(b, t)
	case "user":
		r.renderUser(b, t)
	case "table":
		r.renderTableElem(b, t, "table")
	case "tr":
		r.wrap(b, t, "tr", "")
	case "th":
		r.renderTableElem(b, t, "th")
	case "td":
		r.renderTableElem(b, t, "td")
	default:
		r.renderBroken(b, t)
	}
}

// wrap emits <elem attrs>children</elem>. It does no validation of its
// own: renderColor etc. call it only once attrs is known good, and
// degrade to the raw source text themselves otherwise.
func (r *Renderer) wrap(b *strings.Builder, t *TagNode, elem, attrs string) {
	b.WriteString("<")
	b.WriteString(elem)
	if attrs != "" {
		b.WriteString(" ")
		b.WriteString(attrs)
	}
	b.WriteString(">")
	r.renderNodes(b, t.Children)
	b.WriteString("</")
	b.WriteString(elem)
	b.WriteString(">")
}

func (r *Renderer) renderColor(b *strings.Builder, t *TagNode) {
	value := t.Option.Scalar
	if !validateColor(value) {
		r.renderBroken(b, t)
		return
	}
	r.wrap(b, t, "span", `class="`+r.class("color")+`" style="color: `+value+`;"`)
}

func (r *Renderer) renderFont(b *strings.Builder, t *TagNode) {
	value := t.Option.Scalar
	if !validateFont(value) {
		r.renderBroken(b, t)
		return
	}
	r.wrap(b, t, "span", `class="`+r.class("font")+`" style="font-family: `+value+`;"`)
}

func (r *Renderer) renderSize(b *strings.Builder, t *TagNode) {
	css, ok := validateSize(t.Option.Scalar)
	if !ok {
		r.renderBroken(b, t)
		return
	}
	r.wrap(b, t, "span", `class="`+r.class("size")+`" style="font-size: `+css+`;"`)
}

func (r *Renderer) renderURL(b *strings.Builder, t *TagNode) {
	target := t.Option.Scalar
	if target == "" {
		target = plainText(t.Children)
	}
	if !validateURL(target, r.config.AllowedSchemes) {
		r.renderBroken(b, t)
		return
	}
	b.WriteString(`<a class="`)
	b.WriteString(r.class("url"))
	b.WriteString(`" href="`)
	b.WriteString(escapeHTML(target))
	b.WriteString(`"`)
	r.writeLinkAttrs(b)
	b.WriteString(`>`)
	r.renderNodes(b, t.Children)
	b.WriteString(`</a>`)
}

func (r *Renderer) renderEmail(b *strings.Builder, t *TagNode) {
	target := t.Option.Scalar
	if target == "" {
		target = plainText(t.Children)
	}
	if !validateEmail(target) {
		r.renderBroken(b, t)
		return
	}
	b.WriteString(`<a class="`)
	b.WriteString(r.class("url"))
	b.WriteString(`" href="mailto:`)
	b.WriteString(escapeHTML(target))
	b.WriteString(`">`)
	r.renderNodes(b, t.Children)
	b.WriteString(`</a>`)
}

func (r *Renderer) renderImg(b *strings.Builder, t *TagNode) {
	src := plainText(t.Children)
	if !validateURL(src, r.config.AllowedSchemes) {
		r.renderBroken(b, t)
		return
	}

	var width, height int
	var alt string
	switch t.Option.Kind {
	case OptionScalar:
		width, height, _ = parseImageDimensions(t.Option.Scalar)
	case OptionMap:
		if v, ok := t.Option.Get("width"); ok {
			width, _ = parseUint(v)
			width = clampDimension(width)
		}
		if v, ok := t.Option.Get("height"); ok {
			height, _ = parseUint(v)
			height = clampDimension(height)
		}
		alt, _ = t.Option.Get("alt")
	}

	b.WriteString(`<img class="`)
	b.WriteString(r.class("img"))
	b.WriteString(`" src="`)
	b.WriteString(escapeHTML(src))
	b.WriteString(`"`)
	if width > 0 {
		b.WriteString(` width="`)
		b.WriteString(strconv.Itoa(width))
		b.WriteString(`"`)
	}
	if height > 0 {
		b.WriteString(` height="`)
		b.WriteString(strconv.Itoa(height))
		b.WriteString(`"`)
	}
	if alt != "" {
		b.WriteString(` alt="`)
		b.WriteString(escapeHTML(alt))
		b.WriteString(`"`)
	}
	b.WriteString(` />`)
}

func (r *Renderer) renderQuote(b *strings.Builder, t *TagNode) {
	author := ""
	if t.Option.Kind == OptionScalar {
		author = t.Option.Scalar
	}
	b.WriteString(`<blockquote class="`)
	b.WriteString(r.class("quote"))
	b.WriteString(`"`)
	if author != "" {
		b.WriteString(` data-author="`)
		b.WriteString(escapeHTML(author))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	if author != "" {
		b.WriteString(escapeHTML(author))
		b.WriteString(` wrote:`)
	}
	b.WriteString(`<div class="`)
	b.WriteString(r.class("quote-content"))
	b.WriteString(`">`)
	r.renderNodes(b, t.Children)
	b.WriteString(`</div></blockquote>`)
}

// renderCode renders a verbatim code block. forcedLang overrides the
// tag's own "=lang" option for the dedicated [php]/[html] tags; [code]
// passes "" through and takes whatever language the option names.
func (r *Renderer) renderCode(b *strings.Builder, t *TagNode, forcedLang string) {
	lang := forcedLang
	if lang == "" && t.Option.Kind == OptionScalar {
		lang = t.Option.Scalar
	}
	b.WriteString(`<pre class="`)
	b.WriteString(r.class("code"))
	b.WriteString(`"`)
	if lang != "" {
		b.WriteString(` data-language="`)
		b.WriteString(escapeHTML(lang))
		b.WriteString(`"`)
	}
	b.WriteString(`><code`)
	if lang != "" {
		b.WriteString(` class="language-`)
		b.WriteString(escapeHTML(lang))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	b.WriteString(escapeHTML(plainText(t.Children)))
	b.WriteString(`</code></pre>`)
}

func (r *Renderer) renderInlineCode(b *strings.Builder, t *TagNode) {
	b.WriteString(`<code>`)
	b.WriteString(escapeHTML(plainText(t.Children)))
	b.WriteString(`</code>`)
}

func (r *Renderer) renderPlain(b *strings.Builder, t *TagNode) {
	b.WriteString(escapeHTML(plainText(t.Children)))
}

// orderedListTypes are the list=X option values that select an <ol
// type="X"> rather than an unordered list.
var orderedListTypes = map[string]bool{"1": true, "a": true, "A": true, "i": true, "I": true}

// bulletListStyles are the list=X option values that select an inline
// list-style-type on a <ul> rather than the browser default.
var bulletListStyles = map[string]bool{"disc": true, "circle": true, "square": true}

func (r *Renderer) renderList(b *strings.Builder, t *TagNode) {
	opt := ""
	if t.Option.Kind == OptionScalar {
		opt = t.Option.Scalar
	}
	switch {
	case orderedListTypes[opt]:
		b.WriteString(`<ol type="`)
		b.WriteString(opt)
		b.WriteString(`">`)
		r.renderNodes(b, t.Children)
		b.WriteString(`</ol>`)
	case bulletListStyles[opt]:
		b.WriteString(`<ul style="list-style-type: `)
		b.WriteString(opt)
		b.WriteString(`;">`)
		r.renderNodes(b, t.Children)
		b.WriteString(`</ul>`)
	default:
		b.WriteString(`<ul>`)
		r.renderNodes(b, t.Children)
		b.WriteString(`</ul>`)
	}
}

func (r *Renderer) renderIndent(b *strings.Builder, t *TagNode) {
	level := 1
	if t.Option.Kind == OptionScalar {
		if n, ok := parseUint(t.Option.Scalar); ok && n > 0 {
			level = n
		}
	}
	r.wrap(b, t, "div", `class="`+r.class("indent")+`" style="margin-left: `+strconv.Itoa(level*2)+`em;"`)
}

func (r *Renderer) renderAlign(b *strings.Builder, t *TagNode, dir string) {
	r.wrap(b, t, "div", `class="`+r.class("align")+`" style="text-align: `+dir+`;"`)
}

func (r *Renderer) renderHeading(b *strings.Builder, t *TagNode) {
	level := 1
	if t.Option.Kind == OptionScalar {
		if n, ok := parseUint(t.Option.Scalar); ok {
			level = n
		}
	}
	htmlLevel := level + 1
	if htmlLevel < 2 {
		htmlLevel = 2
	}
	if htmlLevel > 6 {
		htmlLevel = 6
	}
	elem := "h" + strconv.Itoa(htmlLevel)
	r.wrap(b, t, elem, "")
}

func (r *Renderer) renderSpoiler(b *strings.Builder, t *TagNode) {
	label := "Spoiler"
	if t.Option.Kind == OptionScalar && t.Option.Scalar != "" {
		label = t.Option.Scalar
	}
	b.WriteString(`<details class="`)
	b.WriteString(r.class("spoiler"))
	b.WriteString(`"><summary>`)
	b.WriteString(escapeHTML(label))
	b.WriteString(`</summary><div class="spoiler-content">`)
	r.renderNodes(b, t.Children)
	b.WriteString(`</div></details>`)
}

// renderTableElem wraps a table/th/td element, honoring a scalar option
// as an inline "width: X;" style (§4.4's table row).
func (r *Renderer) renderTableElem(b *strings.Builder, t *TagNode, elem string) {
	attrs := ""
	if t.Option.Kind == OptionScalar && t.Option.Scalar != "" {
		attrs = `style="width: ` + escapeHTML(t.Option.Scalar) + `;"`
	}
	r.wrap(b, t, elem, attrs)
}

func (r *Renderer) renderInlineSpoiler(b *strings.Builder, t *TagNode) {
	b.WriteString(`<span class="`)
	b.WriteString(r.class("ispoiler"))
	b.WriteString(`">`)
	r.renderNodes(b, t.Children)
	b.WriteString(`</span>`)
}

func (r *Renderer) renderUser(b *strings.Builder, t *TagNode) {
	if t.Option.Kind == OptionScalar && t.Option.Scalar != "" {
		if id, ok := parseUint(t.Option.Scalar); ok {
			b.WriteString(`<a class="`)
			b.WriteString(r.class("user"))
			b.WriteString(`" href="/user/`)
			b.WriteString(strconv.Itoa(id))
			b.WriteString(`">`)
			r.renderNodes(b, t.Children)
			b.WriteString(`</a>`)
			return
		}
	}
	b.WriteString(`<span class="`)
	b.WriteString(r.class("user"))
	b.WriteString(`">`)
	r.renderNodes(b, t.Children)
	b.WriteString(`</span>`)
}

// plainText flattens nodes into their text content, ignoring markup —
// used where a tag's argument may be given either as "=value" or as its
// own body (e.g. "[url]https://a.com[/url]").
func plainText(nodes []Node) string {
	var b strings.Builder
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n.Kind {
			case NodeText, NodeLineBreak, NodeAutoURL:
				b.WriteString(n.Text)
			case NodeTag:
				if n.Tag != nil {
					walk(n.Tag.Children)
				}
			}
		}
	}
	walk(nodes)
	return b.String()
}
