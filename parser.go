package bbcode

import "strings"

// Parser builds a Document from BBCode source using a registry of tag
// definitions and a ParserConfig. A Parser is safe to reuse across many
// Parse calls; it holds no per-document state itself.
type Parser struct {
	registry *Registry
	config   ParserConfig
}

// NewParser returns a Parser using registry for tag resolution. A nil
// registry falls back to a fresh registry containing only the built-in
// static tags.
func NewParser(registry *Registry, config ParserConfig) *Parser {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Parser{registry: registry, config: config}
}

// RegisterCustom registers a custom tag definition on the parser's
// underlying registry (see Registry.RegisterCustom).
func (p *Parser) RegisterCustom(def *Definition) {
	p.registry.RegisterCustom(def)
}

// Parse tokenizes and builds input into a Document. It never fails:
// malformed markup degrades to literal text per the tag's own recovery
// rule rather than producing an error (§4.2, §7).
func (p *Parser) Parse(input string) *Document {
	b := &builder{
		input:    input,
		registry: p.registry,
		config:   p.config,
		tokens:   Lex(input),
		doc:      &Document{source: input},
	}
	b.run()
	b.closeAll()
	return b.doc
}

// builder holds the mutable state of one Parse call: a token cursor, the
// stack of currently-open tags, and the document being assembled. Unlike
// the token-cursor Parser this is descended from, builder never recurses
// per nesting level — every tag, however deeply nested, is one stack push
// and the recovery fold below is the only place children move between
// nodes after the fact.
type builder struct {
	input    string
	registry *Registry
	config   ParserConfig
	tokens   []Token
	pos      int
	stack    []*TagNode
	doc      *Document
}

func (b *builder) run() {
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]

		if n := len(b.stack); n > 0 {
			top := b.stack[n-1]
			if top.Def.Kind == SelfClosing && b.isListSentinel(tok) {
				b.popStack()
				continue
			}
		}

		switch tok.Typ {
		case TokenText:
			b.appendNode(textNode(NodeText, tok.Raw))
			b.pos++
		case TokenLineBreak:
			if b.config.ConvertLinebreaks {
				b.appendNode(textNode(NodeLineBreak, tok.Raw))
			} else {
				b.appendNode(textNode(NodeText, tok.Raw))
			}
			b.pos++
		case TokenAutoURL:
			if b.config.AutoLink && !b.autoLinkSuppressed() {
				b.appendNode(textNode(NodeAutoURL, tok.Raw))
			} else {
				b.appendNode(textNode(NodeText, tok.Raw))
			}
			b.pos++
		case TokenOpenTag:
			b.handleOpenTag(tok)
		case TokenCloseTag:
			b.handleCloseTag(tok)
		}
	}
}

// isListSentinel reports whether tok marks the end of the current [*]
// list item: the next "*" (any SelfClosing tag) or a close tag resolving
// to "list" (§4.2: the sentinel itself is never consumed here).
func (b *builder) isListSentinel(tok Token) bool {
	switch tok.Typ {
	case TokenOpenTag:
		d, ok := b.registry.Resolve(tok.Name)
		return ok && d.Kind == SelfClosing
	case TokenCloseTag:
		d, ok := b.registry.Resolve(tok.Name)
		return ok && d.Name == "list"
	default:
		return false
	}
}

func (b *builder) autoLinkSuppressed() bool {
	for _, t := range b.stack {
		if t.Def.StopAutoLink {
			return true
		}
	}
	return false
}

func (b *builder) appendNode(n Node) {
	if len(b.stack) == 0 {
		b.doc.Nodes = append(b.doc.Nodes, n)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, n)
}

// popStack closes the top-of-stack node unconditionally and attaches it
// to whatever is now below it (or the document root).
func (b *builder) popStack() {
	n := len(b.stack)
	top := b.stack[n-1]
	top.Closed = true
	b.stack = b.stack[:n-1]
	b.appendNode(tagNode(top))
}

func (b *builder) stackNames() []string {
	names := make([]string, len(b.stack))
	for i, t := range b.stack {
		names[i] = t.Def.Name
	}
	return names
}

func (b *builder) atMaxDepth() bool {
	max := b.config.MaxDepth
	if max <= 0 {
		max = defaultMaxDepth
	}
	return len(b.stack) >= max
}

// handleOpenTag resolves, validates, and dispatches a TokenOpenTag. Every
// failed validation degrades the tag to its literal source text and
// leaves the stack untouched, matching the "never hard-fail" posture
// required by §4.2/§7.
func (b *builder) handleOpenTag(tok Token) {
	def, ok := b.registry.Resolve(tok.Name)
	if !ok {
		logf("unresolved tag %q at byte %d", tok.RawName, tok.Pos)
		if b.config.AllowUnknownTags {
			b.appendNode(textNode(NodeText, tok.Raw))
		}
		b.pos++
		return
	}

	if def.OptionRequired && !tok.HasOption {
		logf("tag %q missing required option at byte %d", def.Name, tok.Pos)
		b.appendNode(textNode(NodeText, tok.Raw))
		b.pos++
		return
	}

	names := b.stackNames()
	for _, ancestor := range names {
		if def.isAncestorForbidden(ancestor) {
			logf("tag %q forbidden inside %q at byte %d", def.Name, ancestor, tok.Pos)
			b.appendNode(textNode(NodeText, tok.Raw))
			b.pos++
			return
		}
	}
	if !def.hasRequiredParent(names) {
		logf("tag %q used without required parent at byte %d", def.Name, tok.Pos)
		b.appendNode(textNode(NodeText, tok.Raw))
		b.pos++
		return
	}

	switch def.Kind {
	case Void:
		node := &TagNode{Name: def.Name, RawName: tok.RawName, Def: def,
			Option: b.parseOption(tok), RawOpen: tok.Raw, Closed: true}
		b.appendNode(tagNode(node))
		b.pos++

	case Verbatim:
		b.pos++
		b.handleVerbatim(tok, def)

	case SelfClosing:
		if def.Name != "*" {
			node := &TagNode{Name: def.Name, RawName: tok.RawName, Def: def,
				Option: b.parseOption(tok), RawOpen: tok.Raw, Closed: true}
			b.appendNode(tagNode(node))
			b.pos++
			return
		}
		if b.atMaxDepth() {
			logf("max nesting depth reached at byte %d", tok.Pos)
			b.appendNode(textNode(NodeText, tok.Raw))
			b.pos++
			return
		}
		node := &TagNode{Name: def.Name, RawName: tok.RawName, Def: def,
			Option: b.parseOption(tok), RawOpen: tok.Raw}
		b.stack = append(b.stack, node)
		b.pos++

	default: // Inline, Block
		if b.atMaxDepth() {
			logf("max nesting depth reached at byte %d", tok.Pos)
			b.appendNode(textNode(NodeText, tok.Raw))
			b.pos++
			return
		}
		node := &TagNode{Name: def.Name, RawName: tok.RawName, Def: def,
			Option: b.parseOption(tok), RawOpen: tok.Raw}
		b.stack = append(b.stack, node)
		b.pos++
	}
}

// handleCloseTag implements the proper-nesting recovery algorithm: a
// close tag matching an ancestor that isn't the top of the stack folds
// every intervening tag inward, innermost first, instead of being
// dropped or breaking the tree.
func (b *builder) handleCloseTag(tok Token) {
	def, ok := b.registry.Resolve(tok.Name)
	if !ok {
		logf("unresolved closing tag %q at byte %d", tok.RawName, tok.Pos)
		if b.config.AllowUnknownTags {
			b.appendNode(textNode(NodeText, tok.Raw))
		}
		b.pos++
		return
	}

	idx := b.findMatchingOpen(def)
	if idx < 0 {
		logf("unmatched closing tag %q at byte %d", def.Name, tok.Pos)
		b.appendNode(textNode(NodeText, tok.Raw))
		b.pos++
		return
	}

	closed := append([]*TagNode(nil), b.stack[idx:]...)
	b.stack = b.stack[:idx]
	if len(closed) > 1 {
		logf("closing tag %q at byte %d auto-closes %d inner tag(s)", def.Name, tok.Pos, len(closed)-1)
	}

	closed[0].RawClose = tok.Raw
	closed[0].Closed = true
	for i := 1; i < len(closed); i++ {
		closed[i].Closed = true
	}

	result := closed[len(closed)-1]
	for i := len(closed) - 2; i >= 0; i-- {
		parent := closed[i]
		parent.Children = append(parent.Children, tagNode(result))
		result = parent
	}
	b.appendNode(tagNode(result))
	b.pos++
}

func (b *builder) findMatchingOpen(def *Definition) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].Def == def {
			return i
		}
	}
	return -1
}

// closeAll auto-closes whatever remains open at end of input (§4.2). Each
// node keeps the children it had accumulated and is marked Closed; its
// RawClose stays empty, since no close tag for it exists in the source.
func (b *builder) closeAll() {
	for len(b.stack) > 0 {
		n := len(b.stack)
		top := b.stack[n-1]
		top.Closed = true
		logf("tag %q auto-closed at end of input", top.Name)
		b.stack = b.stack[:n-1]
		b.appendNode(tagNode(top))
	}
}

// handleVerbatim captures a Verbatim tag's content by scanning the raw
// input for the nearest matching close tag — any of the definition's
// aliases count, e.g. "[plain]" may be closed by "[/noparse]" — bypassing
// the token stream entirely, then fast-forwards the token cursor past
// whatever it consumed.
func (b *builder) handleVerbatim(tok Token, def *Definition) {
	offset := tok.Pos + len(tok.Raw)

	var bestContent, bestClose, bestRest string
	found := false
	for _, name := range def.closeAliases() {
		content, closeTag, rest := ScanVerbatim(b.input, offset, name)
		if closeTag == "" {
			continue
		}
		if !found || len(content) < len(bestContent) {
			bestContent, bestClose, bestRest = content, closeTag, rest
			found = true
		}
	}

	var closed bool
	if found {
		closed = true
	} else {
		bestContent = b.input[offset:]
		bestRest = ""
		closed = false
	}

	text := bestContent
	if def.TrimContent {
		text = trimVerbatimContent(text)
	}

	node := &TagNode{
		Name:     def.Name,
		RawName:  tok.RawName,
		Def:      def,
		Option:   b.parseOption(tok),
		RawOpen:  tok.Raw,
		RawClose: bestClose,
		Closed:   closed,
	}
	if text != "" {
		node.Children = []Node{textNode(NodeText, text)}
	}
	b.appendNode(tagNode(node))

	newPos := len(b.input) - len(bestRest)
	for b.pos < len(b.tokens) && b.tokens[b.pos].Pos < newPos {
		b.pos++
	}
}

func trimVerbatimContent(s string) string {
	s = strings.TrimPrefix(s, "\r\n")
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\r\n")
	s = strings.TrimSuffix(s, "\n")
	return s
}

// parseOption classifies and parses tok's "=value" part. A value opening
// with "letters=" (e.g. "width=100 height=50") is an OptionMap; anything
// else, including a bare scalar target like a URL, is an opaque
// OptionScalar (see looksLikeKeyedOptions).
func (b *builder) parseOption(tok Token) TagOption {
	if !tok.HasOption {
		return TagOption{Kind: OptionNone}
	}
	if looksLikeKeyedOptions(tok.Option) {
		return TagOption{Kind: OptionMap, Map: parseKeyedOptions(tok.Option)}
	}
	return TagOption{Kind: OptionScalar, Scalar: tok.Option}
}

// splitOptionWords splits an option string on unquoted whitespace,
// keeping the contents of single- or double-quoted spans intact (and
// unquoted) so that e.g. alt="a picture" survives as one word.
func splitOptionWords(s string) []string {
	var words []string
	var cur strings.Builder
	inQuote := false
	var quoteChar byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == quoteChar {
				inQuote = false
			} else {
				cur.WriteByte(c)
			}
		case c == '"' || c == '\'':
			inQuote = true
			quoteChar = c
		case c == ' ' || c == '\t':
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// looksLikeKeyedOptions reports whether raw starts with a run of ASCII
// letters immediately followed by "=" — e.g. "width=100 height=50" — the
// shape required for the Map option form. This distinguishes
// [attach width=100] from [url=http://example.com?foo=bar]: the latter
// has non-letters (":") before its first "=", so it stays a Scalar.
func looksLikeKeyedOptions(raw string) bool {
	i := 0
	for i < len(raw) {
		c := raw[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i++
			continue
		}
		break
	}
	return i > 0 && i < len(raw) && raw[i] == '='
}

func parseKeyedOptions(raw string) []KV {
	words := splitOptionWords(raw)
	kvs := make([]KV, 0, len(words))
	for _, w := range words {
		eq := strings.IndexByte(w, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(w[:eq]))
		val := strings.TrimSpace(w[eq+1:])
		kvs = append(kvs, KV{Key: key, Value: val})
	}
	return kvs
}
