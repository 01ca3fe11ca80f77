package bbcode

import "strings"

// Kind determines a tag's parsing and rendering behavior.
type Kind int

const (
	// Inline tags nest freely and never force a block boundary: b, i, u, ...
	Inline Kind = iota

	// Block tags are structural containers: quote, list, table, ...
	Block

	// Verbatim tags have their content captured as literal text via the
	// lexer's verbatim scan instead of being tokenized as BBCode.
	Verbatim

	// SelfClosing tags never push onto the builder's stack, with one
	// exception: the list-item tag ("*") is pushed and consumes tokens up
	// to the next SelfClosing open tag or "[/list]" (§4.2).
	SelfClosing

	// Void tags render as a self-closing HTML element and accept no
	// content: hr, br.
	Void
)

// Definition is an immutable descriptor governing one tag's parse and
// render behavior. A Registry maps lower-cased names and aliases to a
// shared *Definition; static definitions are built once at package init
// and custom ones are supplied by the caller via RegisterCustom.
type Definition struct {
	// Name is the canonical, lower-case tag name.
	Name string

	// Aliases are additional lower-case spellings that resolve to this
	// same Definition.
	Aliases []string

	Kind Kind

	// OptionRequired/OptionAllowed govern the tag's "=value" argument.
	OptionRequired bool
	OptionAllowed  bool

	// HasContent is false for tags that never accept children (Void).
	HasContent bool

	// ForbiddenAncestors lists canonical tag names this tag may not
	// appear inside, at any depth.
	ForbiddenAncestors []string

	// RequiredParents, if non-empty, requires at least one ancestor on
	// the stack to match one of these canonical names.
	RequiredParents []string

	StopAutoLink     bool
	StopSmilies      bool
	ConvertNewlines  bool
	TrimContent      bool
}

func hasFold(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// isAncestorForbidden reports whether ancestor's canonical name appears in
// d's forbidden-ancestor list.
func (d *Definition) isAncestorForbidden(ancestor string) bool {
	return hasFold(d.ForbiddenAncestors, ancestor)
}

// hasRequiredParent reports whether stack (bottom-to-top canonical names)
// satisfies d's required-parent constraint. A tag with no required
// parents is always satisfied.
func (d *Definition) hasRequiredParent(stack []string) bool {
	if len(d.RequiredParents) == 0 {
		return true
	}
	for _, s := range stack {
		if hasFold(d.RequiredParents, s) {
			return true
		}
	}
	return false
}

// closeAliases returns the full set of names (canonical + aliases) a
// verbatim close tag may use to close this definition — e.g. "plain" may
// be closed by "[/noparse]" or "[/nobbc]" as well as "[/plain]" (§9 open
// question b).
func (d *Definition) closeAliases() []string {
	names := make([]string, 0, len(d.Aliases)+1)
	names = append(names, d.Name)
	names = append(names, d.Aliases...)
	return names
}

// Registry resolves tag names to Definitions. Static definitions are
// built in; custom definitions are registered at runtime and shadow a
// static definition of the same name. Registries are read-only once
// parsing begins.
type Registry struct {
	custom *customTable
}

// customTable is the mutable part of a Registry, shared by pointer across
// clones so registered custom tags remain visible to every registry that
// descends from the one they were registered on (§5, §9 "custom tag
// sharing"). Go's garbage collector keeps it alive; no explicit refcount
// is needed.
type customTable struct {
	byName map[string]*Definition
}

// NewRegistry returns a Registry containing only the built-in static tags.
func NewRegistry() *Registry {
	return &Registry{custom: &customTable{byName: make(map[string]*Definition)}}
}

// Clone returns a Registry that shares this one's custom definitions.
// Further RegisterCustom calls on either registry are visible to both,
// matching the reference-counted sharing model in spec §5.
func (r *Registry) Clone() *Registry {
	return &Registry{custom: r.custom}
}

// RegisterCustom adds or shadows a tag definition by name and its
// aliases. It must be called before parsing begins; registries are not
// safe for concurrent registration and lookup.
func (r *Registry) RegisterCustom(def *Definition) {
	name := strings.ToLower(def.Name)
	if _, shadowing := staticTags[name]; shadowing {
		logf("custom tag %q shadows a built-in definition", name)
	}
	r.custom.byName[name] = def
	for _, alias := range def.Aliases {
		r.custom.byName[strings.ToLower(alias)] = def
	}
}

// Resolve looks up name (case-insensitive), preferring a custom
// definition over a static one of the same name.
func (r *Registry) Resolve(name string) (*Definition, bool) {
	lower := strings.ToLower(name)
	if d, ok := r.custom.byName[lower]; ok {
		return d, true
	}
	d, ok := staticTags[lower]
	return d, ok
}

// staticTags maps every built-in canonical name and alias to its shared
// Definition, populated once at package init.
var staticTags map[string]*Definition

// staticDefs is the canonical list of built-in tag definitions; each is
// inserted into staticTags under its name and every alias.
var staticDefs []*Definition

func init() {
	staticDefs = []*Definition{
		{Name: "b", Aliases: []string{"bold"}, Kind: Inline, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "i", Aliases: []string{"italic"}, Kind: Inline, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "u", Aliases: []string{"underline"}, Kind: Inline, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "s", Aliases: []string{"strike", "strikethrough"}, Kind: Inline, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "sub", Kind: Inline, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "sup", Kind: Inline, OptionAllowed: true, HasContent: true, ConvertNewlines: true},

		{Name: "color", Aliases: []string{"colour"}, Kind: Inline, OptionRequired: true, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "font", Kind: Inline, OptionRequired: true, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "size", Kind: Inline, OptionRequired: true, OptionAllowed: true, HasContent: true, ConvertNewlines: true},

		{Name: "url", Aliases: []string{"link"}, Kind: Inline, OptionAllowed: true, HasContent: true,
			ForbiddenAncestors: []string{"url", "email"}, StopAutoLink: true, ConvertNewlines: true},
		{Name: "email", Aliases: []string{"mail"}, Kind: Inline, OptionAllowed: true, HasContent: true,
			ForbiddenAncestors: []string{"url", "email"}, StopAutoLink: true, ConvertNewlines: true},
		{Name: "img", Aliases: []string{"image"}, Kind: Inline, OptionAllowed: true, HasContent: true,
			ForbiddenAncestors: []string{"url", "email"}, StopAutoLink: true},

		{Name: "quote", Kind: Block, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "code", Kind: Verbatim, OptionAllowed: true, HasContent: true, TrimContent: true},
		{Name: "icode", Aliases: []string{"c", "inline"}, Kind: Verbatim, HasContent: true},
		{Name: "php", Kind: Verbatim, HasContent: true, TrimContent: true},
		{Name: "html", Kind: Verbatim, HasContent: true, TrimContent: true},
		{Name: "plain", Aliases: []string{"noparse", "nobbc"}, Kind: Verbatim, HasContent: true, TrimContent: true},

		{Name: "list", Kind: Block, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "*", Aliases: []string{"li"}, Kind: SelfClosing, HasContent: true,
			RequiredParents: []string{"list"}, ConvertNewlines: true},

		{Name: "left", Kind: Block, HasContent: true, ConvertNewlines: true},
		{Name: "center", Kind: Block, HasContent: true, ConvertNewlines: true},
		{Name: "right", Kind: Block, HasContent: true, ConvertNewlines: true},
		{Name: "justify", Kind: Block, HasContent: true, ConvertNewlines: true},
		{Name: "indent", Kind: Block, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "heading", Aliases: []string{"h"}, Kind: Block, OptionAllowed: true, HasContent: true, ConvertNewlines: true},

		{Name: "hr", Kind: Void, HasContent: false},
		{Name: "br", Kind: Void, HasContent: false},
		{Name: "spoiler", Kind: Block, OptionAllowed: true, HasContent: true, ConvertNewlines: true},
		{Name: "ispoiler", Kind: Inline, HasContent: true, ConvertNewlines: true},
		{Name: "user", Aliases: []string{"member"}, Kind: Inline, OptionAllowed: true, HasContent: true},

		{Name: "table", Kind: Block, OptionAllowed: true, HasContent: true, RequiredParents: nil},
		{Name: "tr", Kind: Block, HasContent: true, RequiredParents: []string{"table"}},
		{Name: "th", Kind: Block, OptionAllowed: true, HasContent: true, RequiredParents: []string{"tr"}},
		{Name: "td", Kind: Block, OptionAllowed: true, HasContent: true, RequiredParents: []string{"tr"}},
	}

	staticTags = make(map[string]*Definition, len(staticDefs)*2)
	for _, d := range staticDefs {
		staticTags[d.Name] = d
		for _, alias := range d.Aliases {
			staticTags[alias] = d
		}
	}
}
