package bbcode

import (
	"strings"
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func TestGocheck(t *testing.T) { TestingT(t) }

type IssueTestSuite struct{}

var _ = Suite(&IssueTestSuite{})

// Regression: a close tag with no matching open anywhere on the stack
// must never panic the fold (findMatchingOpen returning -1 used to be
// an easy off-by-one away from indexing b.stack[-1]).
func (s *IssueTestSuite) TestUnmatchedCloseDoesNotPanic(c *C) {
	c.Check(func() { Parse("[/b][/i][/url]") }, Not(PanicMatches), ".*")
}

// Regression: deeply unbalanced open tags must not blow the stack or
// hang; MaxDepth bounds the work regardless of input shape.
func (s *IssueTestSuite) TestRunawayNestingIsBounded(c *C) {
	input := strings.Repeat("[b]", 5000)
	html := Parse(input)
	c.Check(len(html) > 0, Equals, true)
}

// Regression: list items must close on sibling [*] without needing an
// explicit [/*] close tag anywhere in the input.
func (s *IssueTestSuite) TestListItemsDoNotRequireExplicitClose(c *C) {
	html := Parse("[list][*]one[*]two[*]three[/list]")
	c.Check(strings.Count(html, "<li>"), Equals, 3)
	c.Check(strings.Count(html, "</li>"), Equals, 3)
}

// Regression: verbatim tags must not let a close-tag alias belonging to
// a different verbatim tag close them early.
func (s *IssueTestSuite) TestVerbatimOnlyClosesOnItsOwnAliasSet(c *C) {
	html := Parse("[code]has [/php] inside it[/code]")
	c.Check(html, Equals, `<pre class="bbcode-code"><code>has [/php] inside it</code></pre>`)
}

// Regression: a rejected color/url/size must degrade to the tag's exact
// original source text, not a mangled or partially-escaped variant.
func (s *IssueTestSuite) TestDegradedTagPreservesOriginalSourceText(c *C) {
	html := Parse("[size=999]x[/size]")
	c.Check(html, Equals, "[size=999]x[/size]")
}

// Regression: custom tags registered on a cloned registry must remain
// visible after further registrations on the original (shared
// customTable pointer, not a deep copy at Clone time).
func (s *IssueTestSuite) TestCustomTagSharingSurvivesClone(c *C) {
	reg := NewRegistry()
	clone := reg.Clone()
	reg.RegisterCustom(&Definition{Name: "mytag", Kind: Inline, HasContent: true})
	_, ok := clone.Resolve("mytag")
	c.Check(ok, Equals, true)
}

// Regression: auto-linking a bare URL must not consume trailing prose
// punctuation into the link text.
func (s *IssueTestSuite) TestAutoLinkStopsBeforeSentencePunctuation(c *C) {
	html := Parse("See https://example.com, it helps.")
	c.Check(strings.Contains(html, `href="https://example.com"`), Equals, true)
	c.Check(strings.HasSuffix(html, "helps."), Equals, true)
}
