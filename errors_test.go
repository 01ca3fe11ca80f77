package bbcode

import "testing"

func TestErrorStringWithIdentAndPos(t *testing.T) {
	err := &Error{Kind: InvalidURL, Ident: "javascript:alert(1)", Pos: 12}
	want := `bbcode: InvalidURL: "javascript:alert(1)" at byte 12`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorStringWithoutIdent(t *testing.T) {
	err := &Error{Kind: NestingTooDeep, Pos: -1}
	if err.Error() != "bbcode: NestingTooDeep" {
		t.Errorf("got %q", err.Error())
	}
}

func TestErrorKindString(t *testing.T) {
	if UnmatchedClosingTag.String() != "UnmatchedClosingTag" {
		t.Errorf("got %q", UnmatchedClosingTag.String())
	}
	if ErrorKind(999).String() != "Generic" {
		t.Errorf("unknown kind should stringify to Generic")
	}
}
