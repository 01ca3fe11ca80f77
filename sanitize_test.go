package bbcode

import "testing"

func TestEscapeHTML(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"hello":          "hello",
		"<b>":            "&lt;b&gt;",
		`a&b`:             "a&amp;b",
		`"quoted"`:       "&quot;quoted&quot;",
		"it's":           "it&#x27;s",
		"<script>x</script>": "&lt;script&gt;x&lt;/script&gt;",
	}
	for in, want := range cases {
		if got := escapeHTML(in); got != want {
			t.Errorf("escapeHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeHTMLZeroCopyFastPath(t *testing.T) {
	s := "nothing special here"
	if escapeHTML(s) != s {
		t.Fatal("expected identical string back")
	}
}

func TestValidateURLSchemes(t *testing.T) {
	allowed := []string{"http", "https", "mailto"}
	cases := map[string]bool{
		"https://example.com":        true,
		"http://example.com":         true,
		"mailto:a@b.com":             true,
		"javascript:alert(1)":        false,
		"JAVASCRIPT:alert(1)":        false,
		"data:text/html,<script>":    false,
		"vbscript:msgbox(1)":         false,
		"ftp://example.com":          false,
		"":                           false,
		`https://example.com/"x`:     false,
		"https://example.com/<x>":    false,
	}
	for in, want := range cases {
		if got := validateURL(in, allowed); got != want {
			t.Errorf("validateURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateURLControlCharEvasion(t *testing.T) {
	allowed := []string{"http", "https"}
	if validateURL("j\x01avascript:alert(1)", allowed) {
		t.Error("control-char-interleaved javascript: scheme should be rejected")
	}
}

func TestValidateURLEventHandlerSubstring(t *testing.T) {
	allowed := []string{"http", "https"}
	if validateURL(`https://example.com/ onmouseover=alert(1)`, allowed) {
		t.Error("event handler substring should be rejected")
	}
}

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":          true,
		"not-an-email":     false,
		`a@b.com"onclick=`: false,
		"a<b>@c.com":       false,
	}
	for in, want := range cases {
		if got := validateEmail(in); got != want {
			t.Errorf("validateEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateColor(t *testing.T) {
	cases := map[string]bool{
		"#fff":          true,
		"#ffffff":       true,
		"#xyz":          false,
		"red":           true,
		"RED":           true,
		"transparent":   false,
		"rgb(1,2,3)":    true,
		"ButtonFace":    false,
		"not-a-color":   false,
	}
	for in, want := range cases {
		if got := validateColor(in); got != want {
			t.Errorf("validateColor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateFont(t *testing.T) {
	cases := map[string]bool{
		"Arial":            true,
		"Comic Sans MS":    true,
		"Courier-New":      true,
		"":                 false,
		"Arial; color:red": false,
	}
	for in, want := range cases {
		if got := validateFont(in); got != want {
			t.Errorf("validateFont(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateSize(t *testing.T) {
	cases := []struct {
		in      string
		wantCSS string
		wantOK  bool
	}{
		{"1", "9px", true},
		{"7", "26px", true},
		{"50", "50%", true},
		{"150", "36px", true},
		{"0", "", false},
		{"201", "", false},
		{"20px", "20px", true},
		{"5px", "", false},
		{"100%", "100%", true},
		{"300%", "", false},
		{"abc", "", false},
	}
	for _, c := range cases {
		css, ok := validateSize(c.in)
		if ok != c.wantOK || css != c.wantCSS {
			t.Errorf("validateSize(%q) = (%q, %v), want (%q, %v)", c.in, css, ok, c.wantCSS, c.wantOK)
		}
	}
}

func TestParseImageDimensions(t *testing.T) {
	w, h, ok := parseImageDimensions("100x200")
	if !ok || w != 100 || h != 200 {
		t.Errorf("got %d %d %v", w, h, ok)
	}
	w, h, ok = parseImageDimensions("50")
	if !ok || w != 50 || h != 50 {
		t.Errorf("got %d %d %v", w, h, ok)
	}
	w, _, ok = parseImageDimensions("99999x1")
	if !ok || w != maxImageDimension {
		t.Errorf("expected clamp to %d, got %d", maxImageDimension, w)
	}
	if _, _, ok := parseImageDimensions("notanumber"); ok {
		t.Error("expected failure")
	}
}

func FuzzValidateURLNeverPanics(f *testing.F) {
	f.Add("https://example.com")
	f.Add("javascript:alert(1)")
	f.Add("")
	f.Add("\x00\x01javascript:x")
	f.Fuzz(func(t *testing.T, s string) {
		validateURL(s, []string{"http", "https", "mailto"})
	})
}
