package bbcode

import (
	"strconv"
	"strings"
)

// escapeHTML replaces the five HTML-significant characters. It returns the
// input unchanged, with no allocation, when nothing needs replacing — the
// zero-copy fast path required by §7's "escape fixed-point" property.
func escapeHTML(s string) string {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '>', '&', '"', '\'':
			needsEscape = true
		}
	}
	if !needsEscape {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#x27;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// eventHandlerAttrs lists the inline event-handler attribute names that
// must never reach an emitted href/src — an attacker who gets one of
// these past the URL/email validator gets script execution on click,
// load, or focus without ever touching a <script> tag.
var eventHandlerAttrs = []string{
	"onclick=", "onerror=", "onload=", "onmouseover=", "onfocus=", "onblur=",
	"onmousedown=", "onmouseup=", "onmouseenter=", "onmouseleave=",
	"onkeydown=", "onkeyup=", "onkeypress=", "onchange=", "oninput=", "onsubmit=",
}

var dangerousSchemes = []string{"javascript:", "data:", "vbscript:"}

// stripControl removes ASCII control characters (0x00-0x1F, 0x7F) so that
// scheme-prefix and event-handler checks can't be defeated by interleaving
// them into "jav\x00ascript:" (§9).
func stripControl(s string) string {
	var b strings.Builder
	hasControl := false
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x1F || s[i] == 0x7F {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return s
	}
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x1F || c == 0x7F {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// validateURL implements the §4.4 URL validator. allowedSchemes is
// compared case-insensitively against the text before the first ':'.
func validateURL(url string, allowedSchemes []string) bool {
	if url == "" {
		return false
	}
	if strings.ContainsAny(url, `"'<>`) {
		return false
	}

	normalized := strings.ToLower(stripControl(url))

	for _, scheme := range dangerousSchemes {
		if strings.HasPrefix(normalized, scheme) {
			return false
		}
	}

	noWhitespace := stripWhitespace(normalized)
	for _, attr := range eventHandlerAttrs {
		if strings.Contains(noWhitespace, attr) {
			return false
		}
	}

	if colon := strings.IndexByte(normalized, ':'); colon >= 0 {
		scheme := normalized[:colon]
		if !hasFold(allowedSchemes, scheme) {
			return false
		}
	}

	return true
}

func stripWhitespace(s string) string {
	var b strings.Builder
	hasSpace := strings.ContainsAny(s, " \t\n\r\f\v")
	if !hasSpace {
		return s
	}
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// validateEmail implements the §4.4 email validator.
func validateEmail(email string) bool {
	if !strings.Contains(email, "@") {
		return false
	}
	if strings.ContainsAny(email, `<>"'`) {
		return false
	}
	lower := strings.ToLower(email)
	for _, attr := range eventHandlerAttrs {
		if strings.Contains(lower, attr) {
			return false
		}
	}
	return true
}

// validateColor implements the §4.4 color validator.
func validateColor(color string) bool {
	if isHexColor(color) {
		return true
	}
	if isRGBColor(color) {
		return true
	}
	return namedColors[strings.ToLower(color)]
}

func isHexColor(s string) bool {
	if len(s) == 0 || s[0] != '#' {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		isHexDigit := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHexDigit {
			return false
		}
	}
	return true
}

func isRGBColor(s string) bool {
	if len(s) < 3 || !strings.HasPrefix(strings.ToLower(s), "rgb") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '(' || c == ')' || c == ',' || c == ' ' || c == '.':
		default:
			return false
		}
	}
	return true
}

// validateFont implements the §4.4 font validator.
func validateFont(font string) bool {
	if font == "" {
		return false
	}
	for i := 0; i < len(font); i++ {
		c := font[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == ' ' || c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// sizePixelTable maps the legacy numeric size scale 1-7 to pixel sizes.
var sizePixelTable = [...]int{0, 9, 10, 12, 15, 18, 22, 26}

// validateSize implements the §4.4 size validator, returning the CSS
// value to write into "font-size: <value>;" and whether size was valid.
func validateSize(size string) (string, bool) {
	if n, ok := parseUint(size); ok {
		switch {
		case n >= 1 && n <= 7:
			return strconv.Itoa(sizePixelTable[n]) + "px", true
		case n >= 8 && n <= 100:
			return strconv.Itoa(n) + "%", true
		case n >= 101 && n <= 200:
			return "36px", true
		default:
			return "", false
		}
	}

	if strings.HasSuffix(size, "px") {
		n, ok := parseUint(strings.TrimSuffix(size, "px"))
		if ok && n >= 8 && n <= 36 {
			return strconv.Itoa(n) + "px", true
		}
		return "", false
	}

	if strings.HasSuffix(size, "%") {
		n, ok := parseUint(strings.TrimSuffix(size, "%"))
		if ok && n >= 50 && n <= 200 {
			return strconv.Itoa(n) + "%", true
		}
		return "", false
	}

	return "", false
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// maxImageDimension is the clamp applied to explicit [img] width/height
// values, regardless of source (WxH scalar or width=/height= map keys).
const maxImageDimension = 2000

// parseImageDimensions handles the "WxH" or bare "N" scalar form of an
// [img] option (§9 open question a: only this shape derives intrinsic
// width/height; other scalar text is simply not a size and is ignored).
func parseImageDimensions(scalar string) (width, height int, ok bool) {
	if scalar == "" {
		return 0, 0, false
	}
	if x := strings.IndexByte(scalar, 'x'); x > 0 {
		w, wok := parseUint(scalar[:x])
		h, hok := parseUint(scalar[x+1:])
		if wok && hok {
			return clampDimension(w), clampDimension(h), true
		}
		return 0, 0, false
	}
	if n, ok := parseUint(scalar); ok {
		return clampDimension(n), clampDimension(n), true
	}
	return 0, 0, false
}

func clampDimension(n int) int {
	if n > maxImageDimension {
		return maxImageDimension
	}
	return n
}
