package bbcode

import "testing"

func TestDefaultParserConfig(t *testing.T) {
	cfg := DefaultParserConfig()
	if cfg.MaxDepth != defaultMaxDepth || !cfg.AutoLink || !cfg.ConvertLinebreaks || !cfg.AllowUnknownTags {
		t.Errorf("got %+v", cfg)
	}
}

func TestDefaultRenderConfig(t *testing.T) {
	cfg := DefaultRenderConfig()
	if cfg.ClassPrefix != "bbcode" || !cfg.NofollowLinks || cfg.OpenLinksInNewTab || !cfg.Sanitize {
		t.Errorf("got %+v", cfg)
	}
	if len(cfg.AllowedSchemes) != 3 {
		t.Errorf("schemes = %v", cfg.AllowedSchemes)
	}
}

func TestDefaultRenderConfigSchemesAreIndependentCopies(t *testing.T) {
	a := DefaultRenderConfig()
	b := DefaultRenderConfig()
	a.AllowedSchemes[0] = "mutated"
	if b.AllowedSchemes[0] == "mutated" {
		t.Error("AllowedSchemes slices must not alias the package default")
	}
}
