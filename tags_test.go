package bbcode

import "testing"

func TestRegistryResolvesAliases(t *testing.T) {
	reg := NewRegistry()
	d, ok := reg.Resolve("bold")
	if !ok || d.Name != "b" {
		t.Errorf("got %+v %v", d, ok)
	}
}

func TestRegistryResolveIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	d, ok := reg.Resolve("B")
	if !ok || d.Name != "b" {
		t.Errorf("got %+v %v", d, ok)
	}
}

func TestRegistryCustomShadowsStatic(t *testing.T) {
	reg := NewRegistry()
	custom := &Definition{Name: "b", Kind: Verbatim, HasContent: true}
	reg.RegisterCustom(custom)
	d, ok := reg.Resolve("b")
	if !ok || d != custom {
		t.Errorf("custom definition should shadow the static one")
	}
}

func TestDefinitionForbiddenAncestorsFold(t *testing.T) {
	d := &Definition{ForbiddenAncestors: []string{"URL"}}
	if !d.isAncestorForbidden("url") {
		t.Error("forbidden-ancestor check should case-fold")
	}
}

func TestDefinitionRequiredParentSatisfiedAnywhereOnStack(t *testing.T) {
	d := &Definition{RequiredParents: []string{"list"}}
	if !d.hasRequiredParent([]string{"quote", "list"}) {
		t.Error("required parent should match anywhere on the stack, not just top")
	}
	if d.hasRequiredParent([]string{"quote"}) {
		t.Error("should fail when required parent is absent")
	}
}

func TestDefinitionNoRequiredParentsAlwaysSatisfied(t *testing.T) {
	d := &Definition{}
	if !d.hasRequiredParent(nil) {
		t.Error("a tag with no RequiredParents should always be satisfied")
	}
}

func TestCloseAliasesIncludesNameAndAliases(t *testing.T) {
	d, _ := NewRegistry().Resolve("plain")
	aliases := d.closeAliases()
	for _, want := range []string{"plain", "noparse", "nobbc"} {
		found := false
		for _, a := range aliases {
			if a == want {
				found = true
			}
		}
		if !found {
			t.Errorf("closeAliases() missing %q: %v", want, aliases)
		}
	}
}
