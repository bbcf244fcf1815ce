package assets

import (
	"strings"
	"testing"

	"github.com/milk9111/portal/portal"
)

func TestPortalShaderDeclaresAnimatedUniforms(t *testing.T) {
	src, err := LoadFile("assets/" + PortalShaderPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	text := string(src)
	for _, name := range []string{portal.UniformCircleClip, portal.UniformCircleWidth, portal.UniformFeather} {
		if !strings.Contains(text, "var "+name+" float") {
			t.Fatalf("shader does not declare uniform %s", name)
		}
	}
	if !strings.Contains(text, "//kage:unit pixels") {
		t.Fatalf("expected pixel unit directive")
	}
}
