package assets

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/*.kage
var assetsFS embed.FS

const PortalShaderPath = "shaders/portal.kage"

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// LoadShader compiles an embedded Kage shader.
func LoadShader(path string) (*ebiten.Shader, error) {
	src, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return compileShader(path, src)
}

// LoadShaderFile compiles a Kage shader from disk, for live editing.
func LoadShaderFile(path string) (*ebiten.Shader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compileShader(path, src)
}

func compileShader(path string, src []byte) (*ebiten.Shader, error) {
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("assets: compile %s: %w", path, err)
	}
	return sh, nil
}

func cleanAssetPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
