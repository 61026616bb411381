package sound

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed assets/*.wav
var embedded embed.FS

// AssetProvider returns the raw, still encoded bytes of a named sound.
type AssetProvider interface {
	Asset(name string) ([]byte, error)
}

// AssetProviderFunc adapts a function to the AssetProvider interface.
type AssetProviderFunc func(name string) ([]byte, error)

func (f AssetProviderFunc) Asset(name string) ([]byte, error) {
	return f(name)
}

// EmbeddedAssets serves the click sounds compiled into the binary.
func EmbeddedAssets() AssetProvider {
	return AssetProviderFunc(func(name string) ([]byte, error) {
		return embedded.ReadFile("assets/" + name + ".wav")
	})
}

// DirAssets serves <dir>/<name>.wav from disk.
func DirAssets(dir string) AssetProvider {
	return AssetProviderFunc(func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name+".wav"))
	})
}

// MapAssets serves sounds that are already held in memory.
type MapAssets map[string][]byte

func (m MapAssets) Asset(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("no asset named %q", name)
	}
	return data, nil
}
