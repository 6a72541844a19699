// Package fonts provides the typefaces used by the render and export
// pipelines.
//
// The Go fonts (golang.org/x/image/font/gofont) are compiled into the
// binary, so rendering works without any system font installation. When a
// system font is requested by name it is resolved with go-findfont and
// falls back to the embedded family if the lookup fails.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Family is the display name of the embedded default family. It is the
// family name written into document and package exports so that viewers
// resolve a metric-compatible substitute when the file travels.
const Family = "Go"

// Collection is a parsed font family plus a cache of sized faces.
// Face lookups are safe for concurrent use.
type Collection struct {
	regular *truetype.Font
	bold    *truetype.Font

	regularTTF []byte
	boldTTF    []byte

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// Load parses the embedded Go fonts into a ready Collection.
func Load() (*Collection, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &Collection{
		regular:    regular,
		bold:       bold,
		regularTTF: goregular.TTF,
		boldTTF:    gobold.TTF,
		faces:      make(map[faceKey]font.Face),
	}, nil
}

// LoadSystem resolves a system font by name and builds a Collection from
// it, using the same file for both weights. If the font cannot be found or
// parsed, the embedded collection is returned instead.
func LoadSystem(name string) (*Collection, error) {
	path, err := findfont.Find(name)
	if err != nil {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Load()
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return Load()
	}
	return &Collection{
		regular:    parsed,
		bold:       parsed,
		regularTTF: data,
		boldTTF:    data,
		faces:      make(map[faceKey]font.Face),
	}, nil
}

// Face returns a rendering face for the given pixel size.
// Faces are cached per size.
func (c *Collection) Face(size float64) font.Face {
	return c.face(size, false)
}

// BoldFace returns a bold rendering face for the given pixel size.
func (c *Collection) BoldFace(size float64) font.Face {
	return c.face(size, true)
}

func (c *Collection) face(size float64, bold bool) font.Face {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceKey{size: size, bold: bold}
	if f, ok := c.faces[key]; ok {
		return f
	}

	src := c.regular
	if bold {
		src = c.bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: size})
	c.faces[key] = f
	return f
}

// RegularTTF returns the raw TTF bytes of the regular weight for embedding
// into document and package exports.
func (c *Collection) RegularTTF() []byte {
	return c.regularTTF
}

// BoldTTF returns the raw TTF bytes of the bold weight.
func (c *Collection) BoldTTF() []byte {
	return c.boldTTF
}
