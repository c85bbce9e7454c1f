package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or http/https URL. The reader is picked by
// file extension before anything is opened.
func ReadScene(filename string) (*scene.Scene, error) {
	var reader Reader
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		reader = newOBJReader()
	default:
		return nil, fmt.Errorf("reader: no scene reader for %q files", ext)
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
