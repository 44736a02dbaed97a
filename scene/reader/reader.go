package reader

import (
	"fmt"
	"strings"

	"github.com/j-cube/hdospray/asset"
	"github.com/j-cube/hdospray/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Stage, error)
}

// Read scene from file.
func ReadScene(filename string) (*scene.Stage, error) {
	// Select reader based on file extension
	var reader Reader
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		reader = newYamlSceneReader()
	} else {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	res, err := asset.Open(filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
