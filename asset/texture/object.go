package texture

import (
	"github.com/j-cube/hdospray/backend"
)

// Texture couples a committed renderer texture with the pixel data it
// shares with the renderer. Both are released together.
type Texture struct {
	Path   string
	Format backend.TextureFormat
	Ptex   bool

	obj   backend.Object
	data  backend.Object
	image *Image
}

// The renderer texture object.
func (t *Texture) Object() backend.Object {
	return t.obj
}

// The pixel data shared with the renderer (nil for ptex textures).
func (t *Texture) Image() *Image {
	return t.image
}

// Release the texture and its data.
func (t *Texture) Release() {
	if t.obj != nil {
		t.obj.Release()
		t.obj = nil
	}
	if t.data != nil {
		t.data.Release()
		t.data = nil
	}
	t.image = nil
}

// Options control how images are uploaded to the renderer.
type Options struct {
	PreferLinear bool
	Filter       backend.TextureFilter
}

// Create a committed 2D texture from an image that was already flipped to
// the renderer orientation. The image buffer is shared with the renderer.
func New2D(dev backend.Device, path string, img *Image, opts Options) (*Texture, error) {
	format, err := FormatFor(img.Depth, img.Channels, opts.PreferLinear)
	if err != nil {
		return nil, err
	}
	dataType, err := DataTypeFor(format)
	if err != nil {
		return nil, err
	}

	var buf interface{} = img.Pixels
	if img.Depth == 4 {
		buf = img.Floats()
	}
	data, err := dev.NewSharedData(buf, dataType, img.Width, img.Height)
	if err != nil {
		return nil, err
	}

	obj, err := backend.Build(dev.NewTexture("texture2d")).
		Set("format", format).
		Set("filter", opts.Filter).
		Set("data", data).
		Commit()
	if err != nil {
		data.Release()
		return nil, err
	}

	return &Texture{
		Path:   path,
		Format: format,
		obj:    obj,
		data:   data,
		image:  img,
	}, nil
}

// Load an image through loader and create a committed 2D texture from it.
func Load2D(dev backend.Device, loader Loader, path string, opts Options) (*Texture, error) {
	img, err := Read(loader, path)
	if err != nil {
		return nil, err
	}
	return New2D(dev, path, img, opts)
}

// Create a committed ptex texture referencing a file. Fails with
// ErrPtexUnsupported unless built with the ptex tag.
func NewPtex(dev backend.Device, path string) (*Texture, error) {
	if !PtexSupported {
		return nil, ErrPtexUnsupported
	}

	obj, err := backend.Build(dev.NewTexture("ptex")).
		Set("filename", path).
		Commit()
	if err != nil {
		return nil, err
	}
	return &Texture{
		Path: path,
		Ptex: true,
		obj:  obj,
	}, nil
}
