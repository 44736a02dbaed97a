package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"unsafe"

	// Image decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ftrvxmtrx/tga"
	"github.com/j-cube/hdospray/asset"
)

// A decoded image. Pixels are stored as a single flat buffer of interleaved
// channels. Float images (Depth == 4) store native-endian float32 values.
type Image struct {
	Width    int
	Height   int
	Channels int

	// Bytes per channel: 1 for 8-bit images, 4 for float images.
	Depth int

	Pixels []byte
}

// Row stride in bytes.
func (img *Image) Stride() int {
	return img.Width * img.Channels * img.Depth
}

// Reinterpret the pixel buffer of a float image as a []float32 slice
// without copying.
func (img *Image) Floats() []float32 {
	if img.Depth != 4 || len(img.Pixels) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&img.Pixels[0])), len(img.Pixels)/4)
}

// Loader decodes image files into raw pixel buffers. Rows are returned in
// file order (top row first).
type Loader interface {
	Decode(path string) (*Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (*Image, error)

func (f LoaderFunc) Decode(path string) (*Image, error) {
	return f(path)
}

// FileLoader decodes local or http(s) images using the registered Go image
// decoders (png, jpeg, gif, bmp, tiff and webp). Files with a .tga extension
// are decoded with the tga decoder; tga has no magic header so it is not
// registered with the image package.
type FileLoader struct{}

// Decode an image file at its native channel count. 16-bit sources are
// promoted to float.
func (FileLoader) Decode(path string) (*Image, error) {
	res, err := asset.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: failed to load '%s': %w", path, err)
	}
	defer res.Close()

	var src image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		src, err = tga.Decode(res)
	} else {
		src, _, err = image.Decode(res)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode '%s': %w", path, err)
	}

	return FromImage(src)
}

// Convert a Go image into a flat pixel buffer.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	channels, depth := channelLayout(src)
	img := &Image{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels,
		Depth:    depth,
	}

	if depth == 1 {
		img.Pixels = make([]byte, img.Width*img.Height*channels)
		offset := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				switch channels {
				case 1:
					img.Pixels[offset] = color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y
				case 3:
					img.Pixels[offset], img.Pixels[offset+1], img.Pixels[offset+2] = c.R, c.G, c.B
				default:
					img.Pixels[offset], img.Pixels[offset+1], img.Pixels[offset+2], img.Pixels[offset+3] = c.R, c.G, c.B, c.A
				}
				offset += channels
			}
		}
		return img, nil
	}

	floats := make([]float32, img.Width*img.Height*channels)
	offset := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
			switch channels {
			case 1:
				floats[offset] = float32(color.Gray16Model.Convert(src.At(x, y)).(color.Gray16).Y) / 0xffff
			default:
				floats[offset] = float32(c.R) / 0xffff
				floats[offset+1] = float32(c.G) / 0xffff
				floats[offset+2] = float32(c.B) / 0xffff
				floats[offset+3] = float32(c.A) / 0xffff
			}
			offset += channels
		}
	}
	img.Pixels = unsafe.Slice((*byte)(unsafe.Pointer(&floats[0])), len(floats)*4)
	return img, nil
}

// Detect the native channel count and depth of a decoded image.
func channelLayout(src image.Image) (channels, depth int) {
	switch src.(type) {
	case *image.Gray, *image.Alpha:
		return 1, 1
	case *image.Gray16, *image.Alpha16:
		return 1, 4
	case *image.YCbCr, *image.CMYK:
		return 3, 1
	case *image.RGBA64, *image.NRGBA64:
		return 4, 4
	}
	return 4, 1
}

// Flip an image vertically in place by swapping row pairs. The renderer
// places the texture origin at the bottom-left corner.
func FlipVertical(img *Image) {
	stride := img.Stride()
	for y := 0; y < img.Height/2; y++ {
		top := img.Pixels[y*stride : (y+1)*stride]
		bottom := img.Pixels[(img.Height-1-y)*stride : (img.Height-y)*stride]
		for x := 0; x < stride; x++ {
			top[x], bottom[x] = bottom[x], top[x]
		}
	}
}

// Decode an image and flip it to the renderer's bottom-left origin.
func Read(loader Loader, path string) (*Image, error) {
	img, err := loader.Decode(path)
	if err != nil {
		return nil, err
	}
	if img == nil || len(img.Pixels) < img.Stride()*img.Height || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("texture: '%s': %w", path, ErrEmptyImage)
	}
	FlipVertical(img)
	return img, nil
}

// Convert the pixel buffer back into a Go image. Float channels are clamped
// to [0, 1]; single channel images are expanded to gray and two channel
// images to gray plus alpha.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	floats := img.Floats()
	channel := func(offset int) uint8 {
		if img.Depth == 1 {
			return img.Pixels[offset]
		}
		return uint8(math.Round(float64(min(max(floats[offset], 0), 1)) * 255))
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			offset := (y*img.Width + x) * img.Channels
			var c color.NRGBA
			switch img.Channels {
			case 1:
				v := channel(offset)
				c = color.NRGBA{R: v, G: v, B: v, A: 255}
			case 2:
				v := channel(offset)
				c = color.NRGBA{R: v, G: v, B: v, A: channel(offset + 1)}
			case 3:
				c = color.NRGBA{R: channel(offset), G: channel(offset + 1), B: channel(offset + 2), A: 255}
			default:
				c = color.NRGBA{R: channel(offset), G: channel(offset + 1), B: channel(offset + 2), A: channel(offset + 3)}
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
