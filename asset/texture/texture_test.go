package texture

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/j-cube/hdospray/backend"
)

func TestFormatNegotiation(t *testing.T) {
	type spec struct {
		depth    int
		channels int
		linear   bool
		exp      backend.TextureFormat
	}
	specs := []spec{
		{1, 1, false, backend.TextureL8},
		{1, 1, true, backend.TextureR8},
		{1, 2, false, backend.TextureLA8},
		{1, 2, true, backend.TextureRA8},
		{1, 3, false, backend.TextureSRGB},
		{1, 3, true, backend.TextureRGB8},
		{1, 4, false, backend.TextureSRGBA},
		{1, 4, true, backend.TextureRGBA8},
		{4, 1, false, backend.TextureR32F},
		{4, 3, true, backend.TextureRGB32F},
		{4, 4, false, backend.TextureRGBA32F},
	}

	for index, s := range specs {
		got, err := FormatFor(s.depth, s.channels, s.linear)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected format %s; got %s", index, s.exp, got)
		}
		if _, err = DataTypeFor(got); err != nil {
			t.Fatalf("[spec %d] expected a data type for %s; got %v", index, got, err)
		}
	}
}

func TestUnsupportedFormats(t *testing.T) {
	type spec struct {
		depth    int
		channels int
	}
	specs := []spec{
		{4, 2},
		{2, 3},
		{1, 5},
		{1, 0},
	}

	for index, s := range specs {
		_, err := FormatFor(s.depth, s.channels, false)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("[spec %d] expected ErrUnsupportedFormat; got %v", index, err)
		}
	}
}

func TestChannelLayouts(t *testing.T) {
	type spec struct {
		img      image.Image
		channels int
		depth    int
	}
	rect := image.Rect(0, 0, 2, 2)
	specs := []spec{
		{image.NewGray(rect), 1, 1},
		{image.NewGray16(rect), 1, 4},
		{image.NewRGBA(rect), 4, 1},
		{image.NewNRGBA(rect), 4, 1},
		{image.NewRGBA64(rect), 4, 4},
		{image.NewYCbCr(rect, image.YCbCrSubsampleRatio444), 3, 1},
	}

	for index, s := range specs {
		img, err := FromImage(s.img)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if img.Channels != s.channels || img.Depth != s.depth {
			t.Fatalf("[spec %d] expected %d channels at depth %d; got %d at %d", index, s.channels, s.depth, img.Channels, img.Depth)
		}
		if exp := 4 * s.channels * s.depth; len(img.Pixels) != exp {
			t.Fatalf("[spec %d] expected %d bytes; got %d", index, exp, len(img.Pixels))
		}
	}
}

func TestFloatConversion(t *testing.T) {
	src := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	src.SetRGBA64(0, 0, color.RGBA64{R: 0xffff, G: 0, B: 0xffff, A: 0xffff})

	img, err := FromImage(src)
	if err != nil {
		t.Fatal(err)
	}
	floats := img.Floats()
	exp := []float32{1, 0, 1, 1}
	for i := range exp {
		if floats[i] != exp[i] {
			t.Fatalf("expected %v; got %v", exp, floats)
		}
	}
}

func TestFlipVertical(t *testing.T) {
	type spec struct {
		height int
		rows   []byte
		exp    []byte
	}
	specs := []spec{
		{1, []byte{1, 2}, []byte{1, 2}},
		{2, []byte{1, 2, 3, 4}, []byte{3, 4, 1, 2}},
		{3, []byte{1, 2, 3, 4, 5, 6}, []byte{5, 6, 3, 4, 1, 2}},
	}

	for index, s := range specs {
		img := &Image{Width: 2, Height: s.height, Channels: 1, Depth: 1, Pixels: s.rows}
		FlipVertical(img)
		for i := range s.exp {
			if img.Pixels[i] != s.exp[i] {
				t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, img.Pixels)
			}
		}
	}
}

func TestLoad2D(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 128})
	pathToImage := writePNG(t, src)

	rec := backend.NewRecorder()
	tex, err := Load2D(rec, FileLoader{}, pathToImage, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if tex.Format != backend.TextureSRGBA {
		t.Fatalf("expected format %s; got %s", backend.TextureSRGBA, tex.Format)
	}

	// Bottom row comes first after the flip
	if px := tex.Image().Pixels; px[2] != 255 || px[3] != 128 || px[4] != 255 {
		t.Fatalf("expected image to be flipped; got %v", px)
	}

	obj := tex.Object().(*backend.RecordedObject)
	if obj.Subtype() != "texture2d" || !obj.Committed() {
		t.Fatalf("expected a committed texture2d object")
	}
	data, _ := obj.Param("data")
	if dt := data.(*backend.RecordedObject).DataType(); dt != backend.DataVec4UC {
		t.Fatalf("expected data type %s; got %s", backend.DataVec4UC, dt)
	}

	tex.Release()
	if live := rec.LiveCounts(); live[backend.KindTexture] != 0 || live[backend.KindData] != 0 {
		t.Fatalf("expected release to drop texture and data; live: %v", live)
	}
}

func TestDecodeIsRepeatable(t *testing.T) {
	type spec struct {
		img image.Image
		jpg bool
	}
	rect := image.Rect(0, 0, 3, 2)
	specs := []spec{
		{image.NewGray(rect), false},
		{image.NewRGBA64(rect), false},
		{image.NewNRGBA(rect), false},
		{image.NewRGBA(rect), true},
	}

	for index, s := range specs {
		var pathToImage string
		if s.jpg {
			pathToImage = writeJPEG(t, s.img)
		} else {
			pathToImage = writePNG(t, s.img)
		}

		var formats [2]backend.TextureFormat
		for pass := 0; pass < 2; pass++ {
			img, err := Read(FileLoader{}, pathToImage)
			if err != nil {
				t.Fatalf("[spec %d] unexpected error: %v", index, err)
			}
			formats[pass], err = FormatFor(img.Depth, img.Channels, false)
			if err != nil {
				t.Fatalf("[spec %d] unexpected error: %v", index, err)
			}
		}
		if formats[0] != formats[1] {
			t.Fatalf("[spec %d] format changed between decodes: %s vs %s", index, formats[0], formats[1])
		}
	}
}

func TestStreamHttpTexture(t *testing.T) {
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/texture.png" {
			png.Encode(w, image.NewRGBA64(image.Rect(0, 0, 1, 1)))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	img, err := Read(FileLoader{}, server.URL+"/texture.png")
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 1 || img.Height != 1 || img.Depth != 4 {
		t.Fatalf("expected a 1x1 float image; got %dx%d depth %d", img.Width, img.Height, img.Depth)
	}

	if _, err = Read(FileLoader{}, server.URL+"/missing.png"); err == nil {
		t.Fatal("expected an error for a missing remote texture")
	}
}

func TestDecodeFailures(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	specs := []string{
		filepath.Join(t.TempDir(), "missing.png"),
		garbage,
	}
	for index, pathToImage := range specs {
		if _, err := Read(FileLoader{}, pathToImage); err == nil {
			t.Fatalf("[spec %d] expected decode of %q to fail", index, pathToImage)
		}
	}
}

func TestPtexWithoutSupport(t *testing.T) {
	if PtexSupported {
		t.Skip("built with ptex support")
	}

	rec := backend.NewRecorder()
	if _, err := NewPtex(rec, "/textures/model.ptx"); !errors.Is(err, ErrPtexUnsupported) {
		t.Fatalf("expected ErrPtexUnsupported; got %v", err)
	}
	if len(rec.Objects(backend.KindTexture)) != 0 {
		t.Fatal("expected no texture objects to be created")
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	pathToImage := filepath.Join(t.TempDir(), "texture.png")
	f, err := os.Create(pathToImage)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err = png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return pathToImage
}

func writeJPEG(t *testing.T, img image.Image) string {
	t.Helper()
	pathToImage := filepath.Join(t.TempDir(), "texture.jpg")
	f, err := os.Create(pathToImage)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err = jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return pathToImage
}

func TestToNRGBA(t *testing.T) {
	type spec struct {
		img *Image
		exp color.NRGBA
	}
	floats := []float32{0.5, 2, -1, 1}
	specs := []spec{
		{&Image{Width: 1, Height: 1, Channels: 1, Depth: 1, Pixels: []byte{10}}, color.NRGBA{10, 10, 10, 255}},
		{&Image{Width: 1, Height: 1, Channels: 2, Depth: 1, Pixels: []byte{10, 20}}, color.NRGBA{10, 10, 10, 20}},
		{&Image{Width: 1, Height: 1, Channels: 3, Depth: 1, Pixels: []byte{1, 2, 3}}, color.NRGBA{1, 2, 3, 255}},
		{&Image{Width: 1, Height: 1, Channels: 4, Depth: 4, Pixels: unsafe.Slice((*byte)(unsafe.Pointer(&floats[0])), 16)}, color.NRGBA{128, 255, 0, 255}},
	}

	for index, s := range specs {
		if got := s.img.ToNRGBA().NRGBAAt(0, 0); got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}

func TestFileLoaderFormats(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	// Uncompressed 24-bit true color tga, top-left origin, BGR pixels
	tgaFile := filepath.Join(t.TempDir(), "texture.tga")
	tgaData := []byte{
		0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		2, 0, 1, 0, 24, 0x20,
		0, 0, 255,
		255, 0, 0,
	}
	if err := os.WriteFile(tgaFile, tgaData, 0644); err != nil {
		t.Fatal(err)
	}

	specs := []string{
		writePNG(t, src),
		tgaFile,
	}
	for index, pathToImage := range specs {
		img, err := FileLoader{}.Decode(pathToImage)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error decoding %q: %v", index, pathToImage, err)
		}
		if img.Width != 2 || img.Height != 1 || img.Depth != 1 {
			t.Fatalf("[spec %d] expected a 2x1 8-bit image; got %dx%d depth %d", index, img.Width, img.Height, img.Depth)
		}
		if img.Pixels[0] != 255 || img.Pixels[2] != 0 || img.Pixels[img.Channels+2] != 255 {
			t.Fatalf("[spec %d] expected a red then a blue pixel; got %v", index, img.Pixels)
		}
	}
}
