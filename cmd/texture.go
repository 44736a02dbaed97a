package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/j-cube/hdospray/asset/texture"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/image/draw"
)

// Decode textures and display their negotiated renderer formats.
func TextureInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing texture file arguments")
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"File", "Size", "Channels", "Depth", "Format"})
	for idx := 0; idx < ctx.NArg(); idx++ {
		textureFile := ctx.Args().Get(idx)
		img, err := texture.Read(texture.FileLoader{}, textureFile)
		if err != nil {
			logger.Warningf("skipping %s: %v", textureFile, err)
			continue
		}

		format := "unsupported"
		if f, err := texture.FormatFor(img.Depth, img.Channels, ctx.Bool("linear")); err == nil {
			format = f.String()
		}
		table.Append([]string{
			textureFile,
			fmt.Sprintf("%dx%d", img.Width, img.Height),
			fmt.Sprintf("%d", img.Channels),
			fmt.Sprintf("%d", img.Depth*8),
			format,
		})
	}

	table.Render()
	logger.Noticef("texture information\n%s", buf.String())
	return nil
}

// Write a downscaled webp preview of a texture as uploaded to the renderer.
func TexturePreview(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing texture file argument")
	}

	img, err := texture.Read(texture.FileLoader{}, ctx.Args().First())
	if err != nil {
		return err
	}

	preview := resizeToFit(img.ToNRGBA(), ctx.Int("size"))

	outFile := ctx.String("out")
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = nativewebp.Encode(f, preview, nil); err != nil {
		return err
	}

	logger.Noticef("wrote %dx%d preview to %s", preview.Bounds().Dx(), preview.Bounds().Dy(), outFile)
	return nil
}

// Scale src so that its largest dimension equals size, keeping its aspect ratio.
func resizeToFit(src image.Image, size int) image.Image {
	b := src.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return src
	}

	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(b.Dy()*size/b.Dx(), 1)
	} else {
		w = max(b.Dx()*size/b.Dy(), 1)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
