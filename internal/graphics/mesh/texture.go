package mesh

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"forge3d/internal/graphics/gpu"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeRGBA decodes a png, jpeg, bmp or webp image into tightly packed RGBA
func DecodeRGBA(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba, nil
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// LoadTexture reads an image file into a new texture
func LoadTexture(dev gpu.Device, path string) (gpu.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	rgba, err := DecodeRGBA(file)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	size := rgba.Rect.Size()
	t := dev.NewTexture(size.X, size.Y)
	t.SetData(rgba.Pix)
	return t, nil
}

// NewSolidTexture creates a 1x1 texture of a single colour
func NewSolidTexture(dev gpu.Device, c color.RGBA) gpu.Texture {
	t := dev.NewTexture(1, 1)
	t.SetData([]byte{c.R, c.G, c.B, c.A})
	return t
}
