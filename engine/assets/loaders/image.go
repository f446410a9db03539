package loaders

import (
	"fmt"
	"image"
	"io"
	"os"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	flip := false
	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil {
		flip = p.FlipY
	}
	data, err := LoadImage(path, flip)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(*metadata.Resource) error {
	return nil
}

func LoadImage(path string, flipY bool) (*metadata.ImageResourceData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFileOpen, path, err)
	}
	defer f.Close()

	data, err := DecodeImage(f, flipY)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return data, nil
}

// DecodeImage decodes any registered format into tightly packed 8-bit RGBA
// rows. With flipY the first row of the result is the bottom of the image,
// which is what OpenGL expects for texture coordinates.
func DecodeImage(r io.Reader, flipY bool) (*metadata.ImageResourceData, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	width, height := b.Dx(), b.Dy()
	rowSize := width * 4
	pixels := make([]uint8, rowSize*height)
	transparent := false
	for y := 0; y < height; y++ {
		srcRow := dst.Pix[y*dst.Stride : y*dst.Stride+rowSize]
		dy := y
		if flipY {
			dy = height - 1 - y
		}
		copy(pixels[dy*rowSize:(dy+1)*rowSize], srcRow)
		for x := 3; x < rowSize && !transparent; x += 4 {
			if srcRow[x] != 0xFF {
				transparent = true
			}
		}
	}

	return &metadata.ImageResourceData{
		ChannelCount:    4,
		Width:           uint32(width),
		Height:          uint32(height),
		Pixels:          pixels,
		HasTransparency: transparent,
	}, nil
}
