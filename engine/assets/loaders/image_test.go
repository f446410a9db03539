package loaders_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/image/bmp"

	"github.com/spaghettifunk/bilhar/engine/assets/loaders"
	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// stripes is a 1x2 image: red on top, blue below.
func stripes(alpha uint8) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	img.SetNRGBA(0, 1, color.NRGBA{B: 0xFF, A: alpha})
	return img
}

func TestDecodeImageFlip(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, stripes(0xFF)), qt.IsNil)

	data, err := loaders.DecodeImage(bytes.NewReader(buf.Bytes()), false)
	c.Assert(err, qt.IsNil)
	c.Assert(data.Width, qt.Equals, uint32(1))
	c.Assert(data.Height, qt.Equals, uint32(2))
	c.Assert(data.ChannelCount, qt.Equals, uint8(4))
	c.Assert(data.Pixels, qt.DeepEquals, []uint8{0xFF, 0, 0, 0xFF, 0, 0, 0xFF, 0xFF})
	c.Assert(data.HasTransparency, qt.IsFalse)

	flipped, err := loaders.DecodeImage(bytes.NewReader(buf.Bytes()), true)
	c.Assert(err, qt.IsNil)
	c.Assert(flipped.Pixels, qt.DeepEquals, []uint8{0, 0, 0xFF, 0xFF, 0xFF, 0, 0, 0xFF})
}

func TestDecodeImageTransparencyAndFormats(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, stripes(0x80)), qt.IsNil)
	data, err := loaders.DecodeImage(&buf, true)
	c.Assert(err, qt.IsNil)
	c.Assert(data.HasTransparency, qt.IsTrue)

	buf.Reset()
	c.Assert(bmp.Encode(&buf, stripes(0xFF)), qt.IsNil)
	data, err = loaders.DecodeImage(&buf, false)
	c.Assert(err, qt.IsNil)
	c.Assert(data.Pixels[:4], qt.DeepEquals, []uint8{0xFF, 0, 0, 0xFF})

	_, err = loaders.DecodeImage(bytes.NewReader([]byte("not an image")), false)
	c.Assert(err, qt.ErrorIs, image.ErrFormat)
}

func TestImageLoader(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, stripes(0xFF)), qt.IsNil)
	p := writeFile(c, t.TempDir(), "t.png", buf.String())

	il := &loaders.ImageLoader{}
	res, err := il.Load(p, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	c.Assert(err, qt.IsNil)
	c.Assert(res.DataSize, qt.Equals, uint64(8))
	c.Assert(res.Data.(*metadata.ImageResourceData).Pixels[2], qt.Equals, uint8(0xFF))

	_, err = il.Load(filepath.Join(t.TempDir(), "none.png"), metadata.ResourceTypeImage, nil)
	c.Assert(err, qt.ErrorIs, core.ErrFileOpen)
}

func TestShaderLoader(t *testing.T) {
	c := qt.New(t)

	p := writeFile(c, t.TempDir(), "s.vert", "#version 410 core\n")
	res, err := (&loaders.ShaderLoader{}).Load(p, metadata.ResourceTypeShader, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Data, qt.Equals, "#version 410 core\n")
}
