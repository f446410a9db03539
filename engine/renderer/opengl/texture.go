package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// TextureCreate uploads tightly packed 8-bit pixels with ChannelCount 3 or 4.
func (r *OpenGLRenderer) TextureCreate(pixels []uint8, texture *metadata.Texture) error {
	format := int32(gl.RGBA)
	switch texture.ChannelCount {
	case 4:
	case 3:
		format = gl.RGB
	default:
		return fmt.Errorf("texture %s: unsupported channel count %d", texture.Name, texture.ChannelCount)
	}
	if want := int(texture.Width) * int(texture.Height) * int(texture.ChannelCount); len(pixels) != want || want == 0 {
		return fmt.Errorf("texture %s: got %d bytes, want %d", texture.Name, len(pixels), want)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, format, int32(texture.Width), int32(texture.Height), 0, uint32(format), gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	texture.ID = id
	texture.Generation++
	return nil
}

func (r *OpenGLRenderer) TextureDestroy(texture *metadata.Texture) {
	if texture == nil || texture.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &texture.ID)
	texture.ID = 0
}

func (r *OpenGLRenderer) TextureBind(handle uint32, unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, handle)
}
