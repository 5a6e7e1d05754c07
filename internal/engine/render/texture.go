package render

import (
	"image"
	"math/bits"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/rovergraph/scenegl/internal/scene"
)

// renderTexture binds the GPU texture of t on unit 0, loading or
// refreshing it first when needed. Returns false when the image cannot
// be used, in which case the shape renders untextured.
func (r *Renderer) renderTexture(t *scene.Texture) bool {
	img := t.Image
	if img == nil || img.Empty() {
		return false
	}
	res := r.cache.GetOrCreate(img.Handle(), func() Resource {
		return newTextureResource(img)
	}).(*TextureResource)

	gl.ActiveTexture(gl.TEXTURE0)
	if res.loaded && !res.updateNeeded {
		gl.BindTexture(gl.TEXTURE_2D, res.textureID)
		gl.BindSampler(0, res.samplerID)
		return true
	}
	return r.loadTextureImage(res, t)
}

// textureFormat maps an image channel count onto GL upload and
// internal formats. Unsupported counts yield ok == false.
func textureFormat(channels int) (format uint32, internal int32, ok bool) {
	switch channels {
	case 1:
		return gl.RED, gl.R8, true
	case 2:
		return gl.RG, gl.RG8, true
	case 3:
		return gl.RGB, gl.RGB8, true
	case 4:
		return gl.RGBA, gl.RGBA8, true
	}
	return 0, 0, false
}

// loadTextureImage uploads the image pixels, reusing the existing
// allocation via TexSubImage2D when the shape matches. Non-power-of-two
// images are rescaled up front so mipmapping behaves on older
// hardware.
func (r *Renderer) loadTextureImage(res *TextureResource, t *scene.Texture) bool {
	img := t.Image
	format, internal, ok := textureFormat(img.Channels)
	if !ok {
		r.log.Debug("texture skipped: unsupported channel count",
			zap.Int("channels", img.Channels))
		return false
	}

	pixels := img.Pixels
	width, height, channels := img.Width, img.Height, img.Channels
	if !isPowerOfTwo(width) || !isPowerOfTwo(height) {
		pixels, width, height = rescaleToPowerOfTwo(img)
		channels = 4
		format, internal = gl.RGBA, gl.RGBA8
	}

	if res.textureID == 0 {
		gl.GenTextures(1, &res.textureID)
	}
	gl.BindTexture(gl.TEXTURE_2D, res.textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	if res.loaded && res.width == width && res.height == height && res.channels == channels {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height),
			format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0,
			format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)

	if res.samplerID == 0 {
		gl.GenSamplers(1, &res.samplerID)
		gl.SamplerParameteri(res.samplerID, gl.TEXTURE_WRAP_S, wrapMode(t.RepeatS))
		gl.SamplerParameteri(res.samplerID, gl.TEXTURE_WRAP_T, wrapMode(t.RepeatT))
		gl.SamplerParameteri(res.samplerID, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(res.samplerID, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	gl.BindSampler(0, res.samplerID)

	res.width, res.height, res.channels = width, height, channels
	res.loaded = true
	res.updateNeeded = false
	return true
}

func wrapMode(repeat bool) int32 {
	if repeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// rescaleToPowerOfTwo resamples the image to the next power-of-two
// dimensions, expanding to RGBA in the process.
func rescaleToPowerOfTwo(img *scene.Image) (pixels []byte, width, height int) {
	src := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			si := (y*img.Width + x) * img.Channels
			di := src.PixOffset(x, y)
			switch img.Channels {
			case 1:
				v := img.Pixels[si]
				src.Pix[di], src.Pix[di+1], src.Pix[di+2], src.Pix[di+3] = v, v, v, 255
			case 2:
				v := img.Pixels[si]
				src.Pix[di], src.Pix[di+1], src.Pix[di+2], src.Pix[di+3] = v, v, v, img.Pixels[si+1]
			case 3:
				copy(src.Pix[di:di+3], img.Pixels[si:si+3])
				src.Pix[di+3] = 255
			case 4:
				copy(src.Pix[di:di+4], img.Pixels[si:si+4])
			}
		}
	}

	width = nextPowerOfTwo(img.Width)
	height = nextPowerOfTwo(img.Height)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst.Pix, width, height
}
