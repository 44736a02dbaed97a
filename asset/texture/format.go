package texture

import (
	"fmt"

	"github.com/j-cube/hdospray/backend"
)

// Select the renderer pixel format for an image with the given channel depth
// (1 byte or 4 byte float) and channel count. For 8-bit images preferLinear
// selects linear formats over luminance/sRGB ones.
func FormatFor(depth, channels int, preferLinear bool) (backend.TextureFormat, error) {
	switch depth {
	case 1:
		switch channels {
		case 1:
			return pick(preferLinear, backend.TextureR8, backend.TextureL8), nil
		case 2:
			return pick(preferLinear, backend.TextureRA8, backend.TextureLA8), nil
		case 3:
			return pick(preferLinear, backend.TextureRGB8, backend.TextureSRGB), nil
		case 4:
			return pick(preferLinear, backend.TextureRGBA8, backend.TextureSRGBA), nil
		}
	case 4:
		switch channels {
		case 1:
			return backend.TextureR32F, nil
		case 3:
			return backend.TextureRGB32F, nil
		case 4:
			return backend.TextureRGBA32F, nil
		}
	}

	return backend.TextureFormatInvalid, fmt.Errorf("%w: depth=%d channels=%d", ErrUnsupportedFormat, depth, channels)
}

func pick(linear bool, linearFmt, otherFmt backend.TextureFormat) backend.TextureFormat {
	if linear {
		return linearFmt
	}
	return otherFmt
}

// Get the element type of the pixel buffer for a texture format.
func DataTypeFor(format backend.TextureFormat) (backend.DataType, error) {
	switch format {
	case backend.TextureR32F:
		return backend.DataFloat, nil
	case backend.TextureRGB32F:
		return backend.DataVec3f, nil
	case backend.TextureRGBA32F:
		return backend.DataVec4f, nil
	case backend.TextureR8, backend.TextureL8:
		return backend.DataUChar, nil
	case backend.TextureRA8, backend.TextureLA8:
		return backend.DataVec2UC, nil
	case backend.TextureRGB8, backend.TextureSRGB:
		return backend.DataVec3UC, nil
	case backend.TextureRGBA8, backend.TextureSRGBA:
		return backend.DataVec4UC, nil
	}
	return backend.DataUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
