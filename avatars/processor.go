package avatars

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultSize is the edge in pixels of a processed avatar
	DefaultSize = 250
	// MaxUploadSize caps the bytes read from an upload
	MaxUploadSize = 5 << 20
)

const TextCodeInvalidImage = "INVALID_IMAGE"

// ErrInvalidImage the upload could not be decoded as an image
var ErrInvalidImage = errors.New("Invalid image file", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeInvalidImage)

// Processor resizes uploaded images to a square avatar
type Processor struct {
	width  int
	height int
}

// NewProcessor returns a processor producing size x size images
func NewProcessor(size int) *Processor {
	if size <= 0 {
		size = DefaultSize
	}
	return &Processor{width: size, height: size}
}

// Process decodes src, resizes it and encodes it back in the format
// implied by filename. Unknown extensions are encoded as png.
func (p *Processor) Process(src io.Reader, filename string) ([]byte, string, error) {
	img, err := imaging.Decode(io.LimitReader(src, MaxUploadSize), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", ErrInvalidImage
	}

	resized := imaging.Fill(img, p.width, p.height, imaging.Center, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, "", errors.Wrap(err, errors.CategoryInternal, "failed to encode avatar")
	}

	return buf.Bytes(), contentType(format), nil
}

func contentType(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}
