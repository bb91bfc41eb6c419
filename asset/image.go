package asset

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/achilleasa/strokedensity/log"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	ErrUnsupportedFormat = errors.New("asset: unsupported image format")
)

var logger = log.New("asset")

type decodeFn func(r io.Reader) (image.Image, error)

// Decoders by file extension. tga has no magic header so formats are picked
// by extension before falling back to sniffing the stream.
var decoders = map[string]decodeFn{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Decode an image resource. The decoder is selected by the resource extension;
// resources without a known extension are decoded by sniffing the stream.
func ReadImage(res *Resource) (image.Image, error) {
	start := time.Now()

	var (
		img    image.Image
		format = strings.TrimPrefix(res.Ext(), ".")
		err    error
	)
	if decoder, ok := decoders[res.Ext()]; ok {
		img, err = decoder(res)
	} else {
		img, format, err = image.Decode(res)
	}
	if err != nil {
		return nil, fmt.Errorf("asset: could not decode '%s': %w", res.Path(), err)
	}

	b := img.Bounds()
	logger.Infof("decoded %dx%d %s image from '%s' in %d ms", b.Dx(), b.Dy(), format, res.Path(), time.Since(start).Nanoseconds()/1e6)
	return img, nil
}

// Encode img and write it to path. The output format is selected by the file
// extension: .png, .jpg/.jpeg, .bmp, .tif/.tiff or .webp.
func WriteImage(path string, img image.Image) error {
	encoder, err := encoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = encoder(f, img); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	logger.Infof("wrote image to '%s'", path)
	return nil
}

type encodeFn func(w io.Writer, img image.Image) error

func encoderFor(path string) (encodeFn, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".webp":
		return func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, filepath.Ext(path))
}
