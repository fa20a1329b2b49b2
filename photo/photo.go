package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"order-entry/errorx"

	"github.com/disintegration/imaging"
)

const dataURLPrefix = "data:image/jpeg;base64,"

type Options struct {
	MaxBytes int64
	MaxWidth int
	Quality  int
}

// DefaultOptions 10MB 上限，宽度压缩到 800，JPEG 质量 70
var DefaultOptions = Options{MaxBytes: 10 * 1024 * 1024, MaxWidth: 800, Quality: 70}

// Processor 校验并压缩订单照片
type Processor struct {
	opts Options
}

func NewProcessor(opts Options) *Processor {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultOptions.MaxBytes
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultOptions.MaxWidth
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultOptions.Quality
	}
	return &Processor{opts: opts}
}

// Validate 只检查类型和大小
func (p *Processor) Validate(mimeType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/") {
		return fmt.Errorf("%w: %q is not an image", errorx.ErrPhotoRejected, mimeType)
	}
	if size > p.opts.MaxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", errorx.ErrPhotoTooLarge, size, p.opts.MaxBytes)
	}
	return nil
}

// Process 校验后缩放到最大宽度，重新编码为 JPEG data URL
func (p *Processor) Process(mimeType string, data []byte) (string, error) {
	if err := p.Validate(mimeType, int64(len(data))); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", errorx.ErrPhotoRejected, err)
	}
	if img.Bounds().Dx() > p.opts.MaxWidth {
		img = imaging.Resize(img, p.opts.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.opts.Quality)); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
