// Package images downloads speaker avatars and produces the scaled
// variants the app renders at different pixel densities. Downloads run
// strictly one at a time through an explicit queue worker so a slow or
// dead image host never floods the network during a sync.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/confsched/schedsync/internal/model"
)

// BaseSize is the pixel size of the smallest scaled variant on its longer
// dimension. Variants are produced at BaseSize * factor for each factor
// the origin image is large enough to support, up to MaxFactor.
const (
	BaseSize  = 96
	MaxFactor = 4
)

// Fetcher downloads one image. Satisfied by fetch.Client.
type Fetcher interface {
	DownloadImage(ctx context.Context, url string) (data []byte, width, height int, err error)
}

// Progress is called after each queue item completes, successfully or not.
type Progress func(done, total int)

// Queue downloads the pending speaker images one at a time into dir.
type Queue struct {
	fetcher Fetcher
	dir     string
	logger  *log.Logger
}

// NewQueue returns a queue writing image files into dir. A nil logger
// discards output.
func NewQueue(fetcher Fetcher, dir string, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Queue{fetcher: fetcher, dir: dir, logger: logger}
}

// Pending filters the images that still need a download: never fetched,
// and not already marked as permanently failed.
func Pending(images []*model.SpeakerImage) []*model.SpeakerImage {
	var pending []*model.SpeakerImage
	for _, img := range images {
		if img.InData || img.DownloadFailed || img.OriginURL == "" {
			continue
		}
		pending = append(pending, img)
	}
	return pending
}

// Run works through the pending images serially. A failed download marks
// the record DownloadFailed and moves on; only a cancelled context stops
// the queue. Returns the number of successful downloads.
func (q *Queue) Run(ctx context.Context, pending []*model.SpeakerImage, progress Progress) (int, error) {
	total := len(pending)
	succeeded := 0
	for i, img := range pending {
		if err := ctx.Err(); err != nil {
			return succeeded, err
		}
		if err := q.process(ctx, img); err != nil {
			img.DownloadFailed = true
			q.logger.Printf("[images] WARNING: speaker %d: %v", img.SpeakerID, err)
		} else {
			img.DownloadSuccess = true
			img.InData = true
			succeeded++
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return succeeded, nil
}

func (q *Queue) process(ctx context.Context, img *model.SpeakerImage) error {
	data, width, height, err := q.fetcher.DownloadImage(ctx, img.OriginURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", img.OriginURL, err)
	}

	if err := q.save(img.OriginFileName(), data); err != nil {
		return err
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", img.OriginURL, err)
	}

	img.MaxScaleFactor = scaleFactor(width, height)
	for factor := 1; factor <= img.MaxScaleFactor; factor++ {
		scaled := scaleTo(decoded, BaseSize*factor)
		buf, err := encode(scaled, img.Suffix)
		if err != nil {
			return fmt.Errorf("encode %s factor %d: %w", img.FileName(), factor, err)
		}
		if err := q.save(img.ScaledFileName(factor), buf); err != nil {
			return err
		}
	}
	// Too small for even the base variant: keep the origin as the only
	// rendition.
	if img.MaxScaleFactor == 0 {
		if err := q.save(img.FileName(), data); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queue) save(name string, data []byte) error {
	path := filepath.Join(q.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// scaleFactor returns how many scaled variants the origin supports, based
// on its longer dimension.
func scaleFactor(width, height int) int {
	longer := width
	if height > longer {
		longer = height
	}
	factor := longer / BaseSize
	if factor > MaxFactor {
		factor = MaxFactor
	}
	return factor
}

// scaleTo resizes src so its longer dimension becomes size, preserving the
// aspect ratio. Uses approximate bilinear scaling, good enough for avatars.
func scaleTo(src image.Image, size int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w >= h {
		h = h * size / w
		w = size
	} else {
		w = w * size / h
		h = size
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func encode(img image.Image, suffix string) ([]byte, error) {
	var buf bytes.Buffer
	switch suffix {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
