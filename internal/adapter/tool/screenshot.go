package tool

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/disintegration/imaging"

	"browser-mcp/internal/domain/entity"
)

type ScreenshotTool struct{ base }

func NewScreenshotTool(d Deps) *ScreenshotTool {
	return &ScreenshotTool{base: d.base(entity.ToolScreenshot)}
}

func (t *ScreenshotTool) Execute(ctx context.Context, args entity.Arguments) (string, error) {
	page, err := t.session.RequireOpen()
	if err != nil {
		return "", err
	}
	input, err := t.defaults.ParseScreenshot(args)
	if err != nil {
		return "", err
	}

	data, err := page.Screenshot(ctx, entity.ScreenshotOptions{
		FullPage: input.FullPage,
		Format:   input.Format,
		Quality:  input.Quality,
	})
	if err != nil {
		return "", err
	}
	if input.MaxWidth > 0 {
		if data, err = downscale(data, input.MaxWidth, input.Format, input.Quality); err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(input.Path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write screenshot: %v", entity.ErrIO, err)
	}
	t.logger.Debug("Screenshot written", "path", input.Path, "bytes", len(data))
	return fmt.Sprintf("Screenshot saved to %s", input.Path), nil
}

// downscale shrinks the image to maxWidth keeping its aspect ratio. Images
// already narrower are returned untouched.
func downscale(data []byte, maxWidth int, format entity.ScreenshotFormat, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	if img.Bounds().Dx() <= maxWidth {
		return data, nil
	}
	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	switch format {
	case entity.ScreenshotJPEG:
		err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		err = imaging.Encode(&buf, resized, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
