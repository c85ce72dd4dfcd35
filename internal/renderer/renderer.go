// Package renderer draws reel frames: the current scene panel, an optional
// blurred backdrop and the transport overlay, and writes them as JPEG.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	_ "image/png" // PNG backdrops

	"github.com/disintegration/imaging"
	"github.com/veribee/demoreel/internal/display"
	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	defaultBlurRadius = 15.0
	panelRatio        = 0.70 // Scene panel size as a fraction of the frame
	overlayRatio      = 0.10 // Transport overlay height as a fraction of the frame
	frameFilename     = "current_frame.jpg"
)

var (
	colorBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	colorDefault    = color.NRGBA{R: 0x7c, G: 0x3a, B: 0xed, A: 255}
	colorTrack      = color.NRGBA{R: 255, G: 255, B: 255, A: 51}
	colorProgress   = color.NRGBA{R: 0x7c, G: 0x3a, B: 0xed, A: 255}
	colorWhite      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// FrameRenderer composes frames and writes the latest one to the output directory
type FrameRenderer struct {
	logger   *zap.Logger
	cfg      domain.Config
	geometry display.Geometry
	fetcher  domain.Fetcher

	mu       sync.Mutex
	backdrop image.Image
	rendered int
}

// NewFrameRenderer creates a renderer. Call LoadBackdrop to use a backdrop image.
func NewFrameRenderer(logger *zap.Logger, cfg domain.Config, geometry display.Geometry, fetcher domain.Fetcher) *FrameRenderer {
	return &FrameRenderer{
		logger:   logger,
		cfg:      cfg,
		geometry: geometry,
		fetcher:  fetcher,
	}
}

// LoadBackdrop fetches and decodes the configured backdrop image, if any
func (r *FrameRenderer) LoadBackdrop(ctx context.Context) error {
	url := r.cfg.GetBackdropURL()
	if url == "" {
		return nil
	}

	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch backdrop: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode backdrop: %w", err)
	}
	// Validate image dimensions to prevent division by zero
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("invalid backdrop dimensions: %dx%d", b.Dx(), b.Dy())
	}

	r.mu.Lock()
	r.backdrop = img
	r.mu.Unlock()

	r.logger.Info("Backdrop loaded", zap.String("url", url))
	return nil
}

// Render composes the frame and atomically replaces the frame file on disk
func (r *FrameRenderer) Render(ctx context.Context, frame domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img := r.Compose(frame)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	outputDir := r.cfg.GetOutputDir()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, frameFilename)
	tmpPath := outputPath + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write frame file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("failed to replace frame file: %w", err)
	}

	r.mu.Lock()
	r.rendered++
	r.mu.Unlock()

	r.logger.Debug("Frame rendered",
		zap.String("path", outputPath),
		zap.Int("scene", frame.Index),
		zap.String("status", string(frame.Transport.Status())),
		zap.Float64("progress", frame.Transport.Progress),
		zap.Bool("fullscreen", frame.Transport.Fullscreen))
	return nil
}

// Rendered returns how many frames were written
func (r *FrameRenderer) Rendered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendered
}

// Compose draws a frame in memory. The size follows the fullscreen state.
func (r *FrameRenderer) Compose(frame domain.Frame) *image.NRGBA {
	size := r.geometry.Size(frame.Transport.Fullscreen)
	w, h := max(size.Width, 16), max(size.Height, 9)

	canvas := r.background(w, h)

	// Scene panel, fading in
	scene := frame.Scene
	accent := parseAccent(scene.Accent)
	pw, ph := int(float64(w)*panelRatio), int(float64(h)*panelRatio)
	panel := drawSceneText(imaging.New(pw, ph, accent), scene)
	if fill := scene.LoadingFill(frame.Elapsed); scene.Kind == domain.KindLoading {
		drawBar(panel, image.Rect(pw/4, ph*3/4, pw*3/4, ph*3/4+max(ph/40, 2)), fill, colorWhite)
	}
	canvas = imaging.Overlay(canvas, panel, image.Pt((w-pw)/2, (h-ph)/2-h/20), scene.Opacity(frame.Elapsed))

	r.drawTransport(canvas, frame.Transport)
	return canvas
}

func (r *FrameRenderer) background(w, h int) *image.NRGBA {
	r.mu.Lock()
	backdrop := r.backdrop
	r.mu.Unlock()

	if backdrop == nil {
		return imaging.New(w, h, colorBackground)
	}

	// Resize (Fill) to cover the entire frame and apply blur
	bg := imaging.Fill(backdrop, w, h, imaging.Center, imaging.Lanczos)
	return imaging.Blur(bg, defaultBlurRadius)
}

// drawSceneText renders the title and caption lines centered on the panel
func drawSceneText(panel *image.NRGBA, scene domain.Scene) *image.NRGBA {
	ph := panel.Bounds().Dy()

	titleScale := max(ph/80, 1)
	y := ph / 3
	panel, used := pasteText(panel, scene.Title, y, titleScale)
	y += used

	captionScale := max(titleScale/2, 1)
	for _, line := range scene.Caption {
		y += ph / 30
		panel, used = pasteText(panel, line, y, captionScale)
		y += used
	}
	return panel
}

// pasteText draws s with the 7x13 bitmap face scaled up, centered horizontally
// at row y. It returns the new image and the height used.
func pasteText(dst *image.NRGBA, s string, y, scale int) (*image.NRGBA, int) {
	if s == "" {
		return dst, 0
	}
	face := basicfont.Face7x13
	width := max(font.MeasureString(face, s).Ceil(), 1)
	height := face.Metrics().Height.Ceil()

	glyphs := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(colorWhite),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	scaled := imaging.Resize(glyphs, width*scale, height*scale, imaging.NearestNeighbor)
	x := (dst.Bounds().Dx() - scaled.Bounds().Dx()) / 2
	return imaging.Overlay(dst, scaled, image.Pt(x, y), 1), scaled.Bounds().Dy()
}

// drawTransport draws the play/pause glyph, the progress bar and the fullscreen glyph
func (r *FrameRenderer) drawTransport(canvas *image.NRGBA, t domain.TransportState) {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	oh := max(int(float64(h)*overlayRatio), 6)
	top := h - oh
	mid := top + oh/2
	glyph := oh / 2

	// Play/pause button
	gx := oh / 2
	if t.Playing {
		bw := max(glyph/4, 1)
		fillRect(canvas, image.Rect(gx, mid-glyph/2, gx+bw, mid+glyph/2), colorWhite)
		fillRect(canvas, image.Rect(gx+2*bw, mid-glyph/2, gx+3*bw, mid+glyph/2), colorWhite)
	} else {
		drawTriangle(canvas, gx, mid, glyph, colorWhite)
	}

	// Progress bar between the two buttons
	left, right := gx+glyph+oh/2, w-oh-glyph
	if right > left {
		track := image.Rect(left, mid-max(oh/12, 1), right, mid+max(oh/12, 1))
		drawBar(canvas, track, t.Progress/100, colorProgress)
	}

	// Fullscreen button: outlined square, filled while fullscreen
	fx := w - oh/2 - glyph
	box := image.Rect(fx, mid-glyph/2, fx+glyph, mid+glyph/2)
	if t.Fullscreen {
		fillRect(canvas, box, colorWhite)
	} else {
		strokeRect(canvas, box, max(glyph/8, 1), colorWhite)
	}
}

// drawBar draws a track with the leading fraction filled
func drawBar(dst *image.NRGBA, track image.Rectangle, fraction float64, fill color.NRGBA) {
	fraction = min(max(fraction, 0), 1)
	fillRect(dst, track, colorTrack)
	filled := track
	filled.Max.X = track.Min.X + int(float64(track.Dx())*fraction)
	fillRect(dst, filled, fill)
}

func fillRect(dst *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			blend(dst, x, y, c)
		}
	}
}

func strokeRect(dst *image.NRGBA, rect image.Rectangle, width int, c color.NRGBA) {
	fillRect(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width), c)
	fillRect(dst, image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y), c)
	fillRect(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y), c)
	fillRect(dst, image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

// drawTriangle draws a right-pointing triangle of the given height
func drawTriangle(dst *image.NRGBA, x, midY, size int, c color.NRGBA) {
	half := size / 2
	for dy := -half; dy <= half; dy++ {
		span := size - 2*abs(dy)
		fillRect(dst, image.Rect(x, midY+dy, x+span, midY+dy+1), c)
	}
}

// blend alpha-composites c over the pixel at (x, y)
func blend(dst *image.NRGBA, x, y int, c color.NRGBA) {
	i := dst.PixOffset(x, y)
	a := uint32(c.A)
	inv := 255 - a
	dst.Pix[i+0] = uint8((uint32(c.R)*a + uint32(dst.Pix[i+0])*inv) / 255)
	dst.Pix[i+1] = uint8((uint32(c.G)*a + uint32(dst.Pix[i+1])*inv) / 255)
	dst.Pix[i+2] = uint8((uint32(c.B)*a + uint32(dst.Pix[i+2])*inv) / 255)
	dst.Pix[i+3] = 255
}

// parseAccent turns #rrggbb into a colour, falling back to the brand violet
func parseAccent(s string) color.NRGBA {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return colorDefault
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return colorDefault
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
