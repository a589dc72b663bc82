// Package transcode converts downloaded sticker payloads between image
// containers: APNG or plain PNG in, looping GIF or still PNG out.
package transcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/kettek/apng"
)

// defaultFrameDelay is applied when a frame declares no display duration,
// in hundredths of a second (100ms).
const defaultFrameDelay = 10

// Animation is a decoded sticker payload: every frame composed onto the
// full canvas and normalized to an alpha-capable mode, with its declared
// display duration in hundredths of a second.
type Animation struct {
	Frames []*image.RGBA
	Delays []int
}

// Animated reports whether the container holds more than one frame.
func (a *Animation) Animated() bool {
	return len(a.Frames) > 1
}

// Decode parses a PNG or APNG payload. Animation frames are composed onto
// a running canvas honoring each frame's blend and dispose ops, so
// delta-encoded frames (which carry only the pixels that changed) come out
// as full composed images.
func Decode(data []byte) (*Animation, error) {
	img, err := apng.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image container: %w", err)
	}
	if len(img.Frames) == 0 {
		return nil, fmt.Errorf("image container holds no frames")
	}

	// A default image is a plain-PNG fallback, not part of the animation.
	frames := make([]apng.Frame, 0, len(img.Frames))
	for _, f := range img.Frames {
		if !f.IsDefault {
			frames = append(frames, f)
		}
	}
	if len(frames) == 0 {
		frames = img.Frames
	}

	canvas := frames[0].Image.Bounds()
	running := image.NewRGBA(canvas)
	anim := &Animation{
		Frames: make([]*image.RGBA, 0, len(frames)),
		Delays: make([]int, 0, len(frames)),
	}

	for _, f := range frames {
		region := f.Image.Bounds().Add(image.Pt(f.XOffset, f.YOffset)).Sub(f.Image.Bounds().Min)

		var previous *image.RGBA
		if f.DisposeOp == apng.DISPOSE_OP_PREVIOUS {
			previous = cloneRGBA(running)
		}

		op := draw.Over
		if f.BlendOp == apng.BLEND_OP_SOURCE {
			op = draw.Src
		}
		draw.Draw(running, region, f.Image, f.Image.Bounds().Min, op)

		anim.Frames = append(anim.Frames, cloneRGBA(running))
		anim.Delays = append(anim.Delays, frameDelay(f))

		switch f.DisposeOp {
		case apng.DISPOSE_OP_BACKGROUND:
			draw.Draw(running, region, image.Transparent, image.Point{}, draw.Src)
		case apng.DISPOSE_OP_PREVIOUS:
			running = previous
		}
	}

	return anim, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// frameDelay converts an APNG delay fraction to GIF hundredths of a
// second, defaulting to 100ms when the frame declares none.
func frameDelay(f apng.Frame) int {
	if f.DelayNumerator == 0 {
		return defaultFrameDelay
	}
	den := int(f.DelayDenominator)
	if den == 0 {
		den = 100
	}
	delay := int(f.DelayNumerator) * 100 / den
	if delay < 1 {
		delay = 1
	}
	return delay
}

// EncodeGIF writes the animation as an infinitely looping GIF. Every frame
// uses the background disposal mode so the canvas is cleared before the
// next frame is drawn. When the animation fits in a 256-entry palette the
// frames are quantized losslessly; otherwise Plan9 with dithering is used.
func EncodeGIF(w io.Writer, anim *Animation) error {
	if len(anim.Frames) == 0 {
		return fmt.Errorf("animation holds no frames")
	}

	pal, exact := animationPalette(anim.Frames)

	bounds := anim.Frames[0].Bounds()
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(anim.Frames)),
		Delay:     make([]int, 0, len(anim.Frames)),
		Disposal:  make([]byte, 0, len(anim.Frames)),
		LoopCount: 0,
		Config: image.Config{
			ColorModel: pal,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		},
	}

	for i, frame := range anim.Frames {
		paletted := image.NewPaletted(bounds, pal)
		if exact {
			draw.Draw(paletted, bounds, frame, bounds.Min, draw.Src)
		} else {
			draw.FloydSteinberg.Draw(paletted, bounds, frame, bounds.Min)
		}
		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, anim.Delays[i])
		out.Disposal = append(out.Disposal, gif.DisposalBackground)
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

// animationPalette gathers the distinct colors used across the animation.
// The exact palette is preferred since it reproduces the source colors
// verbatim; Plan9 with a transparent slot is the fallback once the color
// count exceeds what a GIF palette can hold.
func animationPalette(frames []*image.RGBA) (color.Palette, bool) {
	pal := color.Palette{color.Transparent}
	seen := make(map[color.RGBA]struct{})
	for _, frame := range frames {
		b := frame.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := frame.RGBAAt(x, y)
				if c.A == 0 {
					continue
				}
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				pal = append(pal, c)
				if len(pal) > 256 {
					fallback := make(color.Palette, 0, 256)
					fallback = append(fallback, color.Transparent)
					fallback = append(fallback, palette.Plan9[:255]...)
					return fallback, false
				}
			}
		}
	}
	return pal, true
}

// EncodeStill writes a single frame as a PNG, normalized to RGBA so any
// transparency in the source is preserved.
func EncodeStill(w io.Writer, frame image.Image) error {
	rgba, ok := frame.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(frame.Bounds())
		draw.Draw(rgba, frame.Bounds(), frame, frame.Bounds().Min, draw.Src)
	}
	if err := png.Encode(w, rgba); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
