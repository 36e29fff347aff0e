package preview

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/planform/planform/backend-go/internal/shape"
)

type Options struct {
	Width   int
	Height  int
	Padding float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 320
	}
	if o.Height <= 0 {
		o.Height = 240
	}
	if o.Padding <= 0 {
		o.Padding = 12
	}
	return o
}

// Render draws roots scaled to fit the image.
func Render(roots []shape.Snapshot, opts Options) image.Image {
	opts = opts.withDefaults()
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()

	if len(roots) == 0 {
		return dc.Image()
	}

	b := Bounds(roots)
	availW := float64(opts.Width) - 2*opts.Padding
	availH := float64(opts.Height) - 2*opts.Padding
	scale := 1.0
	if b.Width > 0 && b.Height > 0 {
		scale = math.Min(availW/b.Width, availH/b.Height)
	}
	c := b.Center()
	dc.Translate(float64(opts.Width)/2, float64(opts.Height)/2)
	dc.Scale(scale, scale)
	dc.Translate(-c.X, -c.Y)

	Execute(dc, Compile(roots), 1/scale)
	return dc.Image()
}

// Execute replays cmds on dc. lineWidth is the stroke width in the current
// user space.
func Execute(dc *gg.Context, cmds []DrawCommand, lineWidth float64) {
	for _, cmd := range cmds {
		switch cmd.Op {
		case OpSave:
			dc.Push()
			if len(cmd.Transform) == 6 {
				t := cmd.Transform
				dc.Translate(t[4], t[5])
				dc.Rotate(math.Atan2(t[1], t[0]))
			}
		case OpRestore:
			dc.Pop()
		case OpShape:
			drawShape(dc, cmd, lineWidth)
		}
	}
}

func drawShape(dc *gg.Context, cmd DrawCommand, lineWidth float64) {
	w, h := cmd.Width, cmd.Height
	dc.SetLineWidth(lineWidth)

	switch cmd.Kind {
	case shape.KindContainer, shape.KindTemplate:
		dc.SetDash(4*lineWidth, 3*lineWidth)
		dc.DrawRectangle(-w/2, -h/2, w, h)
		dc.SetColor(containerColor)
		dc.Stroke()
		dc.SetDash()
		return
	case shape.KindEllipse:
		dc.DrawEllipse(0, 0, w/2, h/2)
	case shape.KindArc:
		r, ok := cmd.Params.Float("radius")
		if !ok {
			r = math.Min(w, h) / 2
		}
		start, _ := cmd.Params.Float("startAngle")
		end, ok := cmd.Params.Float("endAngle")
		if !ok {
			end = 360
		}
		dc.MoveTo(0, 0)
		dc.DrawArc(0, 0, r, gg.Radians(start), gg.Radians(end))
		dc.ClosePath()
	case shape.KindPolygon:
		pts, err := shape.PolygonPoints(cmd.Params)
		if err != nil || len(pts) < 6 {
			dc.DrawRectangle(-w/2, -h/2, w, h)
			break
		}
		dc.MoveTo(pts[0], pts[1])
		for i := 2; i+1 < len(pts); i += 2 {
			dc.LineTo(pts[i], pts[i+1])
		}
		dc.ClosePath()
	default:
		dc.DrawRectangle(-w/2, -h/2, w, h)
	}

	fill := fillOf(cmd.Params)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(outlineOf(fill))
	dc.Stroke()
}

// WritePNG renders roots and encodes the result to w.
func WritePNG(w io.Writer, roots []shape.Snapshot, opts Options) error {
	opts = opts.withDefaults()
	dc := gg.NewContextForImage(Render(roots, opts))
	return dc.EncodePNG(w)
}
