package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

// ChartOptions controls the bar chart geometry.
type ChartOptions struct {
	Width    int
	Height   int
	BarColor color.Color
	Title    string
	XLabel   string
}

// DefaultChartOptions is an 800x400 chart with green bars.
var DefaultChartOptions = ChartOptions{
	Width:    800,
	Height:   400,
	BarColor: color.NRGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF},
	Title:    "Resume Analysis Summary",
	XLabel:   "Score (%)",
}

const (
	marginLeft   = 100
	marginRight  = 50
	marginTop    = 40
	marginBottom = 50
	tickStep     = 20
	barFill      = 0.8
)

var (
	axisColor = color.Black
	gridColor = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	face      = basicfont.Face7x13
)

// Chart writes a horizontal bar chart of the four subscores as PNG.
func Chart(r models.AnalysisResult, w io.Writer) error {
	return ChartWithOptions(r, w, DefaultChartOptions)
}

// ChartWithOptions is Chart with explicit geometry.
func ChartWithOptions(r models.AnalysisResult, w io.Writer, opts ChartOptions) error {
	img, err := RenderChart(r, opts)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// RenderChart draws the chart in memory. The x-axis is fixed to [0,100] and
// categories run bottom-up in report order, so Skills is the lowest bar.
func RenderChart(r models.AnalysisResult, opts ChartOptions) (*image.NRGBA, error) {
	plot := image.Rect(marginLeft, marginTop, opts.Width-marginRight, opts.Height-marginBottom)
	if plot.Dx() <= 0 || plot.Dy() <= 0 {
		return nil, fmt.Errorf("chart %dx%d too small", opts.Width, opts.Height)
	}

	img := imaging.New(opts.Width, opts.Height, color.White)
	xPos := func(score int) int {
		return plot.Min.X + plot.Dx()*clamp(score)/100
	}

	// vertical grid and tick labels
	for v := 0; v <= 100; v += tickStep {
		x := xPos(v)
		fill(img, image.Rect(x, plot.Min.Y, x+1, plot.Max.Y), gridColor)
		fill(img, image.Rect(x, plot.Max.Y, x+1, plot.Max.Y+5), axisColor)
		label := fmt.Sprint(v)
		drawText(img, label, x-textWidth(label)/2, plot.Max.Y+18)
	}

	cats := r.Categories()
	slot := plot.Dy() / len(cats)
	barHeight := int(float64(slot) * barFill)
	for i, c := range cats {
		// i=0 sits at the bottom of the plot
		slotTop := plot.Max.Y - (i+1)*slot
		top := slotTop + (slot-barHeight)/2
		mid := slotTop + slot/2

		fill(img, image.Rect(plot.Min.X, top, xPos(c.Score), top+barHeight), opts.BarColor)

		value := fmt.Sprintf("%d%%", clamp(c.Score))
		drawText(img, value, xPos(c.Score+2), mid+4)
		drawText(img, c.Name, plot.Min.X-10-textWidth(c.Name), mid+4)
	}

	// axes frame
	fill(img, image.Rect(plot.Min.X, plot.Min.Y, plot.Min.X+1, plot.Max.Y+1), axisColor)
	fill(img, image.Rect(plot.Min.X, plot.Max.Y, plot.Max.X+1, plot.Max.Y+1), axisColor)
	fill(img, image.Rect(plot.Max.X, plot.Min.Y, plot.Max.X+1, plot.Max.Y+1), axisColor)
	fill(img, image.Rect(plot.Min.X, plot.Min.Y, plot.Max.X+1, plot.Min.Y+1), axisColor)

	drawText(img, opts.Title, (opts.Width-textWidth(opts.Title))/2, marginTop-14)
	drawText(img, opts.XLabel, plot.Min.X+(plot.Dx()-textWidth(opts.XLabel))/2, opts.Height-10)

	return img, nil
}

func fill(img draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func drawText(img draw.Image, s string, x, baseline int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(axisColor),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

func clamp(v int) int {
	return max(0, min(100, v))
}
