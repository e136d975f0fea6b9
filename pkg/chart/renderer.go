package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

var ErrNoPoints = errors.New("chart request has no points")

var _ gdp.ChartRenderer = (*Renderer)(nil)

// Renderer draws GDP line charts as PNG files under a fixed directory.
type Renderer struct {
	dir    string
	width  int
	height int
}

type Option func(*Renderer)

func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

func NewRenderer(dir string, opts ...Option) *Renderer {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	r := &Renderer{dir: dir, width: 1000, height: 400}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render writes req to <dir>/<req.FileName()> and returns that path.
func (r *Renderer) Render(req gdp.ChartRequest) (string, error) {
	if len(req.Points) == 0 {
		return "", ErrNoPoints
	}

	xs := make([]float64, len(req.Points))
	ys := make([]float64, len(req.Points))
	for i, p := range req.Points {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}

	graph := gochart.Chart{
		Title:  req.Title,
		Width:  r.width,
		Height: r.height,
		XAxis: gochart.XAxis{
			Name:           req.XLabel,
			Range:          paddedRange(xs, 1),
			ValueFormatter: yearFormatter,
		},
		YAxis: gochart.YAxis{
			Name:           req.YLabel,
			Range:          paddedRange(ys, 1),
			ValueFormatter: amountFormatter,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    req.Country,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeWidth: 2,
					DotWidth:    4,
				},
			},
		},
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(r.dir, sanitizeFileName(req.FileName()))
	if err := writeChart(path, graph.Render); err != nil {
		return "", err
	}

	log.Debug().
		Str("country", req.Country).
		Str("path", path).
		Int("points", len(req.Points)).
		Msg("chart rendered")
	return path, nil
}

// writeChart renders into path and removes the file when rendering or
// closing fails.
func writeChart(path string, render func(gochart.RendererProvider, io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close chart file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := render(gochart.PNG, f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// paddedRange widens a degenerate range so that single-point series and
// flat series still render.
func paddedRange(values []float64, pad float64) gochart.Range {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != hi {
		return nil
	}
	if lo != 0 {
		pad = max(pad, abs(lo)*0.1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}

func sanitizeFileName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}
