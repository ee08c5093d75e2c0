package composite

import (
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// rows handed to a worker at a time
const bandRows = 16

func New(opts ...Option) *Compositor {
	c := &Compositor{
		workers: 1,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type Compositor struct {
	workers int
	logger  *zap.Logger
}

type band struct {
	from int
	to   int
}

// Composite samples every channel of spec at each output pixel and packs the
// results in R, G, B, A order. An invalid spec fails before any sampling.
func Composite(spec Spec) (*Output, error) {
	return New().Composite(spec)
}

func (c *Compositor) Composite(spec Spec) (*Output, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	out := NewOutput(spec.Width, spec.Height)

	workers := lo.Clamp(c.workers, 1, spec.Height)
	if workers == 1 {
		c.fill(spec, out, band{0, spec.Height})
	} else {
		c.parallel(spec, out, workers)
	}

	c.logger.With(
		zap.Int("width", spec.Width),
		zap.Int("height", spec.Height),
		zap.Int("workers", workers),
		zap.String("cost", time.Since(start).String()),
	).Debug("composited")

	return out, nil
}

func (c *Compositor) parallel(spec Spec, out *Output, workers int) {
	bands := make(chan band)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for b := range bands {
				c.fill(spec, out, b)
			}
		}()
	}

	for y := 0; y < spec.Height; y += bandRows {
		bands <- band{from: y, to: lo.Min([]int{y + bandRows, spec.Height})}
	}
	close(bands)

	wg.Wait()
}

// fill writes rows [b.from, b.to) of out. Bands never overlap, so workers
// share out without locking.
func (c *Compositor) fill(spec Spec, out *Output, b band) {
	r, g, bl, a := spec.Channels[R], spec.Channels[G], spec.Channels[B], spec.Channels[A]

	for y := b.from; y < b.to; y++ {
		v := normalized(y, spec.Height)
		row := out.pix[y*spec.Width : (y+1)*spec.Width]
		for x := range row {
			u := normalized(x, spec.Width)
			row[x] = Pixel{
				R: r.Sample(u, v),
				G: g.Sample(u, v),
				B: bl.Sample(u, v),
				A: a.Sample(u, v),
			}
		}
	}
}

// normalized maps i in [0, n) onto [0, 1]. A single pixel sits at 0.
func normalized(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
