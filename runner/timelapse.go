package runner

import (
	"bytes"
	"fmt"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/icza/mjpeg"

	"github.com/pthm-cable/slime/render"
	"github.com/pthm-cable/slime/sim"
)

const (
	timelapseFPS     = 15
	timelapseQuality = 85
)

// timelapse writes a rendered frame every few iterations into an MJPEG AVI.
type timelapse struct {
	avi    mjpeg.AviWriter
	every  int
	buf    bytes.Buffer
	frames int
}

func newTimelapse(path string, w, h, every int) (*timelapse, error) {
	avi, err := mjpeg.New(path, int32(w), int32(h), timelapseFPS)
	if err != nil {
		return nil, fmt.Errorf("creating timelapse: %w", err)
	}
	return &timelapse{avi: avi, every: every}, nil
}

func (t *timelapse) due(iteration int) bool {
	return iteration%t.every == 0
}

func (t *timelapse) add(res *sim.Result, opts render.Options) error {
	img, err := render.Render(res, opts)
	if err != nil {
		return err
	}
	t.buf.Reset()
	if err := imgio.JPEGEncoder(timelapseQuality)(&t.buf, img); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	if err := t.avi.AddFrame(t.buf.Bytes()); err != nil {
		return fmt.Errorf("adding frame: %w", err)
	}
	t.frames++
	return nil
}

func (t *timelapse) close() error {
	if err := t.avi.Close(); err != nil {
		return fmt.Errorf("closing timelapse: %w", err)
	}
	return nil
}
