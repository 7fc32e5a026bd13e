package grid

// DiffuseDecay writes into dst the mean of every cell and its in-bounds
// neighbours (3x3 window clamped at the edges), multiplied by decay.
// dst must not alias g.
func (g *Grid) DiffuseDecay(dst *Grid, decay float32) {
	g.DiffuseDecayRows(dst, decay, 0, g.H)
}

// DiffuseDecayRows is DiffuseDecay restricted to output rows [y0,y1). Rows
// are independent, so disjoint ranges can be computed concurrently.
func (g *Grid) DiffuseDecayRows(dst *Grid, decay float32, y0, y1 int) {
	w, h := g.W, g.H
	src := g.Data
	out := dst.Data

	for y := y0; y < y1; y++ {
		yA := y - 1
		if yA < 0 {
			yA = 0
		}
		yB := y + 1
		if yB >= h {
			yB = h - 1
		}
		rows := yB - yA + 1

		for x := 0; x < w; x++ {
			xA := x - 1
			if xA < 0 {
				xA = 0
			}
			xB := x + 1
			if xB >= w {
				xB = w - 1
			}

			var sum float32
			for yy := yA; yy <= yB; yy++ {
				row := src[yy*w : yy*w+w]
				for xx := xA; xx <= xB; xx++ {
					sum += row[xx]
				}
			}
			n := float32(rows * (xB - xA + 1))
			out[y*w+x] = sum / n * decay
		}
	}
}
