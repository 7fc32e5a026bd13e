package runner

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (r *Runner) flushTelemetry() error {
	iter := r.engine.Iteration()
	if !r.collector.ShouldFlush(iter) {
		return nil
	}

	window := r.collector.Flush(iter, r.engine)
	perfStats := r.perf.Stats()

	if r.logStats {
		for _, s := range window {
			s.Log(r.logger)
		}
		perfStats.Log(r.logger)
	}

	if err := r.output.WriteTelemetry(window); err != nil {
		return err
	}
	if err := r.output.WritePerf(perfStats, iter); err != nil {
		return err
	}

	bookmarks := r.bookmarks.Check(window)
	for _, bm := range bookmarks {
		bm.Log(r.logger)
	}
	return r.output.WriteBookmarks(bookmarks)
}
