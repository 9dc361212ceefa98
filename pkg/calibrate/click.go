package calibrate

import "github.com/teslashibe/go-hsvtune/pkg/hsv"

// handleClick samples the raw pixel at (x, y) and centers the sliders on it.
// Runs on the loop thread, either inside WaitKey or while draining requests.
func (a *App) handleClick(x, y int) {
	sample, err := a.detector.SampleHSV(a.frame, x, y)
	if err != nil {
		a.logger.Debug("click ignored", "x", x, "y", y, "reason", err)
		return
	}

	previous := a.display.Params().Range
	r := hsv.Recenter(sample, a.config.Tracking.SampleStep)
	a.display.SetRange(r)
	a.logger.Info("range recentered",
		"x", x, "y", y,
		"sample", sample.String(),
		"was_inside", previous.Contains(sample),
		"range", r.String())
}
