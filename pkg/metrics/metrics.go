// Package metrics measures how much a filter changed an image. The
// figures are computed over R, G and B; alpha is ignored.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats holds the mean and standard deviation of one channel.
type ChannelStats struct {
	Mean   float64
	StdDev float64
}

// Quality compares a filtered buffer against its source.
type Quality struct {
	// RMSE is the root mean square error over all color samples, in
	// channel units (0-255).
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB. Identical buffers
	// report +Inf.
	PSNR float64

	// SSIM is a global structural similarity index over luminance,
	// 1 for identical images.
	SSIM float64

	// Before and After hold per-channel statistics in R, G, B order.
	Before [3]ChannelStats
	After  [3]ChannelStats
}

// channels splits the color samples of an RGBA buffer into three float
// slices.
func channels(pixels []byte) [3][]float64 {
	n := len(pixels) / 4
	var out [3][]float64
	for c := range out {
		out[c] = make([]float64, n)
	}
	for j := 0; j < n; j++ {
		i := j * 4
		out[0][j] = float64(pixels[i])
		out[1][j] = float64(pixels[i+1])
		out[2][j] = float64(pixels[i+2])
	}
	return out
}

// luminance returns the Rec. 601 luma of every pixel, normalized to 0-1.
func luminance(ch [3][]float64) []float64 {
	out := make([]float64, len(ch[0]))
	for i := range out {
		out[i] = (0.299*ch[0][i] + 0.587*ch[1][i] + 0.114*ch[2][i]) / 255
	}
	return out
}

// Stats returns the per-channel statistics of an RGBA buffer.
func Stats(pixels []byte) [3]ChannelStats {
	var out [3]ChannelStats
	if len(pixels) < 4 {
		return out
	}
	for c, samples := range channels(pixels) {
		mean, std := stat.MeanStdDev(samples, nil)
		if math.IsNaN(std) {
			std = 0
		}
		out[c] = ChannelStats{Mean: mean, StdDev: std}
	}
	return out
}

// Compare computes quality metrics between two buffers of equal length.
func Compare(before, after []byte) (Quality, error) {
	if len(before) != len(after) {
		return Quality{}, fmt.Errorf("buffer lengths differ: %d != %d", len(before), len(after))
	}
	if len(before) < 4 {
		return Quality{}, fmt.Errorf("buffers hold no pixels")
	}

	a, b := channels(before), channels(after)

	var sq float64
	for c := 0; c < 3; c++ {
		d := floats.Distance(a[c], b[c], 2)
		sq += d * d
	}
	rmse := math.Sqrt(sq / float64(3*len(a[0])))

	q := Quality{
		RMSE:   rmse,
		PSNR:   psnr(rmse),
		SSIM:   ssim(luminance(a), luminance(b)),
		Before: Stats(before),
		After:  Stats(after),
	}
	return q, nil
}

func psnr(rmse float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(255/rmse)
}

// ssim computes a single-window structural similarity index over
// normalized samples.
func ssim(x, y []float64) float64 {
	const (
		L  = 1.0
		k1 = 0.01
		k2 = 0.03
	)
	c1 := (k1 * L) * (k1 * L)
	c2 := (k2 * L) * (k2 * L)

	muX := stat.Mean(x, nil)
	muY := stat.Mean(y, nil)

	var sigmaX, sigmaY, sigmaXY float64
	if len(x) > 1 {
		sigmaX = stat.Variance(x, nil)
		sigmaY = stat.Variance(y, nil)
		sigmaXY = stat.Covariance(x, y, nil)
	}

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	if den > 0 {
		return num / den
	}
	return 0
}

// String formats the metrics for terminal output.
func (q Quality) String() string {
	return fmt.Sprintf("RMSE=%.3f PSNR=%.2fdB SSIM=%.4f mean RGB (%.1f,%.1f,%.1f) -> (%.1f,%.1f,%.1f)",
		q.RMSE, q.PSNR, q.SSIM,
		q.Before[0].Mean, q.Before[1].Mean, q.Before[2].Mean,
		q.After[0].Mean, q.After[1].Mean, q.After[2].Mean)
}
