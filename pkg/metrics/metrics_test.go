package metrics

import (
	"math"
	"testing"
)

func TestCompareIdentical(t *testing.T) {
	pixels := []byte{10, 20, 30, 255, 200, 100, 50, 255, 0, 0, 0, 0}

	q, err := Compare(pixels, pixels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.RMSE != 0 {
		t.Errorf("Expected RMSE=0, got %f", q.RMSE)
	}
	if !math.IsInf(q.PSNR, 1) {
		t.Errorf("Expected infinite PSNR, got %f", q.PSNR)
	}
	if math.Abs(q.SSIM-1) > 1e-9 {
		t.Errorf("Expected SSIM=1, got %f", q.SSIM)
	}
}

func TestCompareKnownError(t *testing.T) {
	before := []byte{0, 0, 0, 255, 0, 0, 0, 255}
	after := []byte{3, 3, 3, 255, 3, 3, 3, 0}

	q, err := Compare(before, after)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(q.RMSE-3) > 1e-9 {
		t.Errorf("Expected RMSE=3, got %f", q.RMSE)
	}
	wantPSNR := 20 * math.Log10(255.0/3)
	if math.Abs(q.PSNR-wantPSNR) > 1e-9 {
		t.Errorf("Expected PSNR=%f, got %f", wantPSNR, q.PSNR)
	}
	if q.After[0].Mean != 3 || q.Before[0].Mean != 0 {
		t.Errorf("Unexpected channel means: before %v after %v", q.Before, q.After)
	}
}

func TestStats(t *testing.T) {
	pixels := []byte{0, 10, 255, 1, 100, 10, 255, 2}
	s := Stats(pixels)

	if s[0].Mean != 50 {
		t.Errorf("Expected red mean 50, got %f", s[0].Mean)
	}
	if s[1].StdDev != 0 || s[2].StdDev != 0 {
		t.Errorf("Expected zero deviation for constant channels, got %v", s)
	}
	if math.Abs(s[0].StdDev-math.Sqrt(5000)) > 1e-9 {
		t.Errorf("Expected red stddev %f, got %f", math.Sqrt(5000), s[0].StdDev)
	}
}

func TestCompareErrors(t *testing.T) {
	if _, err := Compare(make([]byte, 4), make([]byte, 8)); err == nil {
		t.Error("Expected error for length mismatch")
	}
	if _, err := Compare(nil, nil); err == nil {
		t.Error("Expected error for empty buffers")
	}
}
