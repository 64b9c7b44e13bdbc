package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pixelfx/pkg/filter"
	"pixelfx/pkg/imagefile"
	"pixelfx/pkg/logging"
	"pixelfx/pkg/metrics"
	"pixelfx/pkg/rawio"
	"pixelfx/pkg/visualization"
)

// Params holds the batch parameters.
type Params struct {
	// Inputs lists image files, raw containers or directories of them.
	Inputs []string

	// OutputDir is where filtered files are written.
	OutputDir string

	// Filter is the registered filter name to apply.
	Filter string

	// Area is the mosaic block size.
	Area int

	// NumCores bounds how many files are processed at once.
	NumCores int

	// Format is the output encoder (png, jpeg, gif, bmp, tiff).
	Format string

	// Raw writes zstd-compressed raw containers instead of images.
	Raw bool

	// WorkSuffix is appended to each output file name.
	WorkSuffix string

	// SaveIntermediaryResults dumps the original, filtered and (for
	// smoothing) plane images of every input.
	SaveIntermediaryResults bool

	// IntermediaryDir is where intermediary results are written.
	IntermediaryDir string

	// Metrics computes quality metrics between input and output.
	Metrics bool
}

// Result describes one processed input.
type Result struct {
	Input    string
	Output   string
	Width    int
	Height   int
	Duration time.Duration
	// Quality is nil unless metrics were requested.
	Quality *metrics.Quality
}

// Pipeline filters a batch of images concurrently.
type Pipeline struct {
	params *Params

	mu      sync.Mutex
	results []Result
}

// NewPipeline creates a pipeline with the provided parameters.
func NewPipeline(params *Params) *Pipeline {
	return &Pipeline{params: params}
}

// Process expands the inputs, filters every file and writes the outputs.
// The first failure cancels the remaining work and is returned.
func (p *Pipeline) Process(ctx context.Context) error {
	if _, ok := filter.Lookup(p.params.Filter); !ok {
		return fmt.Errorf("unknown filter %q (available: %v)", p.params.Filter, filter.Names())
	}

	files, err := ExpandInputs(p.params.Inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported input files found")
	}

	outputs := make([]string, len(files))
	claimed := make(map[string]string, len(files))
	for i, file := range files {
		outputs[i] = p.outputPath(file)
		if prev, ok := claimed[outputs[i]]; ok {
			return fmt.Errorf("inputs %s and %s both write %s", prev, file, outputs[i])
		}
		claimed[outputs[i]] = file
	}

	if err := os.MkdirAll(p.params.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if p.params.SaveIntermediaryResults {
		if err := os.MkdirAll(p.params.IntermediaryDir, 0755); err != nil {
			return fmt.Errorf("failed to create intermediary directory: %w", err)
		}
	}

	limit := p.params.NumCores
	if limit <= 0 {
		limit = 1
	}

	logging.Logger().Info("processing batch", "files", len(files), "filter", p.params.Filter, "workers", limit)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := p.processFile(i, file, outputs[i])
			if err != nil {
				return fmt.Errorf("failed to process %s: %w", file, err)
			}

			p.mu.Lock()
			p.results = append(p.results, result)
			p.mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// Results returns the processed files sorted by input path.
func (p *Pipeline) Results() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := append([]Result(nil), p.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].Input < out[j].Input })
	return out
}

// processFile runs the filter over a single input and writes output.
func (p *Pipeline) processFile(index int, path, output string) (Result, error) {
	start := time.Now()

	pixels, width, height, err := loadInput(path)
	if err != nil {
		return Result{}, err
	}

	filtered, err := filter.Apply(p.params.Filter, pixels, width, height, filter.Options{Area: p.params.Area})
	if err != nil {
		return Result{}, err
	}

	if p.params.Raw {
		err = rawio.WriteFile(output, filtered, width, height)
	} else {
		err = imagefile.SavePixels(filtered, width, height, output)
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Input:  path,
		Output: output,
		Width:  width,
		Height: height,
	}

	if p.params.Metrics {
		q, err := metrics.Compare(pixels, filtered)
		if err != nil {
			logging.Logger().Warn("skipping metrics", "input", path, "err", err)
		} else {
			result.Quality = &q
		}
	}

	if p.params.SaveIntermediaryResults {
		if err := p.saveIntermediaryResults(index, path, pixels, filtered, width, height); err != nil {
			logging.Logger().Warn("failed to save intermediary results", "input", path, "err", err)
		}
	}

	result.Duration = time.Since(start)
	logging.Logger().Debug("processed file", "input", path, "output", output, "duration", result.Duration)
	return result, nil
}

// outputPath names the output for an input inside OutputDir.
func (p *Pipeline) outputPath(input string) string {
	ext := rawio.CompressedExtension
	if !p.params.Raw {
		format := p.params.Format
		if format == "" {
			format = "png"
		}
		ext = imagefile.Extension(format)
	}
	return filepath.Join(p.params.OutputDir, stem(input)+p.params.WorkSuffix+ext)
}

// stem returns the file name of path without its image or container
// extension.
func stem(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range []string{rawio.CompressedExtension, rawio.Extension} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// saveIntermediaryResults dumps the stages of one input under
// IntermediaryDir/<stage>.
func (p *Pipeline) saveIntermediaryResults(index int, input string, original, filtered []byte, width, height int) error {
	name := fmt.Sprintf("%03d_%s", index, stem(input))

	stages := []struct {
		dir    string
		pixels []byte
	}{
		{"01_original", original},
		{"02_filtered", filtered},
	}
	for _, stage := range stages {
		path := filepath.Join(p.params.IntermediaryDir, stage.dir, name+".png")
		if err := imagefile.SavePixels(stage.pixels, width, height, path); err != nil {
			return err
		}
	}

	if p.params.Filter == "smoothing" {
		viewer, err := visualization.NewViewerFromPixels(original, width, height)
		if err != nil {
			return err
		}
		if err := viewer.SavePlanes(filepath.Join(p.params.IntermediaryDir, "03_planes"), name); err != nil {
			return err
		}
	}

	return nil
}

// loadInput reads an image file or a raw container.
func loadInput(path string) ([]byte, int, int, error) {
	if isRaw(path) {
		return rawio.ReadFile(path)
	}
	return imagefile.LoadPixels(path)
}

func isRaw(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, rawio.Extension) || strings.HasSuffix(lower, rawio.CompressedExtension)
}

// supported reports whether a file name looks like a pipeline input.
func supported(name string) bool {
	if isRaw(name) {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// ExpandInputs resolves directories into their supported files, ordered by
// the number embedded in each file name and then by name. Explicit file
// arguments are kept as given.
func ExpandInputs(inputs []string) ([]string, error) {
	var files []string

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", input, err)
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input directory %s: %w", input, err)
		}

		var dirFiles []string
		for _, entry := range entries {
			if !entry.IsDir() && supported(entry.Name()) {
				dirFiles = append(dirFiles, entry.Name())
			}
		}

		sort.Slice(dirFiles, func(i, j int) bool {
			numI, numJ := extractNumber(dirFiles[i]), extractNumber(dirFiles[j])
			if numI != numJ {
				return numI < numJ
			}
			return dirFiles[i] < dirFiles[j]
		})

		for _, name := range dirFiles {
			files = append(files, filepath.Join(input, name))
		}
	}

	return files, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}
