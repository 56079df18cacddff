package annotation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lewtec/segtrack/internal/domain"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

type probe struct {
	config image.Config
	hash   string
	err    error
}

// probeFile reads the image header of path and its sha256 in a single pass
// over the file. Pixels are never decoded.
func probeFile(path string) probe {
	f, err := os.Open(path)
	if err != nil {
		return probe{err: err}
	}
	defer f.Close()
	hasher := sha256.New()
	cfg, _, err := image.DecodeConfig(io.TeeReader(f, hasher))
	if err != nil {
		return probe{err: err}
	}
	if _, err := io.Copy(hasher, f); err != nil {
		return probe{err: err}
	}
	return probe{config: cfg, hash: hex.EncodeToString(hasher.Sum(nil))}
}

// probeFrames decodes and hashes paths with jobs concurrent workers.
func probeFrames(paths []string, jobs int) []probe {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]probe, len(paths))
	queue := make(chan int, 10)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range queue {
			results[i] = probeFile(paths[i])
		}
	}
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go worker()
	}
	for i := range paths {
		queue <- i
	}
	close(queue)
	wg.Wait()
	return results
}

// IngestFrames registers every image of dir, in file name order, as the
// frames of a new stack called name. Files that are not images are
// skipped.
func IngestFrames(ctx context.Context, stacks domain.StackRepository, name, dir string, jobs int) (*domain.Stack, []*domain.Frame, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if info.IsDir() {
			return fmt.Errorf("while checking if item '%s' is a file: frames must be organized in a flat folder structure", path)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)
	probes := probeFrames(paths, jobs)

	stack, err := stacks.CreateStack(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("while creating stack '%s': %w", name, err)
	}
	frames := make([]*domain.Frame, 0, len(paths))
	for i, path := range paths {
		if probes[i].err != nil {
			log.Printf("IngestFrames: skipping '%s': %s", path, probes[i].err)
			continue
		}
		cfg := probes[i].config
		frame, err := stacks.AddFrame(ctx, stack.ID, path, probes[i].hash, cfg.Width, cfg.Height)
		if err != nil {
			return nil, nil, fmt.Errorf("while registering frame '%s': %w", path, err)
		}
		log.Printf("IngestFrames: frame %d is %s (%dx%d)", frame.Index, path, frame.Width, frame.Height)
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		if err := stacks.DeleteStack(ctx, stack.ID); err != nil {
			log.Printf("IngestFrames: while removing empty stack: %s", err)
		}
		return nil, nil, fmt.Errorf("no images found in '%s'", dir)
	}
	return stack, frames, nil
}
