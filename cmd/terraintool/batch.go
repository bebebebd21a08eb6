package main

import (
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nrz/ylikuutio-sub008/internal/config"
	"github.com/nrz/ylikuutio-sub008/internal/export"
	"github.com/nrz/ylikuutio-sub008/internal/logger"
	"github.com/nrz/ylikuutio-sub008/pkg/vbo"
)

type batchResult struct {
	path      string
	vertices  int
	triangles int
	err       error
}

// runBatch triangulates every path on cfg.Batch.Workers goroutines.
// Results keep the input order. A failing file is recorded and the rest
// still run; the returned error combines every failure.
func runBatch(paths []string, cfg *config.Config) ([]batchResult, error) {
	log := logger.Named("batch")

	workers := cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]batchResult, len(paths))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := processOne(paths[i], cfg)
				results[i] = r
				if r.err != nil {
					log.Warn("file failed", zap.String("path", r.path), zap.Error(r.err))
					mu.Lock()
					errs = multierr.Append(errs, r.err)
					mu.Unlock()
					continue
				}
				log.Debug("file done", zap.String("path", r.path), zap.Int("triangles", r.triangles))
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	log.Info("batch finished",
		zap.Int("files", len(paths)),
		zap.Int("failed", len(multierr.Errors(errs))),
		zap.Int("workers", workers))
	return results, errs
}

func processOne(path string, cfg *config.Config) batchResult {
	r := batchResult{path: path}

	_, mesh, err := build(path, cfg)
	if err != nil {
		r.err = err
		return r
	}
	r.vertices = mesh.VertexCount()
	r.triangles = mesh.TriangleCount()

	if cfg.Output.IndexVBO {
		indexed, err := vbo.IndexVBO(mesh.Positions, mesh.UVs, mesh.Normals)
		if err != nil {
			r.err = err
			return r
		}
		r.vertices = len(indexed.Positions)
	}

	if cfg.Output.STLPath != "" {
		stl := batchSTLPath(cfg.Output.STLPath, path)
		if err := export.WriteSTL(stl, mesh); err != nil {
			r.err = err
		}
	}
	return r
}

// batchSTLPath places one STL per input inside dir.
func batchSTLPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".stl")
}
