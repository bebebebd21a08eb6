package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/nrz/ylikuutio-sub008/internal/config"
	"github.com/nrz/ylikuutio-sub008/internal/engine/terrain"
	"github.com/nrz/ylikuutio-sub008/internal/logger"
	"github.com/nrz/ylikuutio-sub008/pkg/formats"
)

func writeSRTM(t *testing.T, dir, name string, side int) string {
	t.Helper()
	buf := new(bytes.Buffer)
	for i := 0; i < side*side; i++ {
		binary.Write(buf, binary.BigEndian, int16(i))
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func writeASC(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := "ncols 3\nnrows 3\ncellsize 1\n0 1 2\n3 4 5\n6 7 8\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()

	src, err := load(writeASC(t, dir, "dem.asc"), cfg)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if src.format != formats.FormatASCIIGrid || src.width != 3 || src.height != 3 {
		t.Errorf("unexpected source %+v", src)
	}
	if src.min != 0 || src.max != 8 {
		t.Errorf("range %v..%v, want 0..8", src.min, src.max)
	}

	// An explicit format overrides the extension.
	cfg.Terrain.Format = "hgt"
	path := writeSRTM(t, dir, "tile.bin", 3)
	if src, err = load(path, cfg); err != nil || src.format != formats.FormatSRTM {
		t.Errorf("load with -format hgt = %v, %v", src, err)
	}

	cfg.Terrain.Format = ""
	if _, err := load(path, cfg); !errors.Is(err, formats.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestOptions_SRTMBoundsFromName(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()

	src, err := load(writeSRTM(t, dir, "S33W071.hgt", 5), cfg)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	opts, err := options(src, cfg)
	if err != nil {
		t.Fatalf("options failed: %v", err)
	}
	want := terrain.SphericalBounds{
		SouthernLatitude:     -33,
		NorthernLatitude:     -32,
		WesternLongitude:     -71,
		EasternLongitude:     -70,
		LatitudeStepDegrees:  0.25,
		LongitudeStepDegrees: 0.25,
	}
	if opts.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", opts.Bounds, want)
	}

	// Configured bounds win over the tile name.
	cfg.Spherical.SouthernLatitude = -0.5
	if opts, _ = options(src, cfg); opts.Bounds.SouthernLatitude != -0.5 {
		t.Errorf("expected configured bounds, got %+v", opts.Bounds)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	path := writeASC(t, dir, "dem.asc")

	cfg := config.Default()
	_, mesh, err := build(path, cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if mesh.TriangleCount() != 16 {
		t.Errorf("expected 16 triangles, got %d", mesh.TriangleCount())
	}

	cfg.Terrain.Triangulate = false
	if _, mesh, err = build(path, cfg); err != nil || mesh.VertexCount() != 9 {
		t.Errorf("raw build = %v vertices, %v", mesh, err)
	}

	cfg.Terrain.Triangulate = true
	cfg.Terrain.TriangulationType = "southwest_northeast_edges"
	if _, _, err := build(path, cfg); !errors.Is(err, terrain.ErrUnsupportedTriangulation) {
		t.Errorf("expected ErrUnsupportedTriangulation, got %v", err)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	paths := []string{
		writeASC(t, dir, "a.asc"),
		filepath.Join(dir, "missing.asc"),
		writeSRTM(t, dir, "N60E024.hgt", 4),
		filepath.Join(dir, "notes.txt"),
	}

	cfg := config.Default()
	cfg.Batch.Workers = 3
	cfg.Output.IndexVBO = true
	cfg.Output.STLPath = out

	results, err := runBatch(paths, cfg)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", got, err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}

	for i, r := range results {
		if r.path != paths[i] {
			t.Errorf("result %d is %s, want %s", i, r.path, paths[i])
		}
	}
	if results[0].err != nil || results[2].err != nil {
		t.Errorf("good files failed: %v, %v", results[0].err, results[2].err)
	}
	if results[1].err == nil || results[3].err == nil {
		t.Error("bad files succeeded")
	}
	if results[0].vertices >= 48 || results[0].triangles != 16 {
		t.Errorf("expected indexed vertices below 48 and 16 triangles, got %+v", results[0])
	}

	for _, name := range []string{"a.stl", "N60E024.stl"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestRunBatch_AllGood(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.asc", "b.asc", "c.asc", "d.asc", "e.asc"} {
		paths = append(paths, writeASC(t, dir, name))
	}

	cfg := config.Default()
	cfg.Batch.Workers = 0
	results, err := runBatch(paths, cfg)
	if err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}
	for _, r := range results {
		if !strings.HasSuffix(r.path, ".asc") || r.triangles != 16 {
			t.Errorf("unexpected result %+v", r)
		}
	}
}

// isolateConfig keeps setup away from any real config file.
func isolateConfig(t *testing.T) string {
	t.Helper()
	origDir, _ := os.Getwd()
	t.Cleanup(func() {
		os.Chdir(origDir)
		logger.Set(nil)
	})
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	os.Chdir(t.TempDir())
	return xdg
}

func TestSetup_FlagErrors(t *testing.T) {
	isolateConfig(t)

	if _, _, err := setup("mesh", []string{"-no-such-flag", "dem.asc"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, _, err := setup("mesh", []string{"-step", "two"}); err == nil {
		t.Error("expected error for non-numeric step")
	}
	if _, _, err := setup("mesh", []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}

	cfg, fs, err := setup("mesh", []string{"-step", "3", "dem.asc"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if cfg.Terrain.XStep != 3 || fs.Arg(0) != "dem.asc" {
		t.Errorf("unexpected step %d and arg %q", cfg.Terrain.XStep, fs.Arg(0))
	}
}

func TestSetup_SaveConfig(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config directory ignores XDG_CONFIG_HOME on this OS")
	}
	xdg := isolateConfig(t)

	if _, _, err := setup("info", []string{"-save-config", "-step", "4"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(xdg, "terraintool", "config.yaml"))
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if !strings.Contains(string(data), "x_step: 4") {
		t.Errorf("saved config lacks the flag override:\n%s", data)
	}

	// The saved file is picked up by the next run.
	cfg, _, err := setup("info", nil)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if cfg.Terrain.XStep != 4 {
		t.Errorf("expected x_step 4 from saved config, got %d", cfg.Terrain.XStep)
	}
}
