// terraintool loads heightmaps and triangulates them into terrain meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nrz/ylikuutio-sub008/internal/config"
	"github.com/nrz/ylikuutio-sub008/internal/engine/terrain"
	"github.com/nrz/ylikuutio-sub008/internal/export"
	"github.com/nrz/ylikuutio-sub008/internal/logger"
	"github.com/nrz/ylikuutio-sub008/pkg/vbo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "mesh":
		err = cmdMesh(args, true)
	case "raw":
		err = cmdMesh(args, false)
	case "preview":
		err = cmdPreview(args)
	case "batch":
		err = cmdBatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - heightmap triangulation utility

Usage:
  terraintool <command> [options]

Commands:
  info <file>               Show heightmap dimensions and sample range
  mesh <file>               Triangulate and report vertex counts
  raw <file>                Load grid vertices without triangulating
  preview <file> <out.png>  Render a colour relief image
  batch <files...>          Triangulate several files in parallel

Options (all commands):
  -config <path>       Config file (default: ./terraintool.yaml)
  -format <name>       asc, bmp, png or hgt (default: by extension)
  -step <n>            Decimation step
  -type <name>         bilinear_interpolation, southeast_northwest_edges
  -real-uv             Real texture coordinates
  -sphere-radius <r>   Project onto a sphere
  -stl <path>          Write binary STL (mesh)
  -index               Deduplicate vertices (mesh, batch)
  -workers <n>         Batch worker count
  -save-config         Save the effective config to the user config directory
  -debug               Debug logging

Examples:
  terraintool info N60E024.hgt
  terraintool mesh -step 4 -stl tile.stl N60E024.hgt
  terraintool preview dem.asc relief.png
  terraintool batch -workers 8 tiles/*.hgt`)
}

// setup parses the shared flags, loads the config and starts logging.
func setup(name string, args []string) (*config.Config, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var flags config.Flags
	flags.Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(&flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	if flags.SaveConfig {
		if err := cfg.Save(); err != nil {
			return nil, nil, fmt.Errorf("saving config: %w", err)
		}
		logger.Info("saved config", zap.String("dir", config.ConfigDir()))
	}
	return cfg, fs, nil
}

func cmdInfo(args []string) error {
	cfg, fs, err := setup("info", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terraintool info <file>")
	}

	src, err := load(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("File:      %s\n", src.path)
	fmt.Printf("Format:    %s\n", src.format)
	fmt.Printf("Size:      %dx%d\n", src.width, src.height)
	fmt.Printf("Range:     %g .. %g\n", src.min, src.max)
	xs, ys := cfg.Terrain.XStep, cfg.Terrain.YStep
	if xs < 1 || ys < 1 {
		return fmt.Errorf("%w: step %d,%d", terrain.ErrInvalidGridDimensions, xs, ys)
	}
	fmt.Printf("Decimated: %dx%d (step %d,%d)\n", (src.width-1)/xs+1, (src.height-1)/ys+1, xs, ys)
	return nil
}

func cmdMesh(args []string, triangulate bool) error {
	name := "mesh"
	if !triangulate {
		name = "raw"
	}
	cfg, fs, err := setup(name, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terraintool %s <file>", name)
	}
	if !triangulate {
		cfg.Terrain.Triangulate = false
	}

	_, mesh, err := build(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Vertices:  %d\n", mesh.VertexCount())
	fmt.Printf("Triangles: %d\n", mesh.TriangleCount())
	fmt.Printf("Bounds:    %v .. %v\n", mesh.Bounds.Min, mesh.Bounds.Max)

	if cfg.Output.IndexVBO {
		indexed, err := vbo.IndexVBO(mesh.Positions, mesh.UVs, mesh.Normals)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed:   %d unique vertices (%.1f%% fewer)\n", len(indexed.Positions), indexed.Reduction()*100)
	}

	if cfg.Output.STLPath != "" {
		if err := export.WriteSTL(cfg.Output.STLPath, mesh); err != nil {
			return err
		}
		logger.Info("exported mesh", zap.String("stl", cfg.Output.STLPath))
		fmt.Printf("Wrote:     %s\n", cfg.Output.STLPath)
	}
	return nil
}

func cmdPreview(args []string) error {
	cfg, fs, err := setup("preview", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: terraintool preview <file> <out.png>")
	}

	src, err := load(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("creating preview: %w", err)
	}
	if err := export.RenderPreview(out, src.floats(), src.width, src.height); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing preview: %w", err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", fs.Arg(1), src.width, src.height)
	return nil
}

func cmdBatch(args []string) error {
	cfg, fs, err := setup("batch", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terraintool batch <files...>")
	}

	results, err := runBatch(fs.Args(), cfg)
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("  FAIL %s\n", r.path)
			continue
		}
		fmt.Printf("  ok   %-40s %8d vertices %8d triangles\n", r.path, r.vertices, r.triangles)
	}
	return err
}
