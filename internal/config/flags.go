package config

import "flag"

// Flags holds the command-line overrides shared by every terraintool
// command. Zero values leave the loaded configuration untouched.
type Flags struct {
	Config       string
	Debug        bool
	Format       string
	Step         int
	Type         string
	RealUV       bool
	NoTriangles  bool
	SphereRadius float64
	STL          string
	Index        bool
	Workers      int
	SaveConfig   bool
}

// Register binds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Format, "format", "", "Heightmap format: asc, bmp, png, hgt (default: by extension)")
	fs.IntVar(&f.Step, "step", 0, "Decimation step for both axes")
	fs.StringVar(&f.Type, "type", "", "Triangulation type")
	fs.BoolVar(&f.RealUV, "real-uv", false, "Use real texture coordinates")
	fs.BoolVar(&f.NoTriangles, "no-triangles", false, "Load raw grid vertices without triangulating")
	fs.Float64Var(&f.SphereRadius, "sphere-radius", 0, "Project onto a sphere of this radius")
	fs.StringVar(&f.STL, "stl", "", "Write the mesh as binary STL")
	fs.BoolVar(&f.Index, "index", false, "Deduplicate vertices into an indexed mesh")
	fs.IntVar(&f.Workers, "workers", 0, "Batch worker count")
	fs.BoolVar(&f.SaveConfig, "save-config", false, "Save the effective config to the user config directory")
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Format != "" {
		cfg.Terrain.Format = f.Format
	}
	if f.Step > 0 {
		cfg.Terrain.XStep = f.Step
		cfg.Terrain.YStep = f.Step
	}
	if f.Type != "" {
		cfg.Terrain.TriangulationType = f.Type
	}
	if f.RealUV {
		cfg.Terrain.RealTextureCoordinates = true
	}
	if f.NoTriangles {
		cfg.Terrain.Triangulate = false
	}
	if f.SphereRadius > 0 {
		r := float32(f.SphereRadius)
		cfg.Spherical.SphereRadius = &r
	}
	if f.STL != "" {
		cfg.Output.STLPath = f.STL
	}
	if f.Index {
		cfg.Output.IndexVBO = true
	}
	if f.Workers > 0 {
		cfg.Batch.Workers = f.Workers
	}
}
