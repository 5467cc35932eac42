package bbmod

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
	"gopkg.in/yaml.v2"
)

// Config controls the conversion. It is not modified by the converter.
type Config struct {
	LeftHanded     bool `yaml:"left_handed"`
	InvertWinding  bool `yaml:"invert_winding"`
	DisableNormals bool `yaml:"disable_normals"`
	// texture coordinate channel 0
	DisableTextureCoords bool `yaml:"disable_uv"`
	DisableVertexColors  bool `yaml:"disable_colors"`
	DisableTangentW      bool `yaml:"disable_tangents"`
	DisableBones         bool `yaml:"disable_bones"`

	FlipTextureHorizontally bool `yaml:"flip_uv_x"`
	FlipTextureVertically   bool `yaml:"flip_uv_y"`
	FlipNormals             bool `yaml:"flip_normals"`

	GenNormals scene.NormalsMode `yaml:"gen_normals"`
	// applied to positions (w=1) and directions (w=0)
	Transform geom.Matrix4 `yaml:"transform,flow"`

	// StrictVertexFormat makes meshes that don't match the first mesh's
	// attributes an error instead of a warning.
	StrictVertexFormat bool `yaml:"strict_vertex_format"`
}

func DefaultConfig() *Config {
	return &Config{
		LeftHanded:            true,
		DisableVertexColors:   true,
		FlipTextureVertically: true,
		GenNormals:            scene.NormalsSmooth,
		Transform:             geom.IdentityMatrix4(),
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if conf.GenNormals < scene.NormalsNone || conf.GenNormals > scene.NormalsSmooth {
		return nil, fmt.Errorf("parsing %s: invalid gen_normals %d", path, conf.GenNormals)
	}
	return conf, nil
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
