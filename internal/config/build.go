package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/banshee-data/posemanifest/internal/pose"
)

// DefaultOutputPath is where the manifest is written when no output path
// is configured.
const DefaultOutputPath = "transforms.json"

// maxConfigFileSize caps config files read from disk.
const maxConfigFileSize = 1 * 1024 * 1024

// BuildConfig carries every path and camera intrinsic the manifest builder
// needs. Fields are pointers so a partial file can be layered under CLI
// flags; the Get* methods supply defaults for anything left unset.
type BuildConfig struct {
	// Inputs
	PoseFile *string `json:"pose_file,omitempty" toml:"pose_file,omitempty"`
	ImageDir *string `json:"image_dir,omitempty" toml:"image_dir,omitempty"`

	// Output
	OutputPath     *string `json:"output_path,omitempty" toml:"output_path,omitempty"`
	ImageExtension *string `json:"image_extension,omitempty" toml:"image_extension,omitempty"` // e.g. ".png"; empty keeps bare frame names

	// Camera intrinsics (pixels)
	ImageWidth *int     `json:"image_width,omitempty" toml:"image_width,omitempty"`
	Fx         *float64 `json:"fx,omitempty" toml:"fx,omitempty"`
	Cx         *float64 `json:"cx,omitempty" toml:"cx,omitempty"`

	// Conversion policy
	QuaternionPolicy *string `json:"quaternion_policy,omitempty" toml:"quaternion_policy,omitempty"` // "normalize" or "strict"
	Basis            *string `json:"basis,omitempty" toml:"basis,omitempty"`                         // "opencv_to_blender" or "none"
}

// Settings is a fully resolved BuildConfig.
type Settings struct {
	PoseFile         string
	ImageDir         string
	OutputPath       string
	ImageExtension   string
	ImageWidth       int
	Fx               float64
	Cx               float64
	QuaternionPolicy pose.QuaternionPolicy
	Basis            pose.BasisChange
}

// Helper functions to create pointers
func String(v string) *string    { return &v }
func Int(v int) *int             { return &v }
func Float64(v float64) *float64 { return &v }

// LoadBuildConfig loads a BuildConfig from a .json or .toml file.
// Fields omitted from the file stay nil, so partial configs are safe.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".toml" {
		return nil, fmt.Errorf("config file must have .json or .toml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &BuildConfig{}
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Merge returns a copy of c with every field set in override replacing
// the corresponding field of c.
func (c *BuildConfig) Merge(override *BuildConfig) *BuildConfig {
	out := *c
	if override == nil {
		return &out
	}
	if override.PoseFile != nil {
		out.PoseFile = override.PoseFile
	}
	if override.ImageDir != nil {
		out.ImageDir = override.ImageDir
	}
	if override.OutputPath != nil {
		out.OutputPath = override.OutputPath
	}
	if override.ImageExtension != nil {
		out.ImageExtension = override.ImageExtension
	}
	if override.ImageWidth != nil {
		out.ImageWidth = override.ImageWidth
	}
	if override.Fx != nil {
		out.Fx = override.Fx
	}
	if override.Cx != nil {
		out.Cx = override.Cx
	}
	if override.QuaternionPolicy != nil {
		out.QuaternionPolicy = override.QuaternionPolicy
	}
	if override.Basis != nil {
		out.Basis = override.Basis
	}
	return &out
}

// Validate checks that the values that are set are usable. It does not
// require any field to be present; see Resolve.
func (c *BuildConfig) Validate() error {
	if c.ImageWidth != nil && *c.ImageWidth <= 0 {
		return fmt.Errorf("image_width must be positive, got %d", *c.ImageWidth)
	}
	if c.Fx != nil && !(*c.Fx > 0) {
		return fmt.Errorf("fx must be positive, got %g", *c.Fx)
	}
	if c.PoseFile != nil && *c.PoseFile == "" {
		return errors.New("pose_file must not be empty")
	}
	if c.ImageDir != nil && *c.ImageDir == "" {
		return errors.New("image_dir must not be empty")
	}
	if c.OutputPath != nil && *c.OutputPath == "" {
		return errors.New("output_path must not be empty")
	}
	if c.QuaternionPolicy != nil {
		if _, err := pose.ParseQuaternionPolicy(*c.QuaternionPolicy); err != nil {
			return err
		}
	}
	if c.Basis != nil {
		if _, err := pose.ParseBasisChange(*c.Basis); err != nil {
			return err
		}
	}
	return nil
}

// Resolve validates c, checks that every required field is present and
// returns the effective settings.
func (c *BuildConfig) Resolve() (Settings, error) {
	if err := c.Validate(); err != nil {
		return Settings{}, err
	}

	var missing []string
	if c.PoseFile == nil {
		missing = append(missing, "pose_file")
	}
	if c.ImageDir == nil {
		missing = append(missing, "image_dir")
	}
	if c.ImageWidth == nil {
		missing = append(missing, "image_width")
	}
	if c.Fx == nil {
		missing = append(missing, "fx")
	}
	if len(missing) > 0 {
		return Settings{}, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	policy, _ := pose.ParseQuaternionPolicy(c.GetQuaternionPolicy())
	basis, _ := pose.ParseBasisChange(c.GetBasis())

	return Settings{
		PoseFile:         *c.PoseFile,
		ImageDir:         *c.ImageDir,
		OutputPath:       c.GetOutputPath(),
		ImageExtension:   c.GetImageExtension(),
		ImageWidth:       *c.ImageWidth,
		Fx:               *c.Fx,
		Cx:               c.GetCx(),
		QuaternionPolicy: policy,
		Basis:            basis,
	}, nil
}

// GetOutputPath returns the output_path value or the default.
func (c *BuildConfig) GetOutputPath() string {
	if c.OutputPath == nil {
		return DefaultOutputPath
	}
	return *c.OutputPath
}

// GetImageExtension returns the image_extension value or the default.
func (c *BuildConfig) GetImageExtension() string {
	if c.ImageExtension == nil {
		return "" // default
	}
	return *c.ImageExtension
}

// GetCx returns the cx value or the default.
func (c *BuildConfig) GetCx() float64 {
	if c.Cx == nil {
		return 0
	}
	return *c.Cx
}

// GetQuaternionPolicy returns the quaternion_policy value or the default.
func (c *BuildConfig) GetQuaternionPolicy() string {
	if c.QuaternionPolicy == nil {
		return string(pose.PolicyNormalize)
	}
	return *c.QuaternionPolicy
}

// GetBasis returns the basis value or the default.
func (c *BuildConfig) GetBasis() string {
	if c.Basis == nil {
		return pose.OpenCVToBlender.Name
	}
	return *c.Basis
}
