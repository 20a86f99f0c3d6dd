package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/posemanifest/internal/config"
	"github.com/banshee-data/posemanifest/internal/fsutil"
	"github.com/banshee-data/posemanifest/internal/manifest"
	"github.com/banshee-data/posemanifest/internal/pose"
)

type buildFlags struct {
	configPath string
	poseFile   string
	imageDir   string
	output     string
	extension  string
	basis      string
	width      int
	fx         float64
	cx         float64
	strict     bool
	dryRun     bool
}

func newBuildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Convert a pose log into a transforms.json manifest",
		Long: `Reads a pose log with one "index tx ty tz qx qy qz qw" record per line,
converts each pose to a 4x4 camera-to-world transform in the Blender/NeRF
camera convention and writes the manifest atomically.

Settings come from --config (JSON or TOML) and are overridden by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runBuild(cmd, settings, f.dryRun)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Build configuration file (.json or .toml)")
	flags.StringVar(&f.poseFile, "poses", "", "Pose log path")
	flags.StringVar(&f.imageDir, "images", "", "Image directory prefix for frame file paths")
	flags.StringVarP(&f.output, "output", "o", "", "Manifest output path (default "+config.DefaultOutputPath+")")
	flags.StringVar(&f.extension, "ext", "", "Suffix appended to frame file paths, e.g. .png")
	flags.StringVar(&f.basis, "basis", "", "Camera basis change: opencv_to_blender or none")
	flags.IntVar(&f.width, "width", 0, "Image width in pixels")
	flags.Float64Var(&f.fx, "fx", 0, "Horizontal focal length in pixels")
	flags.Float64Var(&f.cx, "cx", 0, "Horizontal principal point in pixels")
	flags.BoolVar(&f.strict, "strict", false, "Reject non-unit quaternions instead of normalizing them")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Build and summarize without writing the manifest")

	return cmd
}

// resolve layers explicitly set flags over the optional config file.
func (f *buildFlags) resolve(cmd *cobra.Command) (config.Settings, error) {
	base := &config.BuildConfig{}
	if f.configPath != "" {
		loaded, err := config.LoadBuildConfig(f.configPath)
		if err != nil {
			return config.Settings{}, err
		}
		base = loaded
	}

	flags := cmd.Flags()
	override := &config.BuildConfig{}
	if flags.Changed("poses") {
		override.PoseFile = config.String(f.poseFile)
	}
	if flags.Changed("images") {
		override.ImageDir = config.String(f.imageDir)
	}
	if flags.Changed("output") {
		override.OutputPath = config.String(f.output)
	}
	if flags.Changed("ext") {
		override.ImageExtension = config.String(f.extension)
	}
	if flags.Changed("basis") {
		override.Basis = config.String(f.basis)
	}
	if flags.Changed("width") {
		override.ImageWidth = config.Int(f.width)
	}
	if flags.Changed("fx") {
		override.Fx = config.Float64(f.fx)
	}
	if flags.Changed("cx") {
		override.Cx = config.Float64(f.cx)
	}
	if flags.Changed("strict") {
		policy := pose.PolicyNormalize
		if f.strict {
			policy = pose.PolicyStrict
		}
		override.QuaternionPolicy = config.String(string(policy))
	}

	settings, err := base.Merge(override).Resolve()
	if err != nil {
		return config.Settings{}, fmt.Errorf("build configuration: %w", err)
	}
	return settings, nil
}

func runBuild(cmd *cobra.Command, settings config.Settings, dryRun bool) error {
	logger := commandLogger(cmd)
	builder := manifest.NewBuilder(settings, fsutil.OSFileSystem{})

	var (
		m   *manifest.Manifest
		err error
	)
	if dryRun {
		m, err = builder.Build()
	} else {
		m, err = builder.Run()
	}
	if err != nil {
		return err
	}

	if len(m.Frames) == 0 {
		logger.Printf("warning: %s contains no pose records", settings.PoseFile)
	}
	if dryRun {
		logger.Printf("dry run: %d frames from %s (camera_angle_x=%.6f rad, basis=%s)",
			len(m.Frames), settings.PoseFile, m.CameraAngleX, settings.Basis)
		return nil
	}
	logger.Printf("wrote %d frames to %s (camera_angle_x=%.6f rad, basis=%s)",
		len(m.Frames), settings.OutputPath, m.CameraAngleX, settings.Basis)
	return nil
}
