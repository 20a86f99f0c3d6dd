package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/posemanifest/internal/fsutil"
	"github.com/banshee-data/posemanifest/internal/manifest"
	"github.com/banshee-data/posemanifest/internal/pose"
)

const samplePoses = `# timestamp tx ty tz qx qy qz qw
0 1.0 2.0 3.0 0.0 0.0 0.0 1.0
1 1.5 2.0 3.0 0.0 0.0 0.0 1.0
2 2.0 2.0 3.0 0.0 0.0 0.7071067811865476 0.7071067811865476
`

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestBuildCommand_Flags(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "groundtruth.txt")
	out := filepath.Join(dir, "transforms.json")
	writeFile(t, poses, samplePoses)

	_, stderr, err := executeCLI(t, "build",
		"--poses", poses,
		"--images", "images",
		"--width", "480",
		"--fx", "447.679079249249",
		"--output", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote 3 frames")

	m, err := manifest.Load(fsutil.OSFileSystem{}, out)
	require.NoError(t, err)
	require.Len(t, m.Frames, 3)
	assert.Equal(t, "images/00000002", m.Frames[2].FilePath)
	assert.InDelta(t, 0.98421504, m.CameraAngleX, 1e-4)
}

func TestBuildCommand_ConfigWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "groundtruth.txt")
	out := filepath.Join(dir, "transforms.json")
	writeFile(t, poses, samplePoses)

	cfgPath := filepath.Join(dir, "build.toml")
	writeFile(t, cfgPath, strings.Join([]string{
		`pose_file = "` + filepath.ToSlash(poses) + `"`,
		`image_dir = "frames"`,
		`output_path = "` + filepath.ToSlash(out) + `"`,
		`image_width = 480`,
		`fx = 400.0`,
		`image_extension = ".png"`,
	}, "\n"))

	_, _, err := executeCLI(t, "build", "--config", cfgPath, "--images", "rgb")
	require.NoError(t, err)

	m, err := manifest.Load(fsutil.OSFileSystem{}, out)
	require.NoError(t, err)
	assert.Equal(t, "rgb/00000000.png", m.Frames[0].FilePath)
	assert.InDelta(t, manifest.CameraAngleX(480, 400), m.CameraAngleX, 1e-12)
}

func TestBuildCommand_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "groundtruth.txt")
	out := filepath.Join(dir, "transforms.json")
	writeFile(t, poses, samplePoses)

	_, stderr, err := executeCLI(t, "build", "--dry-run",
		"--poses", poses, "--images", "images", "--width", "480", "--fx", "450", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "dry run: 3 frames")
	assert.NoFileExists(t, out)
}

func TestBuildCommand_MalformedRecord(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "groundtruth.txt")
	out := filepath.Join(dir, "transforms.json")
	writeFile(t, poses, "0 1 2 3 0 0 0 1\n1 1 2 3 0 0 1\n")

	_, _, err := executeCLI(t, "build",
		"--poses", poses, "--images", "images", "--width", "480", "--fx", "450", "--output", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBuildCommand_StrictFlag(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "groundtruth.txt")
	writeFile(t, poses, "0 1 2 3 0 0 0 2\n")

	_, _, err := executeCLI(t, "build", "--strict",
		"--poses", poses, "--images", "images", "--width", "480", "--fx", "450",
		"--output", filepath.Join(dir, "transforms.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not unit length")
}

func TestBuildCommand_MissingSettings(t *testing.T) {
	_, _, err := executeCLI(t, "build", "--poses", "poses.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required settings")
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "groundtruth.txt")
	out := filepath.Join(dir, "transforms.json")
	writeFile(t, poses, samplePoses)

	_, _, err := executeCLI(t, "build",
		"--poses", poses, "--images", "images", "--width", "480", "--fx", "447.679079249249", "--output", out)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "inspect", "--frames", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Path length")
	assert.Contains(t, stdout, "1.0000")
	assert.Contains(t, stdout, "0.9842")
	assert.Contains(t, stdout, "images/00000001")
	assert.NotContains(t, stdout, "NO")
}

func TestInspectCommand_InvalidFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transforms.json")
	writeFile(t, path, `{"camera_angle_x": 1.0, "frames": [
		{"file_path": "a", "transform_matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]},
		{"file_path": "b", "transform_matrix": [[2,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}
	]}`)

	stdout, _, err := executeCLI(t, "inspect", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 frames")
	assert.Contains(t, stdout, "Invalid frames")
}

func TestInspectCommand_MissingFile(t *testing.T) {
	_, _, err := executeCLI(t, "inspect", filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, manifest.ErrFileNotFound)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "posemanifest "))
}

func TestRenderFrames_MarksNonRigidFrames(t *testing.T) {
	m := &manifest.Manifest{
		CameraAngleX: 1,
		Frames: []manifest.FrameEntry{
			{FilePath: "images/00000000", TransformMatrix: pose.NewTransform(pose.IdentityRotation, [3]float64{1, 2, 3})},
			{FilePath: "images/00000001", TransformMatrix: pose.Transform{}},
		},
	}

	out := renderFrames(m, false)
	lines := strings.Split(out, "\n")
	var rigid, broken string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "images/00000000"):
			rigid = line
		case strings.Contains(line, "images/00000001"):
			broken = line
		}
	}
	assert.Contains(t, rigid, "yes")
	assert.Contains(t, rigid, "3.0000")
	assert.Contains(t, broken, "NO")
	assert.NotContains(t, out, "\x1b[")
}

func TestColorOutput(t *testing.T) {
	assert.False(t, colorOutput(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, colorOutput(f), "regular files are not terminals")
}
