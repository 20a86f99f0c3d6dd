package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/banshee-data/posemanifest/internal/fsutil"
	"github.com/banshee-data/posemanifest/internal/manifest"
	"github.com/banshee-data/posemanifest/internal/pose"
)

func newInspectCommand() *cobra.Command {
	var showFrames bool

	cmd := &cobra.Command{
		Use:   "inspect <transforms.json>",
		Short: "Summarize and validate a manifest",
		Long: `Loads a manifest, validates every transform_matrix as a rigid transform and
prints the camera trajectory extent. Exits non-zero if any frame is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(fsutil.OSFileSystem{}, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := colorOutput(out)
			summary := m.Summarize()

			fmt.Fprintln(out, renderSummary(summary, colorize))
			if showFrames {
				fmt.Fprintln(out, renderFrames(m, colorize))
			}

			if n := len(summary.InvalidFrames); n > 0 {
				return fmt.Errorf("%s: %d of %d frames have invalid transforms (first: frame %d)",
					args[0], n, summary.Frames, summary.InvalidFrames[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFrames, "frames", false, "Also list every frame")
	return cmd
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatRange(lo, hi float64) string {
	return formatFloat(lo) + " .. " + formatFloat(hi)
}

func renderSummary(s manifest.TrajectorySummary, colorize bool) string {
	invalid := "none"
	if len(s.InvalidFrames) > 0 {
		parts := make([]string, len(s.InvalidFrames))
		for i, idx := range s.InvalidFrames {
			parts[i] = strconv.Itoa(idx)
		}
		invalid = strings.Join(parts, ", ")
	}

	tw := newTable(colorize, table.Row{"Property", "Value"}, 2)
	tw.AppendRows([]table.Row{
		{"Frames", s.Frames},
		{"camera_angle_x (rad)", formatFloat(s.CameraAngleX)},
		{"Horizontal FOV (deg)", formatFloat(s.FOVDegrees())},
		{"Path length", formatFloat(s.PathLength)},
		{"X range", formatRange(s.Min[0], s.Max[0])},
		{"Y range", formatRange(s.Min[1], s.Max[1])},
		{"Z range", formatRange(s.Min[2], s.Max[2])},
		{"Invalid frames", invalid},
	})
	return tw.Render()
}

func renderFrames(m *manifest.Manifest, colorize bool) string {
	tw := newTable(colorize, table.Row{"#", "File", "X", "Y", "Z", "Rigid"}, 1, 3, 4, 5)
	for i, f := range m.Frames {
		t := f.TransformMatrix.Translation()
		rigid := "yes"
		if !pose.IsValidTransform(f.TransformMatrix) {
			rigid = "NO"
			if colorize {
				rigid = text.FgHiRed.Sprint(rigid)
			}
		}
		tw.AppendRow(table.Row{i, f.FilePath, formatFloat(t[0]), formatFloat(t[1]), formatFloat(t[2]), rigid})
	}
	return tw.Render()
}
