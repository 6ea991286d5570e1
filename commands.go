package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/session"
	"github.com/olivier-w/specviz/internal/util"
	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(a.presets))
			return nil
		},
	}
}

func presetTable(presets []config.Preset) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TITLE", "FILE", "COLOR")
	for i, p := range presets {
		t.Row(strconv.Itoa(i+1), p.Title, p.File, p.Color)
	}
	return t.Render()
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Decode and analyze a file without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.Open(cmd.Context(), a.options(target{path: args[0]}))
			if err != nil {
				return err
			}
			defer sess.Close()

			writeSummary(cmd, sess.Summary())
			return nil
		},
	}
}

func writeSummary(cmd *cobra.Command, s session.Summary) {
	out := cmd.OutOrStdout()
	format := s.Format
	if s.Transcoded {
		format += " (via ffmpeg)"
	}
	fmt.Fprintf(out, "title:       %s\n", s.Title)
	fmt.Fprintf(out, "file:        %s\n", s.Path)
	fmt.Fprintf(out, "format:      %s\n", format)
	fmt.Fprintf(out, "sample rate: %d Hz\n", s.SampleRate)
	fmt.Fprintf(out, "channels:    %d\n", s.Channels)
	fmt.Fprintf(out, "duration:    %s (%.3fs)\n", util.FormatSeconds(s.Duration), s.Duration)
	fmt.Fprintf(out, "chunk/hop:   %d/%d\n", s.ChunkSize, s.Hop)
	fmt.Fprintf(out, "frames:      %d x %d bins\n", s.Frames, s.Bins)
	fmt.Fprintf(out, "peak bin:    %d (%.1f Hz)\n", s.PeakBin, s.PeakHz)
}
