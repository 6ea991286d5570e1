package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/logging"
	"github.com/olivier-w/specviz/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configFile string
	title      string
	color      string
	preset     string

	v        *viper.Viper
	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error
	presets  []config.Preset
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"backend":    "display.backend",
	"fps":        "display.fps",
	"alpha":      "smoothing.alpha",
	"chunk-size": "analysis.chunk_size",
	"workers":    "analysis.workers",
	"log-file":   "log.file",
	"log-level":  "log.level",
	"presets":    "presets_file",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "specviz [file]",
		Short: "Play an audio file with a live frequency spectrum",
		Long: `specviz decodes an audio file, precomputes its spectrum and plays it
while drawing the spectrum as bars in sync with playback.

Without a file or --preset, a menu of presets and audio files in the
current directory is shown; it returns after each track until you quit.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVisualize(cmd.Context(), args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./specviz.yaml or $HOME/.config/specviz/specviz.yaml)")
	pf.Int("chunk-size", 1024, "analysis window in samples (power of two)")
	pf.Int("workers", 0, "frame analysis workers (0 = all CPUs)")
	pf.String("log-file", "", "write JSON logs to this file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("presets", "", "preset catalog YAML (default built-in)")

	f := root.Flags()
	f.StringVar(&a.title, "title", "", "title shown above the bars (default tag title or file name)")
	f.StringVar(&a.color, "color", "", "bar color as #rrggbb or r,g,b")
	f.StringVarP(&a.preset, "preset", "p", "", "preset number or title")
	f.StringP("backend", "b", "terminal", "display backend: terminal, window or headless")
	f.Float64("alpha", 0.1, "temporal smoothing factor in (0,1]")
	f.Int("fps", 60, "frames per second")

	root.AddCommand(newPresetsCmd(a), newAnalyzeCmd(a))
	return root
}

// setup loads configuration with flag overrides and opens the logger.
func (a *app) setup(flags *pflag.FlagSet) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if fl := flags.Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.v, a.cfg, a.presets = v, cfg, presets
	a.log, a.closeLog = logger, closeLog
	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug("config loaded", zap.String("file", used))
	}
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

// target is one track to visualize.
type target struct {
	path  string
	title string
	color string
}

func (a *app) options(t target) session.Options {
	title, color := t.title, t.color
	if a.title != "" {
		title = a.title
	}
	if a.color != "" {
		color = a.color
	}
	return session.Options{
		Path:     t.path,
		Title:    title,
		BarColor: color,
		Config:   a.cfg,
		Logger:   a.log,
	}
}

// findPreset resolves a 1-based index or a case-insensitive title.
func findPreset(presets []config.Preset, key string) (config.Preset, error) {
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > len(presets) {
			return config.Preset{}, fmt.Errorf("preset %d out of range (1-%d)", n, len(presets))
		}
		return presets[n-1], nil
	}
	for _, p := range presets {
		if strings.EqualFold(p.Title, key) {
			return p, nil
		}
	}
	return config.Preset{}, fmt.Errorf("unknown preset %q", key)
}
