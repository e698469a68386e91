package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zackbart/codebrowser/internal/browser"
	"github.com/zackbart/codebrowser/internal/config"
	"github.com/zackbart/codebrowser/internal/logging"
	"github.com/zackbart/codebrowser/internal/render"
	"github.com/zackbart/codebrowser/internal/tree"
	"github.com/zackbart/codebrowser/internal/tui"
	"github.com/zackbart/codebrowser/internal/watch"
)

var version = "dev"

type rootOptions struct {
	configPath string
	flags      config.Flags
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "codebrowser [path]",
		Short: "Browse a directory and preview its files in the terminal",
		Long: `codebrowser shows a directory tree next to a preview of the selected file:
source code is highlighted, Markdown is rendered, CSV and parquet files are
shown as tables and images are drawn as ASCII art.

Press t to cycle the theme, f to toggle the file tree and q to quit.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			return runBrowser(cfg, arg)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/codebrowser/config.yaml)")
	opts.flags.Bind(cmd.PersistentFlags())

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newThemesCmd(opts))
	return cmd
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Print the preview of a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			catalog, err := cfg.Catalog()
			if err != nil {
				return err
			}
			log, closer, err := logging.New(cfg.LogFile, cfg.Debug)
			if err != nil {
				return err
			}
			defer closer.Close()

			r := newRenderer(cfg, render.NewTerminalFormatter(width), log)
			res := r.Render(args[0], catalog.Name(0))
			out := res.Styled
			if res.Failed() {
				out = res.Text
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 100, "wrap width for Markdown")
	return cmd
}

func newThemesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the themes in cycling order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			catalog, err := cfg.Catalog()
			if err != nil {
				return err
			}
			for _, name := range catalog.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// loadConfig layers the config file, the environment and the flags set on fs.
func loadConfig(fs *pflag.FlagSet, opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	opts.flags.Apply(cfg, fs)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveTarget turns the path argument into the tree root and an optional
// file to open at start. No argument means the working directory.
func resolveTarget(arg string) (root, preselected string, err error) {
	if arg == "" {
		arg, err = os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("error getting current directory: %w", err)
		}
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("cannot open %s: %w", arg, err)
	}
	if info.IsDir() {
		return abs, "", nil
	}
	return filepath.Dir(abs), abs, nil
}

func newRenderer(cfg *config.Config, f render.Formatter, log *logrus.Logger) *render.Renderer {
	return render.New(f,
		render.WithMaxRows(cfg.TableRows),
		render.WithASCIIColumns(cfg.ASCIIColumns),
		render.WithLogger(log),
	)
}

func runBrowser(cfg *config.Config, arg string) error {
	root, preselected, err := resolveTarget(arg)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	t, err := tree.New(root, tree.Options{ShowHidden: cfg.ShowHidden, Ignore: cfg.Ignore})
	if err != nil {
		return err
	}

	var w *watch.Watcher
	if cfg.Watch {
		w, err = watch.New(log)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	formatter := render.NewTerminalFormatter(80)
	m := tui.New(tui.Options{
		Browser:     browser.New(catalog, browser.Policy{HideTreeOnSelect: cfg.HideTreeOnSelect}),
		Renderer:    newRenderer(cfg, formatter, log),
		Formatter:   formatter,
		Tree:        t,
		Watcher:     w,
		Logger:      log,
		Preselected: preselected,
	})

	log.WithFields(logrus.Fields{
		"root":     root,
		"selected": preselected,
		"themes":   catalog.Names(),
	}).Info("starting")

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
