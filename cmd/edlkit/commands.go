package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
	"github.com/tsawler/edlkit/schema"
	"github.com/tsawler/edlkit/substitute"
	"github.com/tsawler/edlkit/titlebar"
	"github.com/tsawler/edlkit/transform"
	"github.com/tsawler/edlkit/writer"
)

func newResizeCmd(a *app) *cobra.Command {
	var (
		scale, scaleX, scaleY float64
		width, height         int
		rounding              string
		noSnap                bool
	)

	cmd := &cobra.Command{
		Use:   "resize [files...]",
		Short: "Scale displays",
		Long: `Scale every widget of a display, including nested groups, and its canvas.
Fonts scale by the geometric mean of the two factors and snap to the EDM font sizes.`,
		Example: `  edlkit resize --scale 1.5 -o large.edl motor.edl
  edlkit resize --width 800 --height 600 -i *.edl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			toSize := flags.Changed("width") || flags.Changed("height")
			byScale := flags.Changed("scale") || flags.Changed("scale-x") || flags.Changed("scale-y")
			switch {
			case toSize && byScale:
				return errors.New("use either --width/--height or a scale")
			case toSize && (width <= 0 || height <= 0):
				return errors.New("--width and --height are both required and must be positive")
			case !toSize && !byScale:
				return errors.New("nothing to do: give --scale, --scale-x/--scale-y or --width/--height")
			}
			if !flags.Changed("scale-x") {
				scaleX = scale
			}
			if !flags.Changed("scale-y") {
				scaleY = scale
			}

			policy := a.cfg.Rounding()
			if rounding != "" {
				var err error
				if policy, err = transform.ParseRounding(rounding); err != nil {
					return err
				}
			}

			return a.run(cmd.Context(), "resize", args, a.cfg.Concurrency, func(ctx context.Context, path string, _ zerolog.Logger) ([]byte, []model.Warning, error) {
				e := a.editor(ctx, path).Rounding(policy)
				if noSnap {
					e = e.SnapFonts(false)
				}
				if toSize {
					e = e.ResizeTo(width, height)
				} else {
					e = e.Resize(scaleX, scaleY)
				}
				return e.Bytes()
			})
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 1, "scale factor for both axes")
	cmd.Flags().Float64Var(&scaleX, "scale-x", 1, "horizontal scale factor")
	cmd.Flags().Float64Var(&scaleY, "scale-y", 1, "vertical scale factor")
	cmd.Flags().IntVar(&width, "width", 0, "new canvas width")
	cmd.Flags().IntVar(&height, "height", 0, "new canvas height")
	cmd.Flags().StringVar(&rounding, "rounding", "", "half-away-from-zero, half-even or truncate (default from config)")
	cmd.Flags().BoolVar(&noSnap, "no-snap-fonts", false, "round font sizes instead of snapping to EDM sizes")
	return cmd
}

func newFlipCmd(a *app) *cobra.Command {
	var (
		keepGroups bool
		paths      []string
	)

	cmd := &cobra.Command{
		Use:   "flip [files...]",
		Short: "Mirror displays horizontally",
		Long: `Mirror every widget about the vertical centre line of the canvas.
With --paths, images and symbols are swapped for their mirrored variants
(arrow.png and arrow-flipped.png, valve-symbol and valve-flipped-symbol)
when the variant exists in one of the listed directories.`,
		Example: `  edlkit flip -o left.edl right.edl
  edlkit flip --paths .:/opt/symbols -i beamline.edl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dirs []string
			for _, p := range paths {
				dirs = append(dirs, filepath.SplitList(p)...)
			}
			return a.run(cmd.Context(), "flip", args, a.cfg.Concurrency, func(ctx context.Context, path string, _ zerolog.Logger) ([]byte, []model.Warning, error) {
				e := a.editor(ctx, path)
				if keepGroups {
					e = e.KeepGroupsIntact()
				}
				if len(dirs) > 0 {
					e = e.FlippedVariants(dirs...)
				}
				return e.Flip().Bytes()
			})
		},
	}
	cmd.Flags().BoolVar(&keepGroups, "keep-groups", false, "move groups without mirroring their contents")
	cmd.Flags().StringArrayVarP(&paths, "paths", "p", nil, "colon separated directories holding mirrored images and symbols (repeatable)")
	return cmd
}

func newSubstituteCmd(a *app) *cobra.Command {
	var (
		rulesFile string
		maps      []string
		macros    []string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "substitute [files...]",
		Short: "Rewrite the displays embedded windows point to",
		Long: `Rewrite embedded window references and their macros from a rule file
and --map/--macro flags. With --recursive the referenced displays are opened and
rewritten too, following references from file to file.`,
		Example: `  edlkit substitute --map old-valve.edl=valve.edl -i motor.edl
  edlkit substitute --rules site.yaml --recursive --dry-run top.edl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.loadRules(rulesFile, maps, macros)
			if err != nil {
				return err
			}

			if !recursive {
				return a.run(cmd.Context(), "substitute", args, a.cfg.Concurrency, func(ctx context.Context, path string, _ zerolog.Logger) ([]byte, []model.Warning, error) {
					return a.editor(ctx, path).Substitute(rules).Bytes()
				})
			}

			// Recursive runs touch shared files, so one input at a time.
			return a.run(cmd.Context(), "substitute", args, 1, func(ctx context.Context, path string, log zerolog.Logger) ([]byte, []model.Warning, error) {
				doc, err := reader.ParseFile(path, reader.WithEncoding(a.enc))
				if err != nil {
					return nil, nil, err
				}
				res, err := a.engine(rules, log).ApplyRecursive(ctx, doc, path)
				warnings, err := referenceWarnings(err)
				if res != nil {
					warnings = append(res.Warnings, warnings...)
					log.Info().
						Str("file", path).
						Int("rewritten", res.Rewritten).
						Int("visited", len(res.Visited)).
						Strs("written", res.Written).
						Msg("substitution done")
					if a.dryRun {
						// the input itself is diffed by process
						for _, c := range res.Changes {
							diff, err := unifiedDiff(c.Path, c.Before, c.After, a.enc)
							if err != nil {
								return nil, warnings, err
							}
							a.print(diff)
						}
					}
				}
				if err != nil {
					if res != nil && len(res.Written) > 0 {
						log.Error().Err(err).Str("file", path).Strs("written", res.Written).Msg("substitution stopped")
						return nil, warnings, fmt.Errorf("%w; already written: %s", err, strings.Join(res.Written, ", "))
					}
					return nil, warnings, err
				}
				data, err := writer.Bytes(doc, a.enc)
				return data, warnings, err
			})
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule file (default from config)")
	cmd.Flags().StringArrayVar(&maps, "map", nil, "path rule FROM=TO (repeatable)")
	cmd.Flags().StringArrayVar(&macros, "macro", nil, "macro rule NAME=VALUE or NAME:MATCH=VALUE (repeatable)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "also rewrite referenced displays")
	return cmd
}

// loadRules combines the rule file with rules given as flags
func (a *app) loadRules(file string, maps, macros []string) (substitute.Rules, error) {
	if file == "" {
		file = a.cfg.Substitute.Rules
	}
	var rules substitute.Rules
	if file != "" {
		var err error
		if rules, err = substitute.LoadRules(file); err != nil {
			return rules, err
		}
	}

	paths := make(map[string]string, len(maps))
	for _, m := range maps {
		from, to, ok := strings.Cut(m, "=")
		if !ok || from == "" || to == "" {
			return rules, fmt.Errorf("invalid --map %q, want FROM=TO", m)
		}
		paths[from] = to
	}

	var extra substitute.Rules
	extra.Paths = substitute.PathRules(paths)
	for _, m := range macros {
		name, value, ok := strings.Cut(m, "=")
		if !ok || name == "" {
			return rules, fmt.Errorf("invalid --macro %q, want NAME=VALUE or NAME:MATCH=VALUE", m)
		}
		name, match, _ := strings.Cut(name, ":")
		extra.Macros = append(extra.Macros, substitute.MacroRule{Name: name, Match: match, Value: value})
	}

	rules = rules.Merge(extra)
	return rules, rules.Validate()
}

func newInlineCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "inline [files...]",
		Short: "Replace static embedded windows by their content",
		Long: `Replace embedded windows that show a fixed display by a group holding that
display's widgets, with the window's macros expanded. Referenced displays are
looked up next to the file, then in the configured search paths.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), "inline", args, a.cfg.Concurrency, func(ctx context.Context, path string, _ zerolog.Logger) ([]byte, []model.Warning, error) {
				e := a.editor(ctx, path)
				if all {
					e = e.InlineAll()
				}
				return e.Inline().Bytes()
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "inline dynamic embedded windows too")
	return cmd
}

func newTitlebarCmd(a *app) *cobra.Command {
	var (
		height      int
		helpFile    string
		helpMacros  string
		tooltipFile string
		colorsFile  string
		area        string
		noHelp      bool
		noExit      bool
		noShift     bool
	)

	cmd := &cobra.Command{
		Use:   "titlebar [title] [files...]",
		Short: "Add or replace the standard title bar",
		Long: `Add the standard title bar across the top of a display, moving its content
down, or replace an existing title bar in place. The title may contain macros.`,
		Example: `  edlkit titlebar 'Motor $(M)' -i motor.edl`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			title := args[0]

			if !flags.Changed("height") {
				height = a.cfg.Titlebar.Height
			}
			if !flags.Changed("help-file") {
				helpFile = a.cfg.Titlebar.HelpFile
			}
			if !flags.Changed("tooltip-file") {
				tooltipFile = a.cfg.Titlebar.TooltipFile
			}
			if colorsFile == "" {
				colorsFile = a.cfg.Colors
			}
			if area == "" {
				area = a.cfg.Titlebar.Area
			}
			if noHelp {
				helpFile = ""
			}

			opts := []titlebar.Option{
				titlebar.WithHeight(height),
				titlebar.WithHelpFile(helpFile, model.ParseMacros(helpMacros)),
				titlebar.WithTooltipFile(tooltipFile),
				titlebar.WithExitButton(!noExit),
				titlebar.WithShiftContent(!noShift),
			}
			if colorsFile != "" {
				colors, err := schema.LoadColors(colorsFile)
				if err != nil {
					return err
				}
				opts = append(opts, titlebar.WithPalette(titlebar.PaletteFrom(colors.Lookup, area)))
			}

			return a.run(cmd.Context(), "titlebar", args[1:], a.cfg.Concurrency, func(ctx context.Context, path string, _ zerolog.Logger) ([]byte, []model.Warning, error) {
				return a.editor(ctx, path).Titlebar(title, opts...).Bytes()
			})
		},
	}
	cmd.Flags().IntVar(&height, "height", 30, "title bar height (default from config)")
	cmd.Flags().StringVar(&helpFile, "help-file", "", "display opened by the help button (default from config)")
	cmd.Flags().StringVar(&helpMacros, "help-macros", "", "macros passed to the help display, e.g. P=SR01")
	cmd.Flags().StringVar(&tooltipFile, "tooltip-file", "", "display opened by right-clicking the bar (default from config)")
	cmd.Flags().StringVar(&colorsFile, "colors", "", "EDM colors.list used to pick the bar colors (default from config)")
	cmd.Flags().StringVar(&area, "area", "", "area whose \"<area> title\" color fills the bar (default from config)")
	cmd.Flags().BoolVar(&noHelp, "no-help", false, "leave out the help button")
	cmd.Flags().BoolVar(&noExit, "no-exit", false, "leave out the exit button")
	cmd.Flags().BoolVar(&noShift, "no-shift", false, "do not move the existing content down")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse displays and report problems",
		Long: `Parse each display, check that the displays its embedded windows point to can
be found and, with a widget catalog, that every widget class is known.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := a.catalog
			if schemaFile != "" {
				var err error
				if catalog, err = schema.Load(schemaFile); err != nil {
					return fmt.Errorf("failed to load widget catalog: %w", err)
				}
			}

			log := a.log.With().Str("component", "check").Logger()
			engine := a.engine(substitute.Rules{}, log)
			failed := 0
			for _, path := range unique(args) {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				warnings, err := a.check(cmd.Context(), path, catalog, engine)
				switch {
				case err != nil:
					a.println(errorStyle.Render("✗ ") + path + dimStyle.Render(": "+err.Error()))
				case len(warnings) > 0:
					a.println(warnStyle.Render("! ") + path + dimStyle.Render(fmt.Sprintf(" (%d warnings)", len(warnings))))
					for _, w := range warnings {
						a.println("    " + w.String())
					}
				default:
					a.println(successStyle.Render("✓ ") + path)
				}
				if err != nil || len(warnings) > 0 {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have problems", failed, len(unique(args)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "widget catalog file (default from config)")
	return cmd
}

func (a *app) check(ctx context.Context, path string, catalog *schema.Catalog, engine *substitute.Engine) ([]model.Warning, error) {
	e := a.editor(ctx, path)
	if catalog != nil {
		e = e.Catalog(catalog).Validate()
	}
	doc, warnings, err := e.Document()
	if err != nil {
		return warnings, err
	}

	doc.Walk(func(o, _ *model.Object) bool {
		for _, ref := range o.References() {
			if strings.Contains(ref.Path, "$(") {
				continue
			}
			if _, err := engine.Resolve(path, ref.Path); err != nil {
				warnings = append(warnings, model.WarnObject(o, "%v", err))
			}
		}
		return true
	})
	return warnings, nil
}

func newFmtCmd(a *app) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Re-encode displays",
		Long: `Parse and write back displays, optionally converting their character
encoding. Unchanged files come out byte for byte identical, so fmt also checks
that a file survives a round trip.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.enc
			if to != "" {
				var err error
				if target, err = format.ParseEncoding(to); err != nil {
					return err
				}
			}
			return a.run(cmd.Context(), "fmt", args, a.cfg.Concurrency, func(ctx context.Context, path string, _ zerolog.Logger) ([]byte, []model.Warning, error) {
				doc, err := a.editor(ctx, path).Parse()
				if err != nil {
					return nil, nil, err
				}
				data, err := writer.Bytes(doc, target)
				return data, nil, err
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target encoding: latin1 or utf-8")
	return cmd
}
