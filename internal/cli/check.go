package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/export"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
	"github.com/ironsheep/auracheck-mcp/internal/session"
)

type checkOptions struct {
	points    []string
	hexes     []string
	level     string
	largeText bool
	format    string
	noColor   bool
}

func (o *checkOptions) register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&o.points, "point", "p", nil, "native pixel to pick as x,y (repeatable)")
	fs.StringArrayVar(&o.hexes, "hex", nil, "extra color as #RRGGBB (repeatable)")
	fs.StringVarP(&o.level, "level", "l", "", "WCAG level: AA or AAA (default from config)")
	fs.BoolVar(&o.largeText, "large-text", false, "use the large-text thresholds")
	fs.StringVarP(&o.format, "format", "f", "text", "output format: text, json, csv, markdown")
	fs.BoolVar(&o.noColor, "no-color", false, "never print color swatches")
}

func newCheckCmd(global *globalOptions) *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [image]",
		Short: "Pick colors once and print a contrast report",
		Long: `Pick colors from an image at native pixel coordinates, add any extra hex
colors, and print the contrast of every ordered pair.

Points outside the image are skipped with a warning.`,
		Example: `  auracheck-mcp check shot.png -p 10,10 -p 200,40
  auracheck-mcp check --hex '#767676' --hex '#FFFFFF' --level AAA -f markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, global, o, args)
		},
	}
	o.register(cmd.Flags())
	return cmd
}

func runCheck(cmd *cobra.Command, global *globalOptions, o *checkOptions, args []string) error {
	cfg, log, err := global.load(cmd)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	level := cfg.WCAGLevel()
	if o.level != "" {
		if level, err = contrast.ParseLevel(o.level); err != nil {
			return err
		}
	}
	largeText := cfg.LargeText
	if cmd.Flags().Changed("large-text") {
		largeText = o.largeText
	}

	if len(args) == 0 && len(o.points) > 0 {
		return fmt.Errorf("--point needs an image")
	}
	if len(args) == 0 && len(o.hexes) == 0 {
		return fmt.Errorf("nothing to check: give an image with --point, or --hex colors")
	}

	store := session.New(session.Options{
		Logger:    log,
		Level:     level,
		LargeText: largeText,
	})

	ref := ""
	if len(args) == 1 {
		ref = args[0]
		cache := imaging.NewImageCache(cfg.Formats...)
		img, err := cache.Load(ref)
		if err != nil {
			return err
		}
		store.SetImage(ref, imaging.NewSurface(img), img)
	}

	for _, p := range o.points {
		x, y, err := parsePoint(p)
		if err != nil {
			return err
		}
		_, ok, err := store.PickNative(x, y)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn("point outside image, skipped", "point", p)
		}
	}
	for _, h := range o.hexes {
		rgb, err := imaging.ParseHex(h)
		if err != nil {
			return err
		}
		if err := store.AddColor(imaging.NewColorRecord(rgb, store.IDs())); err != nil {
			return err
		}
	}

	report := export.NewReport(ref, store.Level(), store.LargeText(), store.Colors(), store.Results())
	out := cmd.OutOrStdout()
	return export.Write(out, format, report, export.Options{
		Swatches: format == export.FormatText && !o.noColor && isTerminal(out),
	})
}

// parsePoint parses "x,y" into native pixel coordinates.
func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return x, y, nil
}

// isTerminal reports whether w is a terminal, which is when truecolor
// swatches are worth printing.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
