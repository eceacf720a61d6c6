// Ink commands: draw on, clear, export and list image annotations.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/ink"
	"github.com/mesh-intelligence/puzzlebook/internal/persist"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

var (
	flagInkPoints string
	flagInkEraser bool
	flagInkWidth  int
	flagInkHeight int
	flagInkYes    bool
	flagInkOut    string
	flagInkInput  string
)

var inkCmd = &cobra.Command{
	Use:   "ink",
	Short: "Manage ink drawn over catalog images",
	Long: `Ink is stored per image URL. Every stroke saves the whole surface, and the
same URL restores it wherever the image appears.`,
}

var inkDrawCmd = &cobra.Command{
	Use:   "draw <url>",
	Short: "Draw strokes over an image",
	Long: `Draw adds strokes to the ink over an image. --points takes strokes separated
by ";", each a space-separated list of x,y surface coordinates. The URL must be
shown by a puzzle in the catalog. --input touch replays the strokes as touch
events instead of mouse events.`,
	Example: `  puzzlebook ink draw https://example.com/p7.png --points "10,10 50,50; 60,10 60,80"
  puzzlebook ink draw https://example.com/p7.png --eraser --points "0,0 800,600"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strokes, err := parseStrokes(flagInkPoints)
		if err != nil {
			return userError(err)
		}
		touch, err := parseInput(flagInkInput)
		if err != nil {
			return userError(err)
		}

		layer, s, err := layerFor(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer s.Detach()

		if flagInkEraser {
			layer.SetTool(ink.Eraser)
		}
		drawn := 0
		for _, stroke := range strokes {
			if replayStroke(layer, stroke, touch) {
				drawn++
			}
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"url": args[0], "tool": layer.Tool().String(), "strokes": drawn})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "drew %d of %d strokes with %s on %s\n", drawn, len(strokes), layer.Tool(), args[0])
		return nil
	},
}

var inkClearCmd = &cobra.Command{
	Use:   "clear <url>",
	Short: "Erase all ink over an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layer, s, err := layerFor(cmd, args[0], true)
		if err != nil {
			return err
		}
		defer s.Detach()

		var confirmErr error
		cleared := layer.Clear(func() bool {
			if flagInkYes {
				return true
			}
			ok, err := confirmClear(args[0])
			confirmErr = err
			return ok
		})
		if confirmErr != nil {
			return sysError(fmt.Errorf("confirm: %w", confirmErr))
		}
		if !cleared {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared ink on %s\n", args[0])
		return nil
	},
}

var inkExportCmd = &cobra.Command{
	Use:   "export <url>",
	Short: "Write the ink over an image as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagInkOut == "" {
			return userError(errors.New("--out is required"))
		}

		layer, s, err := layerFor(cmd, args[0], true)
		if err != nil {
			return err
		}
		defer s.Detach()

		if layer.Surface().Blank() {
			return userError(fmt.Errorf("no ink stored for %s", args[0]))
		}

		f, err := os.Create(flagInkOut)
		if err != nil {
			return sysError(fmt.Errorf("create %s: %w", flagInkOut, err))
		}
		if err := layer.Export(f); err != nil {
			f.Close()
			return sysError(fmt.Errorf("export: %w", err))
		}
		if err := f.Close(); err != nil {
			return sysError(fmt.Errorf("close %s: %w", flagInkOut, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", flagInkOut)
		return nil
	},
}

var inkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images with stored ink",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		inkMap := loadInkMap(s)
		type entry struct {
			URL   string `json:"url"`
			Bytes int    `json:"bytes"`
		}
		entries := make([]entry, 0, inkMap.Len())
		for _, url := range inkMap.URLs() {
			data, _ := inkMap.Get(url)
			entries = append(entries, entry{URL: url, Bytes: len(data)})
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%8d  %s\n", e.Bytes, e.URL)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d images, %d bytes\n", inkMap.Len(), inkMap.Bytes())
		return nil
	},
}

func init() {
	inkDrawCmd.Flags().StringVar(&flagInkPoints, "points", "", `strokes as "x,y x,y;x,y ..."`)
	inkDrawCmd.Flags().BoolVar(&flagInkEraser, "eraser", false, "erase instead of drawing")
	inkDrawCmd.Flags().StringVar(&flagInkInput, "input", "mouse", "pointer device to replay strokes with (mouse or touch)")
	_ = inkDrawCmd.MarkFlagRequired("points")
	for _, c := range []*cobra.Command{inkDrawCmd, inkClearCmd, inkExportCmd} {
		c.Flags().IntVar(&flagInkWidth, "width", 0, "surface width (default from config)")
		c.Flags().IntVar(&flagInkHeight, "height", 0, "surface height (default from config)")
	}
	inkClearCmd.Flags().BoolVarP(&flagInkYes, "yes", "y", false, "skip the confirmation prompt")
	inkExportCmd.Flags().StringVar(&flagInkOut, "out", "", "output PNG file")

	inkCmd.AddCommand(inkDrawCmd)
	inkCmd.AddCommand(inkClearCmd)
	inkCmd.AddCommand(inkExportCmd)
	inkCmd.AddCommand(inkListCmd)
}

func loadInkMap(s types.Store) *persist.InkMap {
	return persist.LoadInk(table(s, types.InkTable, logger), persist.PolicyFor(appConfig.Ink), logger)
}

// layerFor opens a session and returns the ink layer for url, bound on the
// page that shows it. With orphans set, a URL no puzzle shows still gets a
// layer over the stored ink, so ink left by an earlier feed can be cleared
// or exported. The caller must detach the returned store.
func layerFor(cmd *cobra.Command, url string, orphans bool) (*ink.Layer, types.Store, error) {
	sess, s, err := openSession(cmd.Context(), session.Options{
		InkWidth:  flagInkWidth,
		InkHeight: flagInkHeight,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if sess.Locate(url) {
		layer, _ := sess.Layer(url)
		return layer, s, nil
	}
	if !orphans {
		_ = s.Detach()
		return nil, nil, userError(fmt.Errorf("no puzzle shows %s", url))
	}
	layer := ink.NewLayer(loadInkMap(s), logger)
	layer.Bind(url, inkWidth(), inkHeight())
	return layer, s, nil
}

// replayStroke feeds one polyline to the layer as pointer events. Touch
// replays end with an empty touch list, as a lifted finger does.
func replayStroke(layer *ink.Layer, points []ink.Point, touch bool) bool {
	send := func(t ink.EventType, p ink.Point) {
		if touch {
			ev := ink.TouchEvent{Type: t}
			if t != ink.EventUp {
				ev.Touches = []ink.Point{p}
			}
			layer.Touch(ev)
			return
		}
		layer.Mouse(ink.MouseEvent{Type: t, X: p.X, Y: p.Y})
	}
	send(ink.EventDown, points[0])
	if !layer.Drawing() {
		return false
	}
	for _, p := range points[1:] {
		send(ink.EventMove, p)
	}
	send(ink.EventUp, points[len(points)-1])
	return true
}

// parseInput reports whether name selects touch input.
func parseInput(name string) (bool, error) {
	switch name {
	case "mouse", "":
		return false, nil
	case "touch":
		return true, nil
	default:
		return false, fmt.Errorf("invalid --input %q: want mouse or touch", name)
	}
}

func inkWidth() int {
	if flagInkWidth > 0 {
		return flagInkWidth
	}
	return appConfig.Ink.Width
}

func inkHeight() int {
	if flagInkHeight > 0 {
		return flagInkHeight
	}
	return appConfig.Ink.Height
}

// confirmClear asks before destroying stored ink.
func confirmClear(url string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title("Clear all ink on this image?").
		Description(url).
		Affirmative("Clear").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}

// parseStrokes parses "x,y x,y;x,y ..." into strokes of points. Empty
// strokes are dropped.
func parseStrokes(s string) ([][]ink.Point, error) {
	var strokes [][]ink.Point
	for _, part := range strings.Split(s, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		stroke := make([]ink.Point, 0, len(fields))
		for _, f := range fields {
			xs, ys, ok := strings.Cut(f, ",")
			if !ok {
				return nil, fmt.Errorf("invalid point %q: want x,y", f)
			}
			x, err := strconv.ParseFloat(xs, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid point %q: %w", f, err)
			}
			y, err := strconv.ParseFloat(ys, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid point %q: %w", f, err)
			}
			stroke = append(stroke, ink.Point{X: x, Y: y})
		}
		strokes = append(strokes, stroke)
	}
	if len(strokes) == 0 {
		return nil, errors.New("no strokes given")
	}
	return strokes, nil
}
