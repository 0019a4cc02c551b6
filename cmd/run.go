package cmd

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/vmview/internal/clipboard"
	"github.com/bnema/vmview/internal/config"
	"github.com/bnema/vmview/internal/console"
	"github.com/bnema/vmview/internal/display"
	"github.com/bnema/vmview/internal/guest"
	"github.com/bnema/vmview/internal/logger"
	"github.com/bnema/vmview/internal/ui"
)

var (
	runInject bool
	runDemo   bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the bridge with a status UI",
		Long: `Run starts the display/input/clipboard bridge and a terminal status view.
With --inject, routed input is injected into a local virtual keyboard and
mouse (requires /dev/uinput); otherwise guest events are logged. With --demo,
a synthetic guest drives the display path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge()
		},
	}
)

func init() {
	runCmd.Flags().BoolVar(&runInject, "inject", false, "inject guest events via uinput")
	runCmd.Flags().BoolVar(&runDemo, "demo", false, "drive the display with a synthetic guest")
}

func runBridge() error {
	cfg := config.Get()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sink guest.InputSink
	if runInject {
		s, err := guest.NewUinputSink()
		if err != nil {
			return fmt.Errorf("uinput sink unavailable: %w", err)
		}
		sink = s
	} else {
		sink = &guest.LogSink{}
	}
	defer sink.Close()

	presenter := display.PresenterFunc(func(img *image.RGBA, region image.Rectangle) {
		logger.Debugf("present %v", region)
	})

	cons, err := console.New(cfg, console.Options{
		Presenter: presenter,
		Sink:      sink,
		Clipboard: guest.LogClipboard{},
	})
	if err != nil {
		return err
	}

	hostBoard := clipboard.NewHostBoard(cons.Bridge(), cfg.Clipboard.PollInterval())
	go hostBoard.Run(ctx)
	go cons.Run(ctx)

	if runDemo {
		go runDemoGuest(ctx, cons)
	}

	return runStatusUI(ctx, cons)
}

// runDemoGuest plays the guest role: one display mode, then a moving band of
// framebuffer updates.
func runDemoGuest(ctx context.Context, cons *console.Console) {
	const w, h = 640, 480
	cons.NotifyResize(w, h, display.FormatRGBA8888)
	cons.SetWindowSize(w, h)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	row := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			region := image.Rect(0, row, w, row+8)
			pix := make([]byte, 4*region.Dx()*region.Dy())
			c := color.RGBA{R: uint8(row % 256), G: 128, B: 255, A: 255}
			for i := 0; i < len(pix); i += 4 {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
			}
			cons.Surface().UpdateRegion(region, pix)
			cons.NotifyUpdate(region)
			row = (row + 8) % h
		}
	}
}

func runStatusUI(ctx context.Context, cons *console.Console) error {
	// The toggle closure posts onto the driver loop so grab state stays
	// UI-loop owned.
	model := ui.NewModel(func() {
		toggleGrab(cons)
	})
	program := tea.NewProgram(model, tea.WithContext(ctx))

	cons.OnStatus(func(st console.Status) {
		program.Send(ui.StatusMsg(st))
	})

	_, err := program.Run()
	return err
}

// toggleGrab flips the grab state on the driver loop.
func toggleGrab(cons *console.Console) {
	cons.Queue().Post(func() {
		if cons.Grab().IsGrabbed() {
			cons.Grab().Ungrab()
		} else {
			cons.Grab().Grab()
		}
	})
}
