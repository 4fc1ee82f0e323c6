package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-colorable"
	"github.com/phil-holland/csgo-heatmap/internal"
	flag "github.com/spf13/pflag"
)

func usage() {
	fmt.Printf("Usage: csgo-heatmap [OPTION]... [DEMO_FILE (.dem)]\n\n")
	fmt.Printf("Decodes DEMO_FILE and draws every recorded player position as a heatmap, which\n")
	fmt.Printf("is written to a '.heatmap.png' file in the same directory. With --serve, the\n")
	fmt.Printf("heatmap is served over HTTP instead and demo files are uploaded to it.\n")

	fmt.Printf("\n")
	flag.PrintDefaults()
	fmt.Printf("\n")
}

func main() {
	cfg, err := internal.LoadConfig(".env")
	if err != nil {
		panic(err)
	}

	cfg.BindFlags(flag.CommandLine)
	flag.CommandLine.SortFlags = false
	flag.ErrHelp = fmt.Errorf("version: %s", internal.Version)
	flag.Usage = usage
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("ERROR: %v\n", err))
	}

	reporter := internal.NewConsoleReporter(cfg.Verbose)

	if cfg.Addr != "" {
		serve(cfg, reporter)
		return
	}

	// process the file argument
	if len(flag.Args()) == 0 {
		panic("demo file not supplied.")
	}
	if len(flag.Args()) > 1 {
		panic("Only one demo file can be supplied.")
	}
	demoPath := flag.Args()[0]

	// check that the file exists
	fi, err := os.Stat(demoPath)
	if os.IsNotExist(err) || (err == nil && fi.IsDir()) {
		panic(fmt.Sprintf("ERROR: '%s' is not a file.\n", demoPath))
	}

	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = demoPath + ".heatmap.png"
	}

	render(cfg, reporter, demoPath, outputPath)
}

// render runs a single decode-to-render cycle without a window, writing the
// final canvas to outputPath
func render(cfg internal.Config, reporter internal.Reporter, demoPath string, outputPath string) {
	canvas := internal.NewCanvas(cfg.Window)
	decoder := &internal.DemoDecoder{}

	var bar *pb.ProgressBar
	if cfg.Progress {
		tmpl := `{{ green "Progress:" }} {{ bar . "[" "#" "#" "." "]"}} {{speed .}} {{percent .}}`
		bar = pb.ProgressBarTemplate(tmpl).Start64(100)
		decoder.Progress = func(fraction float64) {
			bar.SetCurrent(int64(fraction * 100))
		}
	}

	program := internal.NewProgram(internal.ProgramConfig{
		Decoder:  decoder,
		Surfaces: canvas,
		Reporter: reporter,
		CanvasID: cfg.CanvasID,
	})
	program.Watch(internal.MountOnReady(canvas, cfg.CanvasID))

	notifications := make(chan internal.Notification, 256)
	program.Watch(func(n internal.Notification) {
		notifications <- n
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go program.Run(ctx)

	fmt.Printf("Decoding demo file: \"%s\"\n", demoPath)
	program.Dispatch(internal.FileDropped{Files: []internal.DemoFile{internal.LocalFile(demoPath)}})

	state := waitForRenders(notifications, 1)
	if bar != nil {
		bar.SetCurrent(100)
		bar.Finish()
	}

	toggles, unknownPlayers, unknownRounds := internal.Restrict(state.Result, cfg.Players, cfg.Rounds)
	for _, name := range unknownPlayers {
		reporter.Warnf("player '%s' is not part of this demo", name)
	}
	for _, r := range unknownRounds {
		reporter.Warnf("round %d is not part of this demo", r)
	}
	for _, e := range toggles {
		program.Dispatch(e)
	}
	if len(toggles) > 0 {
		state = waitForRenders(notifications, len(toggles))
	}

	raster, err := canvas.Raster(cfg.CanvasID)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Writing heatmap to: \"%s\"\n", outputPath)
	file, err := os.Create(outputPath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := raster.WritePNG(file); err != nil {
		panic(err)
	}

	internal.PrintLegend(colorable.NewColorableStdout(), state.Result, state.Selection)
}

// waitForRenders blocks until the given number of renders have completed,
// returning the state of the last one
func waitForRenders(notifications <-chan internal.Notification, renders int) internal.State {
	for n := range notifications {
		if n.State.Tag == internal.StateError {
			panic(fmt.Sprintf("ERROR: %v\n", n.State.Err))
		}
		if n.Rendered {
			renders--
			if renders == 0 {
				return n.State
			}
		}
	}
	panic("program stopped unexpectedly")
}

// serve runs the interactive heatmap over HTTP until interrupted
func serve(cfg internal.Config, reporter internal.Reporter) {
	canvas := internal.NewCanvas(cfg.Window)
	resize := internal.NewResizeSignal()

	program := internal.NewProgram(internal.ProgramConfig{
		Decoder:  &internal.DemoDecoder{},
		Surfaces: canvas,
		Resize:   resize,
		Reporter: reporter,
		CanvasID: cfg.CanvasID,
	})
	program.Watch(internal.MountOnReady(canvas, cfg.CanvasID))

	server := internal.NewServer(internal.ServerConfig{
		Program:  program,
		Canvas:   canvas,
		Resize:   resize,
		CanvasID: cfg.CanvasID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpServer := &http.Server{Addr: cfg.Addr, Handler: server.Router()}
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	go program.Run(ctx)

	fmt.Printf("Serving heatmap on: \"%s\"\n", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
