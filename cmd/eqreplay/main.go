package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/eqreplay/internal/config"
	"github.com/san-kum/eqreplay/internal/export"
	"github.com/san-kum/eqreplay/internal/fetch"
	"github.com/san-kum/eqreplay/internal/metrics"
	"github.com/san-kum/eqreplay/internal/playback"
	"github.com/san-kum/eqreplay/internal/replay"
	"github.com/san-kum/eqreplay/internal/server"
	"github.com/san-kum/eqreplay/internal/session"
	"github.com/san-kum/eqreplay/internal/tui"
)

var (
	dataBase   string
	assetBase  string
	configFile string
	preset     string
	speedIndex int
	cursor     int
	autoplay   bool
	smooth     bool
	// Serve
	addr string
	// Export
	outDir string
	iter   int
	width  int
	height int
)

// main registers the eqreplay commands; bare invocation opens the
// interactive replay for the current data directory.
func main() {
	rootCmd := &cobra.Command{
		Use:   "eqreplay",
		Short: "equilibrium learning replay viewer",
		Args:  cobra.NoArgs,
		RunE:  runReplay,
	}

	rootCmd.PersistentFlags().StringVar(&dataBase, "data", ".", "data directory or http(s) base URL")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "interactive terminal replay",
		RunE:  runReplay,
	}
	replayCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	replayCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	replayCmd.Flags().IntVar(&speedIndex, "speed", config.DefaultSpeed, "initial speed rung")
	replayCmd.Flags().IntVar(&cursor, "cursor", 0, "initial iteration")
	replayCmd.Flags().BoolVar(&autoplay, "autoplay", false, "start playing immediately")
	replayCmd.Flags().BoolVar(&smooth, "smooth", true, "smooth the payoff chart")
	replayCmd.Flags().StringVar(&assetBase, "assets", config.DefaultAssets, "replay asset base path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve replay data with shared playback",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&assetBase, "assets", "", "directory of replay assets to serve")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "describe the loaded datasets",
		RunE:  inspectData,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export one iteration as SVG and the payoffs as CSV",
		RunE:  exportFrames,
	}
	exportCmd.Flags().StringVar(&outDir, "out", "export", "output directory")
	exportCmd.Flags().IntVar(&iter, "iter", -1, "iteration to export (default last)")
	exportCmd.Flags().IntVar(&width, "width", 640, "figure width in px")
	exportCmd.Flags().IntVar(&height, "height", 480, "figure height in px")
	exportCmd.Flags().BoolVar(&smooth, "smooth", true, "smooth the payoff chart")
	exportCmd.Flags().StringVar(&assetBase, "assets", config.DefaultAssets, "replay asset base path")

	familiesCmd := &cobra.Command{
		Use:   "families",
		Short: "list recognized game families",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FAMILY\tACTIONS")
			for _, f := range replay.Families() {
				fmt.Fprintf(w, "%s\t%s\n", f, strings.Join(replay.Vocabulary(f), ", "))
			}
			w.Flush()
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list playback presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			if len(names) == 0 {
				fmt.Println("no presets")
				return nil
			}
			fmt.Println("presets:")
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Printf("  %s (speed %s, autoplay %v, smoothing %v)\n",
					name, speedLabel(p.Speed), p.Autoplay, p.Smoothing)
			}
			return nil
		},
	}

	rootCmd.AddCommand(replayCmd, serveCmd, inspectCmd, exportCmd, familiesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()

	// Load preset if specified
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	// Load config file if specified (overrides preset)
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override config
	if cmd.Flags().Changed("data") {
		cfg.Data = dataBase
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speedIndex
	}
	if cmd.Flags().Changed("cursor") {
		cfg.Cursor = cursor
	}
	if cmd.Flags().Changed("autoplay") {
		cfg.Autoplay = autoplay
	}
	if cmd.Flags().Changed("smooth") {
		cfg.Smoothing = smooth
	}
	if cmd.Flags().Changed("assets") {
		cfg.Assets = assetBase
	}

	b, err := fetch.Load(context.Background(), cfg.Data)
	if err != nil {
		return fmt.Errorf("failed to load replay data: %w", err)
	}

	sess := session.New(b, session.Options{Smooth: cfg.Smoothing, AssetBase: cfg.Assets})
	sess.Control.SetSpeed(cfg.Speed)
	if cfg.Cursor > 0 {
		sess.Control.Seek(cfg.Cursor)
	}

	return tui.Run(sess, cfg.Autoplay)
}

func runServe(cmd *cobra.Command, args []string) error {
	scfg := server.LoadConfigFromEnv()
	if cmd.Flags().Changed("addr") {
		scfg.Addr = addr
	}
	if cmd.Flags().Changed("data") {
		scfg.Data = dataBase
	}
	if cmd.Flags().Changed("assets") {
		scfg.Assets = assetBase
	}

	b, err := fetch.Load(context.Background(), scfg.Data)
	if err != nil {
		return fmt.Errorf("failed to load replay data: %w", err)
	}
	sum := session.Summarize(b)
	log.Printf("server: loaded %d strategy rows, %d players, iterations 0..%d",
		sum.Records, len(sum.Players), sum.MaxIter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := server.NewHub(playback.New(b.MaxIter()))
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    scfg.Addr,
		Handler: server.New(scfg, b, hub).Router(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", scfg.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		log.Printf("server: received %v, shutting down", sig)
		cancel()

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			srv.Close()
		}
	}
	return nil
}

func inspectData(cmd *cobra.Command, args []string) error {
	b, err := fetch.Load(context.Background(), dataBase)
	if err != nil {
		return fmt.Errorf("failed to load replay data: %w", err)
	}
	sum := session.Summarize(b)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "attributes\t%s\n", strings.Join(sum.Attrs, ", "))
	fmt.Fprintf(w, "players\t%s\n", strings.Join(sum.Players, ", "))
	fmt.Fprintf(w, "iterations\t0..%d\n", sum.MaxIter)
	fmt.Fprintf(w, "strategy rows\t%d\n", sum.Records)
	fmt.Fprintf(w, "avg strategy rows\t%d\n", sum.AvgRecords)
	fmt.Fprintf(w, "payoff rows\t%d (%d slots)\n", sum.PayoffRows, sum.PayoffSlots)
	fmt.Fprintf(w, "history rows\t%d\n", sum.HistoryRows)
	if sum.Family != "" {
		fmt.Fprintf(w, "game family\t%s\n", sum.Family)
	}
	w.Flush()

	if len(b.Payoffs) > 0 {
		stats := metrics.NewPayoffStats(b.Payoffs.Slots())
		for _, r := range b.Payoffs {
			stats.Observe(r.Payoffs)
		}
		fmt.Println("\npayoffs:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLOT\tMEAN\tMIN\tMAX")
		for i := 0; i < b.Payoffs.Slots(); i++ {
			fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\n", i, stats.Mean(i), stats.Min(i), stats.Max(i))
		}
		w.Flush()
	}

	move := metrics.NewMovement()
	for _, r := range b.Strategies {
		move.Observe(r.Player, r.Values(r.AttrNames()))
	}
	if move.Samples() > 0 {
		fmt.Printf("\nstrategy movement: last step %.4f, max step %.4f\n", move.Value(), move.Max())
	}
	return nil
}

func exportFrames(cmd *cobra.Command, args []string) error {
	b, err := fetch.Load(context.Background(), dataBase)
	if err != nil {
		return fmt.Errorf("failed to load replay data: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	sess := session.New(b, session.Options{Smooth: smooth, AssetBase: assetBase})
	if iter < 0 {
		sess.Control.Seek(sess.Control.MaxIter())
	} else {
		sess.Control.Seek(iter)
	}

	sur := export.FileSurface{Dir: outDir, Width: width, Height: height}
	if errs := sess.Redraw(sur); errs != nil {
		for mount, err := range errs {
			fmt.Printf("skipped %s: %v\n", mount, err)
		}
	}

	if len(b.Payoffs) > 0 {
		f, err := os.Create(filepath.Join(outDir, "payoff.csv"))
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WritePayoffCSV(f, b.Payoffs); err != nil {
			return err
		}
	}

	fmt.Printf("exported iteration %d to %s\n", sess.Control.Cursor(), outDir)
	return nil
}

// speedLabel formats a speed rung as its playback ratio.
func speedLabel(index int) string {
	c := playback.New(0)
	c.SetSpeed(index)
	return c.RatioLabel()
}
