// seismoviz renders an animation of the ground motion at a seismic station following an earthquake.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GeoNet/seismoviz/internal/app"
	"github.com/GeoNet/seismoviz/internal/config"
	"github.com/GeoNet/seismoviz/internal/fdsn"
	"github.com/GeoNet/seismoviz/internal/metrics"
	"github.com/GeoNet/seismoviz/internal/render"
	"github.com/GeoNet/seismoviz/internal/trace"
	"github.com/GeoNet/seismoviz/internal/traveltime"
	"github.com/GeoNet/seismoviz/internal/video"
)

const usage = "NETWORK STATION LOCATION CHN CHE CHZ TIME DURATION"

const example = `  seismoviz render IU ANMO 10 BH1 BH2 BHZ 2014-07-07T11:23:58 60
  seismoviz render --event-lat 14.782 --event-lon -92.371 --event-depth 92 IU ANMO 10 BH1 BH2 BHZ 2014-07-07T11:23:58 60
  seismoviz preview --data example_data IU ANMO 10 BH1 BH2 BHZ 2014-07-07T11:23:58 60`

var (
	configFile string
	dataDir    string
	opts       options
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seismoviz",
		Short:         "animate seismometer ground motion following an earthquake",
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	renderCmd := &cobra.Command{
		Use:     "render " + usage,
		Short:   "render frames and encode a video",
		Long:    "Render frames of the ground motion and encode them to a video.  DURATION is in minutes, TIME is UTC.",
		Example: example,
		Args:    cobra.ExactArgs(8),
		RunE:    runRender,
	}
	addRequestFlags(renderCmd)
	renderCmd.Flags().StringVar(&opts.out, "out", "", "video file name (default NET_STA_TIME.mp4 in video.out_dir)")
	renderCmd.Flags().IntVar(&opts.frames, "frames", 0, "maximum number of frames to draw, 0 for all")
	renderCmd.Flags().BoolVar(&opts.keepFrames, "keep-frames", true, "keep frame images after encoding")

	previewCmd := &cobra.Command{
		Use:     "preview " + usage,
		Short:   "plot the displacement and travel times in the terminal",
		Example: example,
		Args:    cobra.ExactArgs(8),
		RunE:    runPreview,
	}
	addRequestFlags(previewCmd)

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default config to path (default seismoviz.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "seismoviz.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			log.Printf("wrote default config to %s", path)

			return nil
		},
	}

	root.AddCommand(renderCmd, previewCmd, configCmd)

	return root
}

func addRequestFlags(c *cobra.Command) {
	c.Flags().StringVar(&dataDir, "data", "", "read miniSEED files NET.STA.LOC.CHA.mseed from this directory instead of FDSN dataselect")
	c.Flags().Float64Var(&opts.lat, "event-lat", 0, "earthquake latitude")
	c.Flags().Float64Var(&opts.lon, "event-lon", 0, "earthquake longitude")
	c.Flags().Float64Var(&opts.depth, "event-depth", 0, "earthquake depth (km)")
	c.Flags().Float64Var(&opts.minMagnitude, "min-magnitude", 5.0, "minimum magnitude when finding the earthquake")
}

func runRender(cmd *cobra.Command, args []string) error {
	opts.latSet = cmd.Flags().Changed("event-lat")
	opts.lonSet = cmd.Flags().Changed("event-lon")

	req, err := parseRequest(args, opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("keep-frames") {
		cfg.Video.KeepFrames = opts.keepFrames
	}

	a := newApp(cfg, dataDir)

	log.Printf("rendering %s.%s.%s %v from %s for %s", req.Network, req.Station, req.Location, req.Channels, req.Origin.Format(fdsn.WsMarshalTimeFormat), req.Duration)

	out, err := a.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	logMetrics()

	log.Printf("wrote %s", out)

	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	opts.latSet = cmd.Flags().Changed("event-lat")
	opts.lonSet = cmd.Flags().Changed("event-lon")

	req, err := parseRequest(args, opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	p, err := newApp(cfg, dataDir).Prepare(cmd.Context(), req)
	if err != nil {
		return err
	}

	return preview(cmd.OutOrStdout(), req, p)
}

// newApp wires the services in cfg.  Waveforms are read from dataDir if it is set.
func newApp(cfg config.Config, dataDir string) *app.App {
	hc := &http.Client{Timeout: cfg.Services.Timeout}

	client := fdsn.NewClient(cfg.Services.FDSN, hc, cfg.Services.CacheBytes)

	var waveforms trace.Source = client
	if dataDir != "" {
		waveforms = trace.FileSource{Dir: dataDir}
	}

	return &app.App{
		Config:    cfg,
		Stations:  client,
		Events:    client,
		Waveforms: waveforms,
		Model: traveltime.IRISModel{
			URL:    cfg.Services.TravelTime,
			Model:  cfg.Services.Model,
			Phases: cfg.Services.Phases,
			Client: hc,
		},
		Encoder: video.Encoder{
			Binary:    cfg.Video.FFmpeg,
			FrameRate: cfg.Video.FrameRate,
			Pattern:   render.FramePattern,
		},
	}
}

func logMetrics() {
	for _, t := range metrics.ReadTimers() {
		log.Print(t)
	}

	var c metrics.Counters
	metrics.ReadCounters(&c)

	log.Printf("lookups %d requests %d ok %d no data %d errors %d frames %d",
		c.Lookup, c.Request, c.StatusOK, c.NoData, c.StatusError, c.Frame)
}
