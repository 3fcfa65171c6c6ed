// package config is for seismoviz render and service configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides e.g., SEISMOVIZ_RENDER_TRAIL
const EnvPrefix = "SEISMOVIZ"

// Config is the complete configuration for a run.
type Config struct {
	Render   Render   `mapstructure:"render" yaml:"render"`
	Services Services `mapstructure:"services" yaml:"services"`
	Video    Video    `mapstructure:"video" yaml:"video"`
}

// Render configures frame drawing.
type Render struct {
	// Trail is the number of one second spaced points in the particle trail.
	Trail int `mapstructure:"trail" yaml:"trail"`
	// LabelSize and TickSize are font sizes in points.
	LabelSize float64 `mapstructure:"label_size" yaml:"label_size"`
	TickSize  float64 `mapstructure:"tick_size" yaml:"tick_size"`
	// Width and Height are the frame size in pixels.
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
	// Azimuth and Elevation are the initial camera angles for the 3D panel in degrees.
	Azimuth   float64 `mapstructure:"azimuth" yaml:"azimuth"`
	Elevation float64 `mapstructure:"elevation" yaml:"elevation"`
	// Rotation is the camera azimuth change per frame in degrees.
	Rotation float64 `mapstructure:"rotation" yaml:"rotation"`
	// PhaseAlpha is the opacity of a phase marker before the phase arrives.
	PhaseAlpha float64 `mapstructure:"phase_alpha" yaml:"phase_alpha"`
	// Phases are marked on the seismogram when they are in the travel time table.
	Phases  []string `mapstructure:"phases" yaml:"phases"`
	Tagline string   `mapstructure:"tagline" yaml:"tagline"`
}

// Services configures the web services used to find stations, events, waveforms and travel times.
type Services struct {
	FDSN       string `mapstructure:"fdsn" yaml:"fdsn"`
	TravelTime string `mapstructure:"traveltime" yaml:"traveltime"`
	Model      string `mapstructure:"model" yaml:"model"`
	// Phases limits the travel time query.  Empty for every phase the service computes by default.
	Phases     []string      `mapstructure:"phases" yaml:"phases,omitempty"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheBytes int64         `mapstructure:"cache_bytes" yaml:"cache_bytes"`
}

// Video configures frame output and encoding.
type Video struct {
	FFmpeg     string `mapstructure:"ffmpeg" yaml:"ffmpeg"`
	FrameRate  int    `mapstructure:"frame_rate" yaml:"frame_rate"`
	FrameDir   string `mapstructure:"frame_dir" yaml:"frame_dir"`
	OutDir     string `mapstructure:"out_dir" yaml:"out_dir"`
	KeepFrames bool   `mapstructure:"keep_frames" yaml:"keep_frames"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Render: Render{
			Trail:      10,
			LabelSize:  14,
			TickSize:   12,
			Width:      900,
			Height:     900,
			Azimuth:    -60,
			Elevation:  30,
			Rotation:   0.5,
			PhaseAlpha: 0.3,
			Phases:     []string{"P", "S"},
			Tagline:    "www.geonet.org.nz",
		},
		Services: Services{
			FDSN:       "https://service.iris.edu",
			TravelTime: "https://service.iris.edu/irisws/traveltime/1/query",
			Model:      "iasp91",
			Timeout:    time.Minute,
			CacheBytes: 64 << 20,
		},
		Video: Video{
			FFmpeg:     "ffmpeg",
			FrameRate:  25,
			FrameDir:   "frames",
			OutDir:     ".",
			KeepFrames: true,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("render.trail", d.Render.Trail)
	v.SetDefault("render.label_size", d.Render.LabelSize)
	v.SetDefault("render.tick_size", d.Render.TickSize)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.azimuth", d.Render.Azimuth)
	v.SetDefault("render.elevation", d.Render.Elevation)
	v.SetDefault("render.rotation", d.Render.Rotation)
	v.SetDefault("render.phase_alpha", d.Render.PhaseAlpha)
	v.SetDefault("render.phases", d.Render.Phases)
	v.SetDefault("render.tagline", d.Render.Tagline)

	v.SetDefault("services.fdsn", d.Services.FDSN)
	v.SetDefault("services.traveltime", d.Services.TravelTime)
	v.SetDefault("services.model", d.Services.Model)
	v.SetDefault("services.timeout", d.Services.Timeout)
	v.SetDefault("services.cache_bytes", d.Services.CacheBytes)
	// no default; bound so SEISMOVIZ_SERVICES_PHASES is read.
	_ = v.BindEnv("services.phases")

	v.SetDefault("video.ffmpeg", d.Video.FFmpeg)
	v.SetDefault("video.frame_rate", d.Video.FrameRate)
	v.SetDefault("video.frame_dir", d.Video.FrameDir)
	v.SetDefault("video.out_dir", d.Video.OutDir)
	v.SetDefault("video.keep_frames", d.Video.KeepFrames)
}

// Load returns the configuration from the YAML file at path over the defaults.  If path is
// empty only the defaults are used.  Environment variables override both e.g.,
// SEISMOVIZ_RENDER_TRAIL=20 or SEISMOVIZ_SERVICES_FDSN=https://service.geonet.org.nz
func Load(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return c, c.Validate()
}

// Save writes c to path as YAML.
func Save(path string, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0644)
}

// Validate returns an error for the first invalid value in c.
func (c Config) Validate() error {
	switch {
	case c.Render.Trail < 1:
		return fmt.Errorf("render.trail must be at least 1")
	case c.Render.LabelSize <= 0 || c.Render.TickSize <= 0:
		return fmt.Errorf("render.label_size and render.tick_size must be positive")
	case c.Render.Width < 100 || c.Render.Height < 100:
		return fmt.Errorf("render.width and render.height must be at least 100 pixels")
	case c.Render.PhaseAlpha < 0 || c.Render.PhaseAlpha > 1:
		return fmt.Errorf("render.phase_alpha must be between 0 and 1")
	case c.Services.FDSN == "":
		return fmt.Errorf("services.fdsn is required")
	case c.Services.TravelTime == "":
		return fmt.Errorf("services.traveltime is required")
	case c.Services.Timeout <= 0:
		return fmt.Errorf("services.timeout must be positive")
	case c.Services.CacheBytes < 0:
		return fmt.Errorf("services.cache_bytes must not be negative")
	case c.Video.FFmpeg == "":
		return fmt.Errorf("video.ffmpeg is required")
	case c.Video.FrameRate < 1:
		return fmt.Errorf("video.frame_rate must be at least 1")
	case c.Video.FrameDir == "":
		return fmt.Errorf("video.frame_dir is required")
	}

	for _, p := range c.Render.Phases {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("render.phases must not contain empty phase names")
		}
	}

	for _, p := range c.Services.Phases {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("services.phases must not contain empty phase names")
		}
	}

	return nil
}
