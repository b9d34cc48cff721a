package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/locale"
	"github.com/chenBenjamin97/football-coach/pkg/utils"
	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

type Config struct {
	Port     int
	LogLevel string

	RootDir      string
	UploadsDir   string
	ProcessedDir string

	MaxDimension int

	AttackingChannel string
	OpposingChannel  string
	AttackingOverlay string
	OpposingOverlay  string

	SegmenterCommand string
	SegmenterArgs    []string
	SegmenterTimeout time.Duration

	Policy string
	Locale string

	NatsURL     string
	NatsSubject string
	NatsTimeout time.Duration
}

//SetDefaults registers every key's default on given viper instance
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("log.level", "info")

	v.SetDefault("directory.root", "./data")
	v.SetDefault("directory.uploads", "./data/uploads")
	v.SetDefault("directory.processed", "./data/ProcessedImages")

	v.SetDefault("image.max_dimension", 0)

	v.SetDefault("teams.attacking.channel", "red")
	v.SetDefault("teams.opposing.channel", "blue")
	v.SetDefault("teams.attacking.overlay", "#FF0000")
	v.SetDefault("teams.opposing.overlay", "#0000FF")

	v.SetDefault("segmenter.command", "")
	v.SetDefault("segmenter.args", []string{})
	v.SetDefault("segmenter.timeout", 30*time.Second)

	v.SetDefault("feedback.policy", "multi")
	v.SetDefault("feedback.locale", utils.DefaultLocale)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "feedback.results")
	v.SetDefault("nats.timeout", 5*time.Second)
}

//Load reads configuration from file (or "config.yaml" in the working directory when file is empty)
//and from VFC_ prefixed environment variables. A missing default config file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("vfc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Load: Could not read config file, got '%v'", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:     v.GetInt("http.port"),
		LogLevel: v.GetString("log.level"),

		RootDir:      v.GetString("directory.root"),
		UploadsDir:   v.GetString("directory.uploads"),
		ProcessedDir: v.GetString("directory.processed"),

		MaxDimension: v.GetInt("image.max_dimension"),

		AttackingChannel: v.GetString("teams.attacking.channel"),
		OpposingChannel:  v.GetString("teams.opposing.channel"),
		AttackingOverlay: v.GetString("teams.attacking.overlay"),
		OpposingOverlay:  v.GetString("teams.opposing.overlay"),

		SegmenterCommand: v.GetString("segmenter.command"),
		SegmenterArgs:    v.GetStringSlice("segmenter.args"),
		SegmenterTimeout: v.GetDuration("segmenter.timeout"),

		Policy: v.GetString("feedback.policy"),
		Locale: v.GetString("feedback.locale"),

		NatsURL:     v.GetString("nats.url"),
		NatsSubject: v.GetString("nats.subject"),
		NatsTimeout: v.GetDuration("nats.timeout"),
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("Validate: invalid http.port %d", c.Port)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("Validate: invalid image.max_dimension %d", c.MaxDimension)
	}
	if _, err := c.TeamColors(); err != nil {
		return fmt.Errorf("Validate: %v", err)
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("Validate: %v", err)
	}
	if _, err := video.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("Validate: %v", err)
	}
	if !utils.InSlice(locale.Normalize(c.Locale), locale.Supported()) {
		return fmt.Errorf("Validate: unsupported feedback.locale '%s'", c.Locale)
	}
	return nil
}

func (c *Config) TeamColors() (video.TeamColors, error) {
	a, err := video.ParseChannel(c.AttackingChannel)
	if err != nil {
		return video.TeamColors{}, err
	}
	o, err := video.ParseChannel(c.OpposingChannel)
	if err != nil {
		return video.TeamColors{}, err
	}

	tc := video.TeamColors{Attacking: a, Opposing: o}
	return tc, tc.Validate()
}

func (c *Config) Palette() (video.Palette, error) {
	a, err := ParseOverlayColor(c.AttackingOverlay)
	if err != nil {
		return video.Palette{}, err
	}
	o, err := ParseOverlayColor(c.OpposingOverlay)
	if err != nil {
		return video.Palette{}, err
	}
	return video.Palette{Attacking: a, Opposing: o}, nil
}

func (c *Config) PolicyValue() video.Policy {
	p, _ := video.ParsePolicy(c.Policy)
	return p
}

//ParseOverlayColor parses "#RRGGBB" (or "#RGB") into an overlay color with utils.OverlayAlpha
func ParseOverlayColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("ParseOverlayColor: '%s': %v", hex, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: utils.OverlayAlpha}, nil
}

//Dirs returns every directory the service writes into
func (c *Config) Dirs() []string {
	return []string{c.RootDir, c.UploadsDir, c.ProcessedDir}
}
