package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"ribbons/alignment"
	"ribbons/animation"
	"ribbons/export"
	"ribbons/ribbon"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	LayerColors struct {
		Lexical              string `yaml:"lexical" validate:"required,hexcolor"`
		GrammaticalRelations string `yaml:"grammatical_relations" validate:"required,hexcolor"`
		Features             string `yaml:"features" validate:"required,hexcolor"`
	}

	ColorsConfig struct {
		Background string `yaml:"background" validate:"required,hexcolor"`
		Foreground string `yaml:"foreground" validate:"required,hexcolor"`
		Muted      string `yaml:"muted" validate:"required,hexcolor"`
	}

	GeometryConfig struct {
		FontSize          float64 `yaml:"font_size" validate:"gt=0,lte=96"`
		Width             float64 `yaml:"width" validate:"gte=120,lte=4096"`
		CanvasHeight      float64 `yaml:"canvas_height" validate:"gt=0,lte=2048"`
		TokenGap          float64 `yaml:"token_gap" validate:"gte=0"`
		AnchorOffset      float64 `yaml:"anchor_offset" validate:"gte=0"`
		MaxControlOffset  float64 `yaml:"max_control_offset" validate:"gt=0"`
		StrokeWidth       float64 `yaml:"stroke_width" validate:"gt=0"`
		FanoutStrokeWidth float64 `yaml:"fanout_stroke_width" validate:"gt=0"`
		DotRadius         float64 `yaml:"dot_radius" validate:"gte=0"`
		FanoutDotRadius   float64 `yaml:"fanout_dot_radius" validate:"gte=0"`
	}

	// AnimationConfig values are milliseconds.
	AnimationConfig struct {
		Stagger        int `yaml:"stagger" validate:"gte=0,lte=10000"`
		InitialDelay   int `yaml:"initial_delay" validate:"gte=0,lte=10000"`
		Reveal         int `yaml:"reveal" validate:"gte=0,lte=10000"`
		FanoutStep     int `yaml:"fanout_step" validate:"gte=0,lte=10000"`
		SourceDotDelay int `yaml:"source_dot_delay" validate:"gte=0,lte=10000"`
		TargetDotDelay int `yaml:"target_dot_delay" validate:"gte=0,lte=10000"`
		FanoutDotStep  int `yaml:"fanout_dot_step" validate:"gte=0,lte=10000"`
	}

	TerminalConfig struct {
		ColorsConfig `yaml:",inline"`
		Rows         int     `yaml:"rows" validate:"min=3,max=200"`
		AnchorOffset float64 `yaml:"anchor_offset" validate:"gte=0,lte=1"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Layers    LayerColors     `yaml:"layers"`
		Document  ColorsConfig    `yaml:"document"`
		Geometry  GeometryConfig  `yaml:"geometry"`
		Animation AnimationConfig `yaml:"animation"`
		Terminal  TerminalConfig  `yaml:"terminal"`
		Logging   LoggingConfig   `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields we defined are accepted, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and performs
// validation. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Default returns the embedded configuration file as is.
func Default() []byte {
	return bytes.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Accent returns the colour of a layer.
func (c *LayerColors) Accent(l alignment.Layer) string {
	switch l {
	case alignment.GrammaticalRelations:
		return c.GrammaticalRelations
	case alignment.Features:
		return c.Features
	default:
		return c.Lexical
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Timing returns the scheduler timings.
func (c *Config) Timing() animation.Timing {
	return animation.Timing{
		Stagger:      ms(c.Animation.Stagger),
		InitialDelay: ms(c.Animation.InitialDelay),
		Reveal:       ms(c.Animation.Reveal),
		FanoutStep:   ms(c.Animation.FanoutStep),
	}
}

// RibbonOptions returns the geometry builder options.
func (c *Config) RibbonOptions() ribbon.Options {
	opts := ribbon.DefaultOptions()
	opts.StrokeWidth = c.Geometry.StrokeWidth
	opts.FanoutStrokeWidth = c.Geometry.FanoutStrokeWidth
	opts.DotRadius = c.Geometry.DotRadius
	opts.FanoutDotRadius = c.Geometry.FanoutDotRadius
	opts.MaxControlOffset = c.Geometry.MaxControlOffset
	opts.SourceDotDelay = ms(c.Animation.SourceDotDelay)
	opts.TargetDotDelay = ms(c.Animation.TargetDotDelay)
	opts.FanoutDotStep = ms(c.Animation.FanoutDotStep)
	opts.Timing = c.Timing()
	return opts
}

// Style returns the export style for a layer.
func (c *Config) Style(l alignment.Layer) export.Style {
	s := export.DefaultStyle()
	s.Accent = c.Layers.Accent(l)
	s.Background = c.Document.Background
	s.Foreground = c.Document.Foreground
	s.Muted = c.Document.Muted
	s.FontSize = c.Geometry.FontSize
	s.Width = c.Geometry.Width
	s.CanvasHeight = c.Geometry.CanvasHeight
	s.TokenGap = c.Geometry.TokenGap
	s.AnchorOffset = c.Geometry.AnchorOffset
	s.TerminalRows = c.Terminal.Rows
	s.TerminalOffset = c.Terminal.AnchorOffset
	s.Ribbon = c.RibbonOptions()
	return s
}

// TerminalStyle is Style with the terminal colours.
func (c *Config) TerminalStyle(l alignment.Layer) export.Style {
	s := c.Style(l)
	s.Background = c.Terminal.Background
	s.Foreground = c.Terminal.Foreground
	s.Muted = c.Terminal.Muted
	return s
}
