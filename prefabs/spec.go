package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PortalSpec describes one portal and its parts.
type PortalSpec struct {
	Name           string          `yaml:"name"`
	Duration       float64         `yaml:"duration"`
	StartOpen      *bool           `yaml:"start_open"`
	FlipOnComplete bool            `yaml:"flip_on_complete"`
	Closed         UniformSpec     `yaml:"closed"`
	Keys           KeysSpec        `yaml:"keys"`
	TriggerScript  string          `yaml:"trigger_script"`
	Proximity      ProximitySpec   `yaml:"proximity"`
	PersistKey     string          `yaml:"persist_key"`
	RenderLayer    RenderLayerSpec `yaml:"render_layer"`
	Parts          []PartSpec      `yaml:"parts"`
}

// UniformSpec is the animated triple. For parts it is the opened pose the
// material starts with; for closed it is the shared closed pose.
type UniformSpec struct {
	CircleClip  float64 `yaml:"circle_clip"`
	CircleWidth float64 `yaml:"circle_width"`
	Feather     float64 `yaml:"feather"`
}

type KeysSpec struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

type ProximitySpec struct {
	Radius float64 `yaml:"radius"`
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type PartSpec struct {
	Name      string        `yaml:"name"`
	Transform TransformSpec `yaml:"transform"`
	Uniforms  UniformSpec   `yaml:"uniforms"`
	Tint      *YAMLColor    `yaml:"tint"`
}

const (
	DefaultDuration = 1.0
	DefaultOpenKey  = "W"
	DefaultCloseKey = "Q"
)

// LoadPortalSpec loads, defaults and validates a portal spec.
func LoadPortalSpec(filename string) (*PortalSpec, error) {
	spec, err := LoadSpec[PortalSpec](filename)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// ParsePortalSpec is LoadPortalSpec for in-memory YAML.
func ParsePortalSpec(data []byte) (*PortalSpec, error) {
	var spec PortalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal portal: %w", err)
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *PortalSpec) applyDefaults() {
	if s.Duration == 0 {
		s.Duration = DefaultDuration
	}
	if s.StartOpen == nil {
		open := true
		s.StartOpen = &open
	}
	if s.Keys.Open == "" {
		s.Keys.Open = DefaultOpenKey
	}
	if s.Keys.Close == "" {
		s.Keys.Close = DefaultCloseKey
	}
}

func (s *PortalSpec) Validate() error {
	if !(s.Duration > 0) || math.IsInf(s.Duration, 0) {
		return fmt.Errorf("%w: duration %v must be positive and finite", ErrInvalidSpec, s.Duration)
	}
	if len(s.Parts) == 0 {
		return fmt.Errorf("%w: portal %q has no parts", ErrInvalidSpec, s.Name)
	}
	for i, p := range s.Parts {
		if p.Transform.W <= 0 || p.Transform.H <= 0 {
			return fmt.Errorf("%w: part %d (%s) needs a positive w/h", ErrInvalidSpec, i, p.Name)
		}
	}
	if s.Proximity.Radius < 0 {
		return fmt.Errorf("%w: proximity radius %v is negative", ErrInvalidSpec, s.Proximity.Radius)
	}
	return nil
}

func (s *PortalSpec) Opened() bool {
	return s.StartOpen == nil || *s.StartOpen
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG colour name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Vec4 returns the colour as straight-alpha floats in [0,1].
func (c *YAMLColor) Vec4() [4]float32 {
	if c == nil || c.Color == nil {
		return [4]float32{1, 1, 1, 1}
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return [4]float32{float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255}
}
