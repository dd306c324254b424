package types

import (
	"fmt"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TimeUnit is the base unit of a Resolution.
type TimeUnit string

const (
	TimeUnitMin   TimeUnit = "min"
	TimeUnitHour  TimeUnit = "hour"
	TimeUnitDay   TimeUnit = "day"
	TimeUnitWeek  TimeUnit = "week"
	TimeUnitMonth TimeUnit = "month"
	TimeUnitYear  TimeUnit = "year"
)

// Seconds returns the length of one unit. Months are 30 days and years 365 days.
func (u TimeUnit) Seconds() int64 {
	switch u {
	case TimeUnitMin:
		return 60
	case TimeUnitHour:
		return 60 * 60
	case TimeUnitDay:
		return 24 * 60 * 60
	case TimeUnitWeek:
		return 7 * 24 * 60 * 60
	case TimeUnitMonth:
		return 30 * 24 * 60 * 60
	case TimeUnitYear:
		return 365 * 24 * 60 * 60
	default:
		return 0
	}
}

func (u TimeUnit) suffix() string {
	switch u {
	case TimeUnitMin:
		return "m"
	case TimeUnitHour:
		return "h"
	case TimeUnitDay:
		return "d"
	case TimeUnitWeek:
		return "w"
	case TimeUnitMonth:
		return "M"
	case TimeUnitYear:
		return "y"
	default:
		return "?"
	}
}

func unitFromSuffix(suffix byte) (TimeUnit, bool) {
	switch suffix {
	case 'm':
		return TimeUnitMin, true
	case 'h':
		return TimeUnitHour, true
	case 'd':
		return TimeUnitDay, true
	case 'w':
		return TimeUnitWeek, true
	case 'M':
		return TimeUnitMonth, true
	case 'y':
		return TimeUnitYear, true
	default:
		return "", false
	}
}

// Resolution is the width of one candle: Frequency times Unit.
type Resolution struct {
	Unit      TimeUnit
	Frequency int
}

// NewResolution creates a resolution of frequency units.
func NewResolution(unit TimeUnit, frequency int) Resolution {
	return Resolution{Unit: unit, Frequency: frequency}
}

// Minute is the one minute resolution.
func Minute() Resolution { return NewResolution(TimeUnitMin, 1) }

// Hour is the one hour resolution.
func Hour() Resolution { return NewResolution(TimeUnitHour, 1) }

// Day is the one day resolution.
func Day() Resolution { return NewResolution(TimeUnitDay, 1) }

// ParseResolution parses the exchange interval form, e.g. "1m", "4h", "1d", "1w", "1M".
func ParseResolution(name string) (Resolution, error) {
	if len(name) < 2 {
		return Resolution{}, errors.Newf(errors.ErrCodeInvalidResolution, "invalid resolution %q", name)
	}

	unit, ok := unitFromSuffix(name[len(name)-1])
	if !ok {
		return Resolution{}, errors.Newf(errors.ErrCodeInvalidResolution, "unknown resolution unit in %q", name)
	}

	frequency, err := strconv.Atoi(name[:len(name)-1])
	if err != nil || frequency <= 0 {
		return Resolution{}, errors.Newf(errors.ErrCodeInvalidResolution, "invalid resolution frequency in %q", name)
	}

	return NewResolution(unit, frequency), nil
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool {
	return r.Frequency == 0 && r.Unit == ""
}

// Seconds returns the width of one candle in seconds.
func (r Resolution) Seconds() int64 {
	return r.Unit.Seconds() * int64(r.Frequency)
}

// Duration returns the width of one candle.
func (r Resolution) Duration() time.Duration {
	return time.Duration(r.Seconds()) * time.Second
}

// Name returns the exchange interval form of the resolution.
func (r Resolution) Name() string {
	if r.IsZero() {
		return ""
	}

	return fmt.Sprintf("%d%s", r.Frequency, r.Unit.suffix())
}

// String implements fmt.Stringer.
func (r Resolution) String() string {
	return r.Name()
}

// MarshalText encodes the resolution as its name.
func (r Resolution) MarshalText() ([]byte, error) {
	return []byte(r.Name()), nil
}

// UnmarshalText decodes a resolution name.
func (r *Resolution) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = Resolution{}

		return nil
	}

	parsed, err := ParseResolution(string(text))
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}

// MarshalYAML encodes the resolution as its name.
func (r Resolution) MarshalYAML() (any, error) {
	return r.Name(), nil
}

// UnmarshalYAML decodes a resolution name.
func (r *Resolution) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	return r.UnmarshalText([]byte(name))
}

// JSONSchema describes the resolution as its name in generated schemas.
func (Resolution) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     "^[0-9]+[mhdwMy]$",
		Description: "Candle width in exchange interval form, e.g. 1m, 4h, 1d",
	}
}

// TimeWindow is a resolution plus a number of candles.
type TimeWindow struct {
	Resolution Resolution `yaml:"resolution" json:"resolution" jsonschema:"required"`
	Count      int        `yaml:"count" json:"count" jsonschema:"required,minimum=0" validate:"gte=0"`
}

// NewTimeWindow creates a window of count candles.
func NewTimeWindow(resolution Resolution, count int) TimeWindow {
	return TimeWindow{Resolution: resolution, Count: count}
}

// Days is a window of n daily candles.
func Days(n int) TimeWindow {
	return NewTimeWindow(Day(), n)
}

// Minutes is a window of n one minute candles.
func Minutes(n int) TimeWindow {
	return NewTimeWindow(Minute(), n)
}

// Seconds returns the covered time span in seconds.
func (w TimeWindow) Seconds() int64 {
	return w.Resolution.Seconds() * int64(w.Count)
}

// Minutes returns the covered time span in minutes.
func (w TimeWindow) Minutes() int64 {
	return w.Seconds() / 60
}

// Duration returns the covered time span.
func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w.Seconds()) * time.Second
}
