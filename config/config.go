package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"typhoon-cone/model"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string
	LogDir    string
	OutputDir string

	// MaxStorms bounds the number of simultaneously active storm displays.
	MaxStorms int
	// UpdateParallelism bounds how many storms are refreshed at once.
	UpdateParallelism int

	RingAttribute  model.AttributeID
	ConeAttributes []model.AttributeID
	RingSwath      bool

	// Initial per-way flags, restored whenever a storm is deactivated.
	ShowTrack bool
	ShowCone  bool
	ShowRings bool
}

func Default() Config {
	return Config{
		LogLevel:          "info",
		OutputDir:         ".",
		MaxStorms:         8,
		UpdateParallelism: 4,
		RingAttribute:     "r34",
		ConeAttributes:    []model.AttributeID{"r34"},
		ShowTrack:         true,
		ShowCone:          true,
		ShowRings:         true,
	}
}

// Load reads an optional .env file from the given paths (".env" when
// none are given) and then overrides the defaults from TYPHOON_*
// environment variables.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	c := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				errs = append(errs, fmt.Errorf("%s=%q: expected a positive integer", key, v))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: %w", key, v, err))
				return
			}
			*dst = b
		}
	}

	str("TYPHOON_LOG_LEVEL", &c.LogLevel)
	str("TYPHOON_LOG_DIR", &c.LogDir)
	str("TYPHOON_OUTPUT_DIR", &c.OutputDir)
	integer("TYPHOON_MAX_STORMS", &c.MaxStorms)
	integer("TYPHOON_UPDATE_PARALLELISM", &c.UpdateParallelism)
	if v, ok := os.LookupEnv("TYPHOON_RING_ATTRIBUTE"); ok {
		c.RingAttribute = model.AttributeID(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("TYPHOON_CONE_ATTRIBUTES"); ok {
		c.ConeAttributes = ParseAttributeList(v)
	}
	boolean("TYPHOON_RING_SWATH", &c.RingSwath)
	boolean("TYPHOON_SHOW_TRACK", &c.ShowTrack)
	boolean("TYPHOON_SHOW_CONE", &c.ShowCone)
	boolean("TYPHOON_SHOW_RINGS", &c.ShowRings)

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("TYPHOON_LOG_LEVEL=%q: invalid log level", c.LogLevel))
	}

	return c, errors.Join(errs...)
}

// ParseAttributeList splits a comma-separated list of attribute ids,
// dropping empty entries.
func ParseAttributeList(s string) []model.AttributeID {
	var ids []model.AttributeID
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			ids = append(ids, model.AttributeID(f))
		}
	}
	return ids
}
