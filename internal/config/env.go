package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MANDEL_"

// ApplyEnv overrides fields from MANDEL_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"WIDTH":          &c.Width,
		"HEIGHT":         &c.Height,
		"MAX_ITERATIONS": &c.MaxIterations,
		"WORKERS":        &c.Workers,
		"FPS":            &c.Server.FPS,
	}
	for key, dst := range ints {
		val, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s%s=%q: %w", EnvPrefix, key, val, err)
		}
		*dst = n
	}

	strs := map[string]*string{
		"PALETTE":    &c.Palette,
		"REGION":     &c.Region,
		"ADDR":       &c.Server.Addr,
		"STATIC_DIR": &c.Server.StaticDir,
	}
	for key, dst := range strs {
		if val, ok := lookup(EnvPrefix + key); ok {
			*dst = val
		}
	}

	if val, ok := lookup(EnvPrefix + "ADAPTIVE"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%sADAPTIVE=%q: %w", EnvPrefix, val, err)
		}
		c.Adaptive = b
	}
	if val, ok := lookup(EnvPrefix + "ZOOM_STEP"); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%sZOOM_STEP=%q: %w", EnvPrefix, val, err)
		}
		c.ZoomStep = f
	}
	return nil
}
