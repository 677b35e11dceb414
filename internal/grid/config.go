package grid

import "fmt"

// Config describes one layout pass. All values are in pixels except ItemCount.
type Config struct {
	ViewportWidth  int
	ViewportHeight int
	CellSize       int
	CellMargin     int
	RowPadding     int
	ItemCount      int
}

// ConfigError reports an invalid geometry configuration. It aborts the layout
// pass that produced it.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid grid config: %s=%d: %s", e.Field, e.Value, e.Reason)
}

// Validate checks that the configuration can be laid out.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return &ConfigError{Field: "CellSize", Value: c.CellSize, Reason: "must be positive"}
	}

	nonNegative := []struct {
		name  string
		value int
	}{
		{"ViewportWidth", c.ViewportWidth},
		{"ViewportHeight", c.ViewportHeight},
		{"CellMargin", c.CellMargin},
		{"RowPadding", c.RowPadding},
		{"ItemCount", c.ItemCount},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return &ConfigError{Field: f.name, Value: f.value, Reason: "must not be negative"}
		}
	}

	return nil
}
