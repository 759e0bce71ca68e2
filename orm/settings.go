package orm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enlightendev/dataconfig"
)

// Settings are the vendor properties interpreted by the GORM adapter.
type Settings struct {
	SchemaAction   dataconfig.SchemaAction
	Dialect        string
	ShowSQL        bool
	FormatSQL      bool
	UseSQLComments bool
}

// ParseSettings interprets vendor properties. Missing or empty values take
// their zero meaning: no schema action, inferred dialect, flags off.
func ParseSettings(props dataconfig.VendorProperties) (Settings, error) {
	var s Settings
	var err error

	raw, _ := props.Get(dataconfig.PropSchemaUpdate)
	if s.SchemaAction, err = dataconfig.ParseSchemaAction(raw); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", dataconfig.PropSchemaUpdate, err)
	}

	s.Dialect, _ = props.Get(dataconfig.PropDialect)
	s.Dialect = strings.TrimSpace(s.Dialect)

	if s.ShowSQL, err = parseFlag(props, dataconfig.PropShowSQL); err != nil {
		return Settings{}, err
	}
	if s.FormatSQL, err = parseFlag(props, dataconfig.PropFormatSQL); err != nil {
		return Settings{}, err
	}
	if s.UseSQLComments, err = parseFlag(props, dataconfig.PropUseSQLComments); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// parseFlag reads a boolean vendor property with strconv.ParseBool. Unlike a
// lenient "anything but true is false" reading, a value such as "yes" is an
// error on first use. Empty means false.
func parseFlag(props dataconfig.VendorProperties, name string) (bool, error) {
	raw, _ := props.Get(name)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: invalid boolean %q", name, raw)
	}
	return v, nil
}
