package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Table is a decoded TOML table.
type Table map[string]any

// DecodeTOMLFile decodes path into v strictly. Keys with no matching field
// are logged and ignored.
func DecodeTOMLFile(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		log.Warnf("Ignoring unknown keys in %s: %v", path, keys)
	}
	return nil
}

// DecodeTOMLTable decodes path without a target type, so values of the wrong
// type can still be read one by one.
func DecodeTOMLTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := Table{}
	if _, err := toml.Decode(string(data), &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return t, nil
}

// Sub returns the named sub-table.
func (t Table) Sub(name string) (Table, bool) {
	sub, ok := t[name].(map[string]any)
	return Table(sub), ok
}

// Value returns t[key] when it holds a T.
func Value[T string | bool | int64 | float64](t Table, key string) (T, bool) {
	v, ok := t[key].(T)
	return v, ok
}

// Int returns t[key] as an int. TOML integers decode as int64.
func (t Table) Int(key string) (int, bool) {
	v, ok := Value[int64](t, key)
	return int(v), ok
}

// SaveTOMLFile writes v to path through a temp file in the same dir, so a
// crash never leaves a half-written config behind.
func SaveTOMLFile(v any, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
