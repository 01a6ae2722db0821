// Package envconf fills tagged structs from environment variables.
//
// A field tagged `env:"NAME"` is read from NAME. If NAME is unset the
// `default:"..."` tag is used instead; a field with neither is required.
// Untagged struct fields are walked recursively.
package envconf

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrMissingRequired = errors.New("missing required environment variable")
	ErrUnsupportedType = errors.New("unsupported field type")
	ErrInvalidTarget   = errors.New("destination must be a non-nil pointer to a struct")
)

var durationType = reflect.TypeOf(time.Duration(0))

// FieldError reports which variable failed to populate which field.
type FieldError struct {
	Var   string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("env %s (field %s): %v", e.Var, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Load populates dst from the process environment.
func Load(dst any) error {
	return LoadFrom(dst, os.LookupEnv)
}

// LoadFrom is Load with a custom lookup, mostly for tests.
func LoadFrom(dst any, lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(dst)
	if dst == nil || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	return loadStruct(v.Elem(), lookup)
}

func loadStruct(v reflect.Value, lookup func(string) (string, bool)) error {
	t := v.Type()

	for i := range v.NumField() {
		sf := t.Field(i)
		fv := v.Field(i)

		if !sf.IsExported() {
			continue
		}

		name := sf.Tag.Get("env")
		if name == "-" {
			continue
		}

		if name == "" {
			err := descend(sf, fv, lookup)
			if err != nil {
				return err
			}

			continue
		}

		raw, ok := lookup(name)
		if !ok {
			raw, ok = sf.Tag.Lookup("default")
		}

		if !ok {
			return &FieldError{Var: name, Field: sf.Name, Err: ErrMissingRequired}
		}

		err := setValue(fv, raw)
		if err != nil {
			return &FieldError{Var: name, Field: sf.Name, Err: err}
		}
	}

	return nil
}

func descend(sf reflect.StructField, fv reflect.Value, lookup func(string) (string, bool)) error {
	switch {
	case fv.Kind() == reflect.Struct:
		err := loadStruct(fv, lookup)
		if err != nil {
			return fmt.Errorf("load %s: %w", sf.Name, err)
		}
	case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}

		err := loadStruct(fv.Elem(), lookup)
		if err != nil {
			return fmt.Errorf("load %s: %w", sf.Name, err)
		}
	}

	return nil
}

//nolint:cyclop
func setValue(fv reflect.Value, raw string) error {
	if !fv.CanSet() {
		return ErrUnsupportedType
	}

	if fv.CanAddr() {
		if u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			err := u.UnmarshalText([]byte(raw))
			if err != nil {
				return fmt.Errorf("unmarshal text: %w", err)
			}

			return nil
		}
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse bool: %w", err)
		}

		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fv.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("parse duration: %w", err)
			}

			fv.SetInt(int64(d))

			return nil
		}

		i, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int: %w", err)
		}

		fv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse uint: %w", err)
		}

		fv.SetUint(u)
	case reflect.Pointer:
		elem := reflect.New(fv.Type().Elem())

		err := setValue(elem.Elem(), raw)
		if err != nil {
			return err
		}

		fv.Set(elem)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fv.Type())
	}

	return nil
}
