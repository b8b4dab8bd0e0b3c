// FILE: lixenwraith/tierlog/override.go
package tierlog

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to cfg in place.
// Each override should be in the format "key=value"; nested keys use dots.
// All overrides are attempted and the failures are reported together.
//
// Example:
//
//	cfg := tierlog.DefaultConfig()
//	err := tierlog.ApplyOverride(cfg,
//	    "directory=/var/log/app",
//	    "rotation_mode=time",
//	    "rotate_when=midnight",
//	    "mail_credentials.username=ops",
//	)
func ApplyOverride(cfg *Config, overrides ...string) error {
	fields := make(map[string]reflect.Value)
	collectFields(reflect.ValueOf(cfg).Elem(), "", fields)

	var errors []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}
		field, ok := fields[key]
		if !ok {
			errors = append(errors, fmtErrorf("unknown configuration key '%s'", key))
			continue
		}
		if err := setFieldString(field, key, value); err != nil {
			errors = append(errors, err)
		}
	}
	return combineConfigErrors(errors)
}

// parseKeyValue splits a "key=value" string
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// setFieldString parses value according to the field kind
func setFieldString(field reflect.Value, key, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
		}
		field.SetInt(intVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
		}
		field.SetBool(boolVal)
	default:
		return fmtErrorf("unsupported field type for %s: %v", key, field.Kind())
	}
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("tierlog: multiple configuration errors:")
	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, trimPrefix(err.Error())))
	}
	return fmt.Errorf("%s", sb.String())
}
