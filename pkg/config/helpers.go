package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// SetValue sets a configuration value by key.
// Supported keys:
//   - platform.os, platform.arch, platform.libc: string - platform overrides
//   - extension_preference: comma separated list of extensions
//   - http_timeout: duration such as 30s
//   - user_agent, api_base, github_token_env: string
//   - minisign_public_key: string - key line or path to a .pub file
//   - require_checksum: bool
//   - output_dir, hook_script: string - paths
//   - log_level: string - debug, info, warn or error
//
// The result is validated; on error the configuration is left unchanged.
func (c *Config) SetValue(key, value string) error {
	s := c.Settings
	switch key {
	case "platform.os":
		s.Platform.OS = value
	case "platform.arch":
		s.Platform.Arch = value
	case "platform.libc":
		s.Platform.Libc = value
	case "extension_preference":
		s.ExtensionPreference = splitList(value)
	case "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w for %s: %s", errors.ErrConfigValue, key, value)
		}
		s.HTTPTimeout = d
	case "user_agent":
		s.UserAgent = value
	case "api_base":
		s.APIBase = value
	case "github_token_env":
		s.GitHubTokenEnv = value
	case "minisign_public_key":
		s.MinisignPublicKey = value
	case "require_checksum":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w for %s: %s", errors.ErrConfigValue, key, value)
		}
		s.RequireChecksum = boolVal
	case "output_dir":
		s.OutputDir = value
	case "hook_script":
		s.HookScript = value
	case "log_level":
		s.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: %s", errors.ErrConfigKey, key)
	}

	if err := validatePlatform(s.Platform); err != nil {
		return err
	}
	if err := validateSettings(s); err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// GetValue returns a configuration value by key, formatted as SetValue accepts it.
func (c *Config) GetValue(key string) (string, error) {
	v, ok := c.ToMap()[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrConfigKey, key)
	}
	return v, nil
}

// ToMap flattens the settings into yaml keys, nested structs joined with dots.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	flatten(result, "", reflect.ValueOf(c.Settings))
	return result
}

func flatten(out map[string]string, prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		key := prefix + strings.Split(yamlTag, ",")[0]
		fieldValue := v.Field(i)

		switch fieldValue.Kind() {
		case reflect.Struct:
			flatten(out, key+".", fieldValue)
		case reflect.Slice:
			parts := make([]string, fieldValue.Len())
			for j := range parts {
				parts[j] = fmt.Sprint(fieldValue.Index(j).Interface())
			}
			out[key] = strings.Join(parts, ",")
		case reflect.Bool:
			out[key] = strconv.FormatBool(fieldValue.Bool())
		case reflect.String:
			out[key] = fieldValue.String()
		default:
			// time.Duration and friends
			out[key] = fmt.Sprint(fieldValue.Interface())
		}
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
