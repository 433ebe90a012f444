package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Gate    GateConfig    `yaml:"gate"`
	Editor  EditorConfig  `yaml:"editor"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"Thread Drafts"`
	Tagline string `yaml:"tagline" default:"Draft your threads before posting"`
	Theme   string `yaml:"theme" default:"dark-theme"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

// StorageConfig selects where the thread collection lives.
// Backend is one of memory, file, sqlite or s3; Compression is one of none, gzip or zstd.
type StorageConfig struct {
	Backend     string       `yaml:"backend" default:"file"`
	Key         string       `yaml:"key" default:"x-thread-drafts"`
	Compression string       `yaml:"compression" default:"none"`
	File        FileConfig   `yaml:"file"`
	SQLite      SQLiteConfig `yaml:"sqlite"`
	S3          S3Config     `yaml:"s3"`
}

type FileConfig struct {
	Dir string `yaml:"dir" default:"data"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" default:"./database.db"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket" default:""`
	Prefix          string `yaml:"prefix" default:""`
	Endpoint        string `yaml:"endpoint" default:""`
	Region          string `yaml:"region" default:"auto"`
	AccessKeyID     string `yaml:"access_key_id" default:""`
	SecretAccessKey string `yaml:"secret_access_key" default:""`
}

type GateConfig struct {
	Enabled    bool   `yaml:"enabled" default:"true"`
	Password   string `yaml:"password" default:"rahasia"`
	DelayMs    int    `yaml:"delay_ms" default:"600"`
	CookieName string `yaml:"cookie_name" default:"is_authenticated"`
}

func (g GateConfig) Delay() time.Duration {
	return time.Duration(g.DelayMs) * time.Millisecond
}

type EditorConfig struct {
	Presets      []int  `yaml:"presets" default:"4,5,7,10"`
	DefaultCount int    `yaml:"default_count" default:"5"`
	DefaultCTA   string `yaml:"default_cta" default:"If this thread was useful, repost the first tweet so more people get to read it 🙏"`
}

var AppConfig *Config

// LoadConfig reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)

	AppConfig = config
	return config, nil
}

// Secrets are usually provided through the environment (or a .env file) instead of the YAML file.
func applyEnv(config *Config) {
	overrides := map[string]*string{
		EnvPagePassword:   &config.Gate.Password,
		EnvS3AccessKeyID:  &config.Storage.S3.AccessKeyID,
		EnvS3SecretKey:    &config.Storage.S3.SecretAccessKey,
		EnvStorageBackend: &config.Storage.Backend,
		EnvLogLevel:       &config.Logging.Level,
	}

	for env, field := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() != 0 {
				continue
			}
			setSliceDefault(field, fieldType, defaultValue)
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}

func setSliceDefault(field reflect.Value, fieldType reflect.StructField, defaultValue string) {
	parts := strings.Split(defaultValue, ",")
	slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))

	switch field.Type().Elem().Kind() {
	case reflect.String:
		for j, part := range parts {
			slice.Index(j).SetString(strings.TrimSpace(part))
		}
	case reflect.Int:
		for j, part := range parts {
			val, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				configLogger.Warn().
					Str("field_name", fieldType.Name).
					Str("value", part).
					Msg("Invalid int in slice default")
				return
			}
			slice.Index(j).SetInt(val)
		}
	default:
		return
	}

	field.Set(slice)
}
