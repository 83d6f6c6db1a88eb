package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Geocoding holds the geocoding provider configuration.
	Geocoding GeocodingConfig `mapstructure:",squash"`

	// Location holds the current-location resolution configuration.
	Location LocationConfig `mapstructure:",squash"`

	// Tracking holds the courier position push configuration.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Redis holds the redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Postgres holds the optional postgres geocode cache configuration.
	Postgres PostgresConfig `mapstructure:",squash"`
}

// GeocodingConfig selects and configures the geocoding provider.
type GeocodingConfig struct {
	// Provider selects the geocoder implementation ("nominatim" or "google").
	Provider string `mapstructure:"GEOCODER_PROVIDER" default:"nominatim"`
	// NominatimURL is the base URL of the Nominatim-compatible geocoding API.
	NominatimURL string `mapstructure:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org"`
	// GoogleAPIKey is the Google Maps API key (required when Provider is "google").
	GoogleAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`
	// CacheBackend selects the geocode cache implementation ("memory", "redis" or "postgres").
	CacheBackend string `mapstructure:"GEOCODE_CACHE_BACKEND" default:"memory"`
}

// LocationConfig configures the tiered current-location resolver.
type LocationConfig struct {
	// SensorTimeoutSeconds bounds how long a device sensor query may take.
	SensorTimeoutSeconds int `mapstructure:"SENSOR_TIMEOUT_SECONDS" default:"10"`
	// SensorMaxAgeSeconds is the maximum age of a reported device fix before it is stale.
	SensorMaxAgeSeconds int `mapstructure:"SENSOR_MAX_AGE_SECONDS" default:"300"`
	// IPAPIURL is the base URL of the ip-api.com style geolocation service.
	IPAPIURL string `mapstructure:"IP_API_URL" default:"http://ip-api.com/json"`
	// IPInfoURL is the base URL of the ipinfo.io style geolocation service.
	IPInfoURL string `mapstructure:"IP_INFO_URL" default:"https://ipinfo.io/json"`
	// DefaultLat is the latitude of the last-resort fallback coordinate.
	DefaultLat float64 `mapstructure:"DEFAULT_LAT" default:"19.0760"`
	// DefaultLng is the longitude of the last-resort fallback coordinate.
	DefaultLng float64 `mapstructure:"DEFAULT_LNG" default:"72.8777"`
}

// TrackingConfig configures the periodic position push loop.
type TrackingConfig struct {
	// PushIntervalSeconds is the period between courier position pushes.
	PushIntervalSeconds int `mapstructure:"TRACKING_PUSH_INTERVAL_SECONDS" default:"10"`
	// ChannelPrefix is prepended to the order ID to form the pub/sub channel name.
	ChannelPrefix string `mapstructure:"TRACKING_CHANNEL_PREFIX" default:"courier.position."`
}

// RedisConfig holds redis connection details.
type RedisConfig struct {
	// URL is the redis connection URL (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// PostgresConfig holds the optional postgres connection details.
type PostgresConfig struct {
	// URL is the postgres connection URL. Only read when the geocode
	// cache backend is "postgres".
	URL string `mapstructure:"POSTGRES_URL"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.Geocoding.Provider == "google" && config.Geocoding.GoogleAPIKey == "" {
		return nil, errors.New("missing required configuration: GOOGLE_MAPS_API_KEY")
	}
	if config.Geocoding.CacheBackend == "postgres" && config.Postgres.URL == "" {
		return nil, errors.New("missing required configuration: POSTGRES_URL")
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
