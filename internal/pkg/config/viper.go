package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envBindings maps config keys onto the environment variable names the
// deployment targets (Vercel, Netlify, plain hosts) are configured with.
var envBindings = map[string]string{
	"app.name":                    "APP_NAME",
	"app.server.http.address":     "HTTP_ADDRESS",
	"app.server.cors":             "CORS_ALLOWED_ORIGINS",
	"app.maintenance.endpoints":   "MAINTENANCE_ENDPOINTS",
	"instrument.enabled":          "OTEL_ENABLED",
	"instrument.service_name":     "OTEL_SERVICE_NAME",
	"instrument.otlp_endpoint":    "OTEL_EXPORTER_OTLP_ENDPOINT",
	"mail.driver":                 "MAIL_DRIVER",
	"mail.smtp.host":              "SMTP_HOST",
	"mail.smtp.port":              "SMTP_PORT",
	"mail.smtp.username":          "SMTP_USER",
	"mail.smtp.password":          "SMTP_PASS",
	"mail.smtp.secure":            "SMTP_SECURE",
	"mail.from":                   "SMTP_FROM",
	"mail.to":                     "TO_EMAIL",
	"mail.postmark.server_token":  "POSTMARK_SERVER_TOKEN",
	"mail.postmark.account_token": "POSTMARK_ACCOUNT_TOKEN",
	"mail.mailgun.api_key":        "MAILGUN_API_KEY",
	"mail.mailgun.domain":         "MAILGUN_DOMAIN",
	"mail.mailgun.region":         "MAILGUN_REGION",
	"mail.resend.api_key":         "RESEND_API_KEY",
	"mail.ses.region":             "AWS_REGION",
	"mail.ses.endpoint":           "SES_ENDPOINT",
}

var defaults = map[string]any{
	"app.name":                                    "naghma-tea",
	"app.server.http.address":                     ":8080",
	"app.server.http.read_timeout_seconds":        10,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       10,
	"app.server.http.idle_timeout_seconds":        60,
	"app.server.cors":                             "*",
	"app.maintenance.endpoints":                   "",
	"instrument.enabled":                          false,
	"instrument.service_name":                     "naghma-tea",
	"instrument.service_version":                  "dev",
	"instrument.env":                              "local",
	"instrument.otlp_endpoint":                    "localhost:4317",
	"instrument.otlp_secure":                      false,
	"instrument.trace_sample_ratio":               1.0,
	"instrument.metric_interval_seconds":          60,
	"instrument.log_mask_fields":                  "customerEmail,customerPhone,authorization,cookie",
	"mail.driver":                                 "smtp",
	"mail.mailgun.region":                         "us",
}

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		//nolint:errcheck // BindEnv only fails on an empty key
		v.BindEnv(key, env)
	}

	return v
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension. A
// missing file is not an error: serverless targets run from environment
// variables and defaults alone. An existing file is watched for changes.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	if strings.TrimSpace(pathFile) == "" {
		return &Viper{v: v}, nil
	}

	if _, err := os.Stat(pathFile); errors.Is(err, fs.ErrNotExist) {
		slog.Info("config file not found, using defaults and environment", "path", pathFile)
		return &Viper{v: v}, nil
	}

	filename := path.Base(pathFile)
	configName := filename[:len(filename)-len(path.Ext(filename))]

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "err", err)
			return
		}
		slog.Info("config success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetArray returns the value for key split by commas.
func (vc *Viper) GetArray(key string) []string {
	parts := strings.Split(vc.v.GetString(key), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}
