package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	Kafka    KafkaSettings    `mapstructure:"kafka"`
	OTP      OTPSettings      `mapstructure:"otp"`
	JWT      JWTSettings      `mapstructure:"jwt"`
	Twilio   TwilioSettings   `mapstructure:"twilio"`
	S3       S3Settings       `mapstructure:"s3"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// KafkaSettings configures the event publisher. An empty broker list selects
// the logging stub publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// OTPSettings governs one-time passcode issuance.
type OTPSettings struct {
	TTL    time.Duration `mapstructure:"ttl"`
	Length int           `mapstructure:"length"`
}

// JWTSettings governs access token minting and the session sliding window.
type JWTSettings struct {
	TokenLifetime    time.Duration `mapstructure:"token_lifetime"`
	RenewalThreshold time.Duration `mapstructure:"renewal_threshold"`
	SigningSecret    string        `mapstructure:"signing_secret"`
	SigningAlgorithm string        `mapstructure:"signing_algorithm"`
}

// TwilioSettings configures outbound SMS. Missing credentials switch the
// sender into the local logging mode.
type TwilioSettings struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
}

// S3Settings configures profile image storage.
type S3Settings struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	AccessKeyID  string `mapstructure:"access_key_id"`
	SecretKey    string `mapstructure:"secret_key"`
	Endpoint     string `mapstructure:"endpoint"`
	BaseURL      string `mapstructure:"base_url"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("AUTH")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"kafka.brokers",
		"kafka.topic_prefix",
		"otp.ttl",
		"otp.length",
		"jwt.token_lifetime",
		"jwt.renewal_threshold",
		"jwt.signing_secret",
		"jwt.signing_algorithm",
		"twilio.account_sid",
		"twilio.auth_token",
		"twilio.from_number",
		"s3.bucket",
		"s3.region",
		"s3.access_key_id",
		"s3.secret_key",
		"s3.endpoint",
		"s3.base_url",
		"s3.use_path_style",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "suvichar-auth")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "suvichar")
	v.SetDefault("postgres.password", "suvichar_password")
	v.SetDefault("postgres.database", "suvichar")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "auth")

	v.SetDefault("otp.ttl", "5m")
	v.SetDefault("otp.length", 6)

	v.SetDefault("jwt.token_lifetime", "168h")
	v.SetDefault("jwt.renewal_threshold", "1h")
	v.SetDefault("jwt.signing_secret", "")
	v.SetDefault("jwt.signing_algorithm", "HS512")

	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.from_number", "")

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.base_url", "")
	v.SetDefault("s3.use_path_style", false)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "AUTH_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
