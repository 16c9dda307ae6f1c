package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/mailmerge/pkg/transport/gmail"
	"github.com/dmitrymomot/mailmerge/pkg/transport/resend"
	"github.com/dmitrymomot/mailmerge/pkg/transport/smtp"
)

const defaultConfigFile = "mailmerge.yaml"

// config is the CLI configuration file. Every credential can also come
// from the environment, which wins over the file.
type config struct {
	// Transport picks the send implementation: "smtp" (default) or "resend".
	Transport string        `yaml:"transport"`
	SMTP      smtp.Config   `yaml:"smtp"`
	Resend    resend.Config `yaml:"resend"`
	Gmail     gmail.Config  `yaml:"gmail"`
	// Delay is the pause between deliveries, e.g. "5s".
	Delay string `yaml:"delay"`
}

// delay parses the configured inter-send pause. Empty means no pause.
func (c *config) delay() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", c.Delay, err)
	}
	return d, nil
}

// loadConfig reads the YAML config file when it exists and applies
// environment overrides. A missing file is fine as long as the environment
// carries what the chosen command needs.
func loadConfig(path string) (*config, error) {
	cfg := &config{Transport: "smtp"}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == defaultConfigFile:
		// Optional when not explicitly requested.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)
	if cfg.Gmail.TokenFile == "" {
		cfg.Gmail.TokenFile = "token.json"
	}
	return cfg, nil
}

func applyEnv(cfg *config) {
	setString(&cfg.Transport, "MAILMERGE_TRANSPORT")
	setString(&cfg.SMTP.Host, "MAILMERGE_SMTP_HOST")
	setString(&cfg.SMTP.Username, "MAILMERGE_SMTP_USERNAME")
	setString(&cfg.SMTP.Password, "MAILMERGE_SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "MAILMERGE_FROM")
	if v := os.Getenv("MAILMERGE_SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	setString(&cfg.Resend.APIKey, "RESEND_API_KEY")
	setString(&cfg.Resend.SenderEmail, "RESEND_SENDER_EMAIL")
	setString(&cfg.Resend.SenderName, "RESEND_SENDER_NAME")
	setString(&cfg.Gmail.CredentialsFile, "MAILMERGE_GMAIL_CREDENTIALS")
	setString(&cfg.Gmail.TokenFile, "MAILMERGE_GMAIL_TOKEN")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
