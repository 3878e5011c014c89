// Package config holds runtime settings for the tosforge server.
package config

import "time"

type Config struct {
	Addr      string `koanf:"addr"`
	PublicURL string `koanf:"public_url"`

	DBDriver string `koanf:"db_driver"` // sqlite|postgres
	DBDSN    string `koanf:"db_dsn"`

	OutputDir string `koanf:"output_dir"` // where generated .docx copies land

	CORSOrigins []string `koanf:"cors_origins"`

	// Optional local auth. Off by default: the tool usually runs on a
	// teacher's own machine or a school LAN.
	EnableAuth    bool   `koanf:"enable_auth"`
	AuthSecret    string `koanf:"auth_secret"`
	AdminUser     string `koanf:"admin_user"`
	AdminPassHash string `koanf:"admin_pass_hash"` // bcrypt

	// AI drafting. Provider "" disables the AI path entirely.
	AIProvider      string        `koanf:"ai_provider"` // ""|anthropic|openai
	AIModel         string        `koanf:"ai_model"`
	AIBaseURL       string        `koanf:"ai_base_url"` // openai-compatible; point at a local server if you have one
	AITimeout       time.Duration `koanf:"ai_timeout"`
	AnthropicAPIKey string        `koanf:"anthropic_api_key"`
	OpenAIAPIKey    string        `koanf:"openai_api_key"`

	DefaultSchool string `koanf:"default_school"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Addr:        ":8080",
		DBDriver:    "sqlite",
		OutputDir:   "./data",
		CORSOrigins: []string{"http://localhost:3000"},
		AITimeout:   60 * time.Second,
	}
}
