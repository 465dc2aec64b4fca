package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrSecretsNotFound = errors.New("secrets file not found")

type Secrets struct {
	FactSet FactSetSecrets `json:"factset"`
	Db      DbSecrets      `json:"db"`
	Email   EmailSecrets   `json:"email"`

	JwtSecret         string `json:"jwt"`
	CappingParamsFile string `json:"cappingParamsFile"`
}

type FactSetSecrets struct {
	UsernameSerial string `json:"usernameSerial"`
	ApiKey         string `json:"apiKey"`
	FormulaUrl     string `json:"formulaUrl"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`

	// full connection string, wins over the fields above
	Url string `json:"url"`
}

func (t DbSecrets) ToConnectionStr() string {
	if t.Url != "" {
		return t.Url
	}
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

type EmailSecrets struct {
	Region     string   `json:"region"`
	FromEmail  string   `json:"fromEmail"`
	Recipients []string `json:"recipients"`
}

func secretsFile() string {
	if f := os.Getenv("INDEXCAP_SECRETS_FILE"); f != "" {
		return f
	}
	switch strings.ToLower(os.Getenv("INDEXCAP_ENV")) {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	}
	return "/go/src/app/secrets.json"
}

// LoadSecrets reads the JSON secrets file for the current environment
// and applies env overrides on top. A .env file is loaded first if
// present; variables already set in the shell take precedence over it.
// A missing secrets file is fine as long as the environment provides
// what is needed.
func LoadSecrets() (*Secrets, error) {
	_ = godotenv.Load()

	secrets := Secrets{}
	f, err := os.ReadFile(secretsFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(f, &secrets); err != nil {
			return nil, fmt.Errorf("failed to parse secrets file: %w", err)
		}
	}

	applyEnvOverrides(&secrets)

	if err != nil && secrets.Db.Url == "" && secrets.FactSet.ApiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrSecretsNotFound, secretsFile())
	}

	return &secrets, nil
}

func applyEnvOverrides(s *Secrets) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"FACTSET_USERNAME_SERIAL", &s.FactSet.UsernameSerial},
		{"FACTSET_API_KEY", &s.FactSet.ApiKey},
		{"FACTSET_FORMULA_URL", &s.FactSet.FormulaUrl},
		{"PG_URL", &s.Db.Url},
		{"SES_REGION", &s.Email.Region},
		{"SES_FROM_EMAIL", &s.Email.FromEmail},
		{"JWT_SECRET", &s.JwtSecret},
		{"CAPPING_PARAMS_FILE", &s.CappingParamsFile},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.target = v
		}
	}

	if v := os.Getenv("NOTIFY_RECIPIENTS"); v != "" {
		recipients := []string{}
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				recipients = append(recipients, r)
			}
		}
		s.Email.Recipients = recipients
	}
}
