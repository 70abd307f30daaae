package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials are the process-wide secrets, read once at startup and never
// mutated afterwards.
type Credentials struct {
	// GoogleRaw is the GOOGLE_CREDENTIALS service-account blob, kept verbatim
	// for the oauth2 JWT config.
	GoogleRaw []byte
	// Google carries the fields we actually look at.
	Google *ServiceAccount

	HFToken      string
	GeminiAPIKey string
}

// ServiceAccount is the subset of a Google service-account key file that the
// tool inspects.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// LoadCredentials reads secrets from the environment. An absent
// GOOGLE_CREDENTIALS is allowed (the tool then runs from the offline cache);
// a present but malformed one is a startup error.
func LoadCredentials() (*Credentials, error) {
	return loadCredentials(os.Getenv)
}

func loadCredentials(getenv func(string) string) (*Credentials, error) {
	creds := &Credentials{
		HFToken:      getenv("HF_TOKEN"),
		GeminiAPIKey: getenv("GEMINI_API_KEY"),
	}

	raw := getenv("GOOGLE_CREDENTIALS")
	if raw == "" {
		return creds, nil
	}

	var sa ServiceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS is not valid JSON: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS is missing client_email or private_key")
	}

	creds.GoogleRaw = []byte(raw)
	creds.Google = &sa
	return creds, nil
}

// HasGoogle reports whether a usable service account was supplied.
func (c *Credentials) HasGoogle() bool {
	return c.Google != nil
}
