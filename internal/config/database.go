package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ConnString returns the effective Postgres connection string. An
// explicit DSN wins; otherwise one is assembled from the discrete
// fields.
func (c *DatabaseConfig) ConnString() string {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}

	query := url.Values{}
	if c.SSLMode != "" {
		query.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = query.Encode()

	return u.String()
}

// readSecretFile reads a secret value from a file, trimming trailing
// whitespace so a newline at the end of the file is harmless.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	secret := strings.TrimRight(string(data), "\r\n \t")
	if secret == "" {
		return "", fmt.Errorf("secret file %q is empty", path)
	}
	return secret, nil
}
