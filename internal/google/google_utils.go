package google

import (
	"io/ioutil"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// defaultCredentialsPath is used when no credentials are configured
const defaultCredentialsPath = "./keys/credentials.json"

// ReadCredentials returns the service account key. value is either the inline JSON key or a path to it.
func ReadCredentials(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}

	if trimmed == "" {
		trimmed = defaultCredentialsPath
	}

	return ioutil.ReadFile(trimmed)
}

// ServiceAccountEmail returns the address the spreadsheet has to be shared with
func ServiceAccountEmail(credentialsJSON []byte) (string, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return "", err
	}

	return config.Email, nil
}
