// Package googleauth loads the service-account credentials shared by the
// Drive and Sheets collaborators. Clients are constructed once from the
// returned option and passed explicitly; there is no process-global cache.
package googleauth

import (
	"context"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "celldata/internal/errors"
)

// RequiredScopes are the read-only scopes both collaborators need
func RequiredScopes() []string {
	return []string{
		drive.DriveReadonlyScope,
		sheets.SpreadsheetsReadonlyScope,
	}
}

// Load reads a service-account key file and returns a client option
// carrying credentials scoped to read-only Drive and Sheets access.
func Load(ctx context.Context, credentialsFile string) (option.ClientOption, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ConfigInvalid(
				"service account file not found at '" + credentialsFile +
					"'; set SERVICE_ACCOUNT_FILE or place credentials.json in the project root")
		}
		return nil, apperrors.Wrapf(err, "reading service account file '%s'", credentialsFile)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, RequiredScopes()...)
	if err != nil {
		return nil, apperrors.ConfigInvalid("invalid service account credentials: " + err.Error())
	}
	return option.WithCredentials(creds), nil
}
