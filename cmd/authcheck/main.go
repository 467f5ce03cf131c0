// Command authcheck validates Google Drive and Google Sheets access
// with the configured service-account credentials.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"celldata/adapters/drive"
	"celldata/adapters/googleauth"
	"celldata/adapters/sheets"
	"celldata/internal"
	"celldata/internal/config"
)

func main() {
	_ = godotenv.Load()
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("using service account file: %s\n", cfg.Google.CredentialsFile)

	ctx := context.Background()
	creds, err := googleauth.Load(ctx, cfg.Google.CredentialsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "credentials: %v\n", err)
		os.Exit(1)
	}

	ok := true
	if client, err := drive.NewClient(ctx, creds, cfg.Google.DriveFolderID, logger); err != nil {
		fmt.Printf("google drive client build failed: %v\n", err)
		ok = false
	} else if err := client.ValidateAccess(ctx); err != nil {
		fmt.Printf("google drive access failed: %v\n", err)
		ok = false
	} else {
		fmt.Println("google drive access validated")
	}

	if store, err := sheets.NewStore(ctx, creds, cfg.Google.SpreadsheetID, cfg.Loader.RequiredFields, logger); err != nil {
		fmt.Printf("google sheets client build failed: %v\n", err)
		ok = false
	} else if err := store.ValidateAccess(ctx); err != nil {
		fmt.Printf("google sheets access failed: %v\n", err)
		ok = false
	} else {
		fmt.Println("google sheets access validated")
	}

	if !ok {
		fmt.Println("google auth validation FAILED")
		os.Exit(1)
	}
	fmt.Println("google auth validation PASSED")
}
