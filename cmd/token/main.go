// Command token mints a practitioner session token. There is no interactive
// login flow; the practitioner's JWT is issued out of band with this tool
// (or by the hosting platform) and configured into the client.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/psipro/platform/internal/auth"
	appconfig "github.com/psipro/platform/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	practitionerID := flag.String("practitioner", "", "practitioner id to embed as the token subject")
	ttl := flag.Duration("ttl", cfg.TokenTTL, "token lifetime")
	flag.Parse()

	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if *practitionerID == "" {
		fmt.Fprintln(os.Stderr, "-practitioner is required")
		os.Exit(1)
	}

	token, err := auth.IssueToken(cfg.JWTSecret, *practitionerID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
