// Command devtoken prints a signed access token for local testing against
// the API, using the same JWT_SECRET_KEY as the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "dev-user", "user_id claim")
	role := flag.String("role", "hr", "role claim: employee, hr or admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating JWT service:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwtService.GenerateAccessToken(*userID, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error signing token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
