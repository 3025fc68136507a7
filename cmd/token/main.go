package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"stopshot/pkg/config"
	"stopshot/pkg/middleware"
	"stopshot/pkg/model"
)

const JobName = "token"

// token mints a signed access token with JWT_SECRET for local testing, e.g.
//
//	go run ./cmd/token -role BAR_MANAGER -sub manager@stopshot.bar
func main() {
	role := flag.String("role", string(model.RoleCustomer), "role claim")
	subject := flag.String("sub", "", "subject claim, usually the account email")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load(JobName)
	if cfg.JWTSecret == "" {
		cfg.Log.Fatal("JWT_SECRET is not set")
	}

	r := model.Role(strings.ToUpper(strings.TrimSpace(*role)))
	if !r.Valid() {
		cfg.Log.Fatal("Unknown role", "role", *role)
	}

	tok, err := middleware.IssueToken(cfg.JWTSecret, *subject, r, *ttl)
	if err != nil {
		cfg.Log.Fatal("Failed to sign token", "error", err)
	}
	fmt.Fprintln(os.Stdout, tok)
}
