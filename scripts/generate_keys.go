//go:build ignore

// This script generates secrets for the packing slip service and, optionally,
// a signed bearer token for local testing.
//
//	go run scripts/generate_keys.go
//	go run scripts/generate_keys.go -secret <JWT_SECRET_KEY> -sub user-7 -roles packer
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}

func main() {
	secret := flag.String("secret", "", "sign a test token with this JWT_SECRET_KEY instead of generating keys")
	subject := flag.String("sub", "dev-user", "token subject")
	roles := flag.String("roles", "packer", "comma separated token roles")
	issuer := flag.String("iss", "", "token issuer, must match JWT_ISSUER when set")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *secret != "" {
		claims := jwt.MapClaims{
			"sub":   *subject,
			"roles": strings.Split(*roles, ","),
			"iat":   time.Now().Unix(),
			"exp":   time.Now().Add(*ttl).Unix(),
		}
		if *issuer != "" {
			claims["iss"] = *issuer
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
		if err != nil {
			fail("signing token", err)
		}
		fmt.Printf("Authorization: Bearer %s\n", token)
		return
	}

	fmt.Println("=== Packing Slip Service Key Generator ===")
	fmt.Println()

	// 32 bytes = 256 bits, the HS256 key size
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fail("generating JWT secret", err)
	}

	apiKey, err := generateSecureKey(24)
	if err != nil {
		fail("generating API key", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("AUTH_ENABLED=true")
	fmt.Println()
	fmt.Println("# Bearer tokens (shared with the identity provider that issues them)")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Println("AUTH_WRITE_ROLES=packer,admin")
	fmt.Println()
	fmt.Println("# API keys (used when JWT_SECRET_KEY is empty)")
	fmt.Printf("API_KEYS=%s\n", apiKey)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment (dev, staging, prod)")
	fmt.Println("- Store production keys in a secure secret manager")
}
