// Command hash-generator prints password digests in the format stored by the
// API, for seeding databases and fixtures.
//
//	hash-generator -algorithm=argon2id password1 password2
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
)

func main() {
	algorithm := flag.String("algorithm", config.DefaultPasswordAlgorithm, "bcrypt or argon2id")
	cost := flag.Int("cost", config.DefaultBCryptCost, "bcrypt cost")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-algorithm=bcrypt|argon2id] [-cost=N] password...")
		os.Exit(2)
	}

	hasher, err := auth.NewPasswordHasher(config.AuthConfig{
		PasswordAlgorithm: *algorithm,
		BCryptCost:        *cost,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, password := range flag.Args() {
		digest, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating hash: %v\n", err)
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", password, digest)
	}
}
