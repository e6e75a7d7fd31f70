// Command devtoken mints an access token for local development. It reads
// the server's config file and flags (-c, -s, -t) so the token is signed
// with the same secret the server verifies with.
//
//	devtoken -principal alice@example.com -s secretKey -t 60
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/rateday/internal/flagx"
	"github.com/dmitrijs2005/rateday/internal/server/auth"
	"github.com/dmitrijs2005/rateday/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	var principal string
	fs := flag.NewFlagSet("devtoken", flag.ExitOnError)
	fs.StringVar(&principal, "principal", "", "principal id to embed in the token")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-principal"}))

	if principal == "" {
		log.Fatal("-principal is required")
	}

	token, err := auth.GenerateToken(principal, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
