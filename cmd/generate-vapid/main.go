// Command generate-vapid prints a fresh VAPID key pair in .env format.
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
)

func main() {
	out := flag.String("out", "", "also write the keys to this file")
	subject := flag.String("subject", "mailto:admin@time.com", "VAPID subject")
	flag.Parse()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Fatalf("generate VAPID keys: %v", err)
	}
	if _, err := base64.RawURLEncoding.DecodeString(publicKey); err != nil {
		log.Fatalf("generated public key is not base64url: %v", err)
	}

	envContent := fmt.Sprintf("VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\nVAPID_SUBJECT=%s\n", publicKey, privateKey, *subject)
	if *out != "" {
		if err := os.WriteFile(*out, []byte(envContent), 0o600); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
		fmt.Fprintln(os.Stderr, "keys written to", *out)
	}
	fmt.Print(envContent)
}
