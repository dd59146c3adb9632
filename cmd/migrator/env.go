package main

import (
	"fmt"
	"os"
)

// dsnFromEnv builds the DSN from the same DB_* variables the server reads.
func dsnFromEnv() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	auth := getenv("DB_USER", "root")
	if pass := os.Getenv("DB_PASS"); pass != "" {
		auth += ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s", auth, host, getenv("DB_PORT", "3306"), getenv("DB_NAME", "marlett"))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
