// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfgPath := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	exporterURL := strings.TrimSpace(os.Getenv("EXPORTER_BASE_URL"))
	apiKey := strings.TrimSpace(os.Getenv("EXPORTER_API_KEY"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if cfgPath == "" {
		warn("CONFIG_PATH empty; the binary will look for ./llmvitals.yaml.")
	} else if _, err := os.Stat(cfgPath); err != nil {
		fail("CONFIG_PATH points at a missing file: " + cfgPath)
	} else {
		ok("CONFIG_PATH=" + cfgPath)
	}

	if exporterURL == "" {
		warn("EXPORTER_BASE_URL empty — the config file must carry exporter.base_url.")
	} else if !strings.HasPrefix(exporterURL, "http://") && !strings.HasPrefix(exporterURL, "https://") {
		fail("EXPORTER_BASE_URL is not a URL: " + exporterURL)
	} else {
		ok("EXPORTER_BASE_URL=" + exporterURL)
	}

	if apiKey == "" {
		warn("EXPORTER_API_KEY empty — monitor enrichment will be skipped.")
	} else {
		ok("EXPORTER_API_KEY present")
	}

	if db == "" {
		warn("DATABASE_URL empty — probe results will not be persisted.")
	} else {
		ok("DATABASE_URL present")
	}

	ok("preflight passed")
}
