// Command aegisvault imports a file of otpauth:// URIs (one per line) and
// writes an encrypted Aegis vault.
//
// Usage:
//
//	aegisvault [-out <path>] [-log-level <level>] <uris-file>
//
// The passphrase is read from the controlling terminal without echo.
// Encrypted JSON is written to stdout unless -out is given. Exit code 0 on
// success, non-zero on any parse, crypto, or I/O failure.
package main

import (
	"flag"
	"fmt"
	"os"

	"aegisvault/pkg/logging"
	"aegisvault/pkg/otpauth"
	"aegisvault/pkg/secureterm"
	"aegisvault/pkg/vault"
)

func main() {
	var (
		outPath  = flag.String("out", "", "write the encrypted vault here instead of stdout")
		logLevel = flag.String("log-level", "info", "debug, info, warn, or error")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	level, err := logging.ParseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aegisvault: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(&logging.Config{
		Level:    level,
		Format:   logging.TextFormat,
		Output:   os.Stderr,
		Sanitize: true,
	}).WithComponent("cli")

	if err := run(flag.Arg(0), *outPath, log); err != nil {
		fmt.Fprintf(os.Stderr, "aegisvault: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: aegisvault [-out <path>] [-log-level <level>] <uris-file>")
	flag.PrintDefaults()
}

func run(uriFilePath, outPath string, log *logging.Logger) error {
	f, err := os.Open(uriFilePath)
	if err != nil {
		return fmt.Errorf("open URI file: %w", err)
	}
	defer f.Close()

	entries, err := otpauth.ParseURIFile(f)
	if err != nil {
		return fmt.Errorf("parse URI file: %w", err)
	}
	log.Info("parsed entries from URI file", map[string]interface{}{"count": len(entries)})

	passphrase, err := secureterm.PromptWithConfirmation("Vault passphrase")
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}

	env := vault.NewEnvelope()
	for _, entry := range entries {
		if err := env.AddEntry(entry); err != nil {
			return fmt.Errorf("add entry: %w", err)
		}
	}

	out := os.Stdout
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := env.Save(out, passphrase); err != nil {
		return fmt.Errorf("encrypt and write vault: %w", err)
	}

	log.Info("vault written", map[string]interface{}{"entries": len(entries)})
	return nil
}
