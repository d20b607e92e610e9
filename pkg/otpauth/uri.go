// Package otpauth parses otpauth:// URIs into otp.Entry values, for
// importing credentials exported from another authenticator.
package otpauth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"aegisvault/pkg/otp"
)

// ErrUnrecognizedURIParameter is returned when an otpauth:// URI carries a
// query key other than the five this ingester understands.
var ErrUnrecognizedURIParameter = errors.New("otpauth: unrecognized URI parameter")

// ErrNotAnOTPAuthURI is returned when the URI scheme is not "otpauth".
var ErrNotAnOTPAuthURI = errors.New("otpauth: not an otpauth:// URI")

var recognizedQueryKeys = map[string]bool{
	"secret":    true,
	"algorithm": true,
	"digits":    true,
	"period":    true,
	"issuer":    true,
}

const (
	defaultDigits uint32 = 6
	defaultPeriod uint32 = 30
)

// ParseURI parses a single otpauth://<method>/<label>?secret=...&... URI
// into an Entry. Only the five query keys secret, algorithm, digits,
// period, and issuer are recognized; any other key is a hard error, since
// a URI is a trust boundary and garbage should be rejected rather than
// silently ignored.
func ParseURI(raw string) (otp.Entry, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return otp.Entry{}, fmt.Errorf("otpauth: parse URI: %w", err)
	}
	if u.Scheme != "otpauth" {
		return otp.Entry{}, ErrNotAnOTPAuthURI
	}

	method, err := otp.ParseMethod(u.Host)
	if err != nil {
		return otp.Entry{}, err
	}

	query := u.Query()
	for key := range query {
		if !recognizedQueryKeys[key] {
			return otp.Entry{}, fmt.Errorf("%w: %q", ErrUnrecognizedURIParameter, key)
		}
	}

	label := strings.TrimPrefix(u.Path, "/")

	digits := defaultDigits
	if s := query.Get("digits"); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return otp.Entry{}, fmt.Errorf("otpauth: invalid digits: %w", err)
		}
		digits = uint32(n)
	}

	algorithm := otp.DefaultAlgorithm
	if s := query.Get("algorithm"); s != "" {
		algorithm, err = otp.ParseAlgorithm(s)
		if err != nil {
			return otp.Entry{}, err
		}
	}

	entry := otp.Entry{
		Method: method,
		Label:  label,
		Issuer: query.Get("issuer"),
		Info: otp.Detail{
			Secret:    query.Get("secret"),
			Algorithm: algorithm,
			Digits:    digits,
		},
	}

	if method.IsTimeBased() {
		period := defaultPeriod
		if s := query.Get("period"); s != "" {
			n, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return otp.Entry{}, fmt.Errorf("otpauth: invalid period: %w", err)
			}
			period = uint32(n)
		}
		entry.Info.Period = &period
	}

	if method.IsEventBased() {
		// The otpauth query grammar this ingester accepts has no "counter"
		// key (SPEC_FULL.md §4.5 lists exactly five recognized keys), so a
		// freshly-imported HOTP entry always starts its counter at 0.
		counter := uint32(0)
		entry.Info.Counter = &counter
	}

	if entry.Issuer == "" {
		if err := entry.FixEmptyIssuer(); err != nil {
			return otp.Entry{}, err
		}
	}

	return entry, nil
}

// ParseURIFile reads one otpauth:// URI per line from r, skipping blank
// lines, and stops at the first parse failure — matching the CLI's policy
// that any parse error is fatal for the whole import.
func ParseURIFile(r io.Reader) ([]otp.Entry, error) {
	var entries []otp.Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := ParseURI(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("otpauth: read URI file: %w", err)
	}
	return entries, nil
}
