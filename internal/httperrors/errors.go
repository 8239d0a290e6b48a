// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for GitHub API requests.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/logging"

	"github.com/google/go-github/v57/github"
	"github.com/pterm/pterm"
)

// Category classifies a failed request for display.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
	RateLimited
	Unauthorized
)

// FormatNetworkError converts technical HTTP/network errors into user-friendly
// messages printed on w, and returns err wrapped for logging.
func FormatNetworkError(w io.Writer, err error, context string) error {
	if err == nil {
		return nil
	}
	pterm.Fprint(w, Describe(err, context))
	return fmt.Errorf("request failed while %s: %w", context, err)
}

// Classify detects the kind of failure behind err.
func Classify(err error) Category {
	if err == nil {
		return Generic
	}
	var rle *github.RateLimitError
	var are *github.AbuseRateLimitError
	if errors.As(err, &rle) || errors.As(err, &are) {
		return RateLimited
	}
	if apperrors.Is(err, apperrors.Authentication) {
		return Unauthorized
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch {
		case er.Response.StatusCode == http.StatusUnauthorized:
			return Unauthorized
		case er.Response.StatusCode >= 500:
			return Server
		}
	}
	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	case isServerError(err.Error()):
		return Server
	}
	return Generic
}

// Describe returns the guidance shown for err.
func Describe(err error, context string) string {
	var b strings.Builder
	line := func(s string) { b.WriteString(s + "\n") }

	switch Classify(err) {
	case Timeout:
		line(fmt.Sprintf("Connection timeout while %s", context))
		line("")
		line("GitHub took too long to respond. This could mean:")
		line("  • Slow internet connection")
		line("  • Network firewall is blocking the connection")
		line("")
		line("Please try again in a few moments.")
	case DNS:
		line(fmt.Sprintf("Cannot resolve server address while %s", context))
		line("")
		line("Unable to look up api.github.com. Please check:")
		line("  • Your internet connection is working")
		line("  • DNS settings are correct")
		line("  • api_url in the gisthub config, if you use GitHub Enterprise")
	case ConnectionRefused:
		line(fmt.Sprintf("Connection refused while %s", context))
		line("")
		line("The server is not accepting connections. Check api_url and any proxy settings.")
	case TLS:
		line(fmt.Sprintf("Secure connection failed while %s", context))
		line("")
		line("Cannot establish a secure HTTPS connection. Try:")
		line("  • Check your system date and time")
		line("  • Verify network proxy settings")
	case Server:
		line(fmt.Sprintf("GitHub server error while %s", context))
		line("")
		line("This is not a problem with your setup. Check https://www.githubstatus.com and try again later.")
	case RateLimited:
		line(fmt.Sprintf("GitHub rate limit exceeded while %s", context))
		line("")
		if reset := rateLimitReset(err); !reset.IsZero() {
			line(fmt.Sprintf("The limit resets at %s.", reset.Local().Format(time.Kitchen)))
		}
		line("Anonymous requests have a much lower limit; run 'gisthub login' to raise it.")
	case Unauthorized:
		line(fmt.Sprintf("GitHub rejected the credentials while %s", context))
		line("")
		line("Run 'gisthub login' or 'gisthub connect --token <token>' to authenticate again.")
	default:
		line(fmt.Sprintf("Cannot reach GitHub while %s", context))
		line("")
		line("Please check:")
		line("  • Your internet connection")
		line("  • Firewall settings that might block HTTPS requests")
		if details := logging.Mask(err.Error()); details != "" {
			if len(details) > 100 {
				details = details[:100] + "..."
			}
			line("")
			line("Technical details: " + details)
		}
	}
	return b.String()
}

func rateLimitReset(err error) time.Time {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return rle.Rate.Reset.Time
	}
	var are *github.AbuseRateLimitError
	if errors.As(err, &are) && are.RetryAfter != nil {
		return time.Now().Add(*are.RetryAfter)
	}
	return time.Time{}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
