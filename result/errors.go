package result

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
)

// ErrorCategory classifies why a link did not come back alive.
type ErrorCategory string

const (
	CategoryNone              ErrorCategory = ""
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTLS               ErrorCategory = "tls"
	CategoryRedirectLoop      ErrorCategory = "redirect_loop"
	CategoryRobots            ErrorCategory = "robots_disallowed"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ClassifyError determines the error category from a transport error and,
// when a response was received, its HTTP status code.
func ClassifyError(err error, statusCode int) ErrorCategory {
	if statusCode > 0 {
		switch {
		case statusCode >= 400 && statusCode <= 499:
			return Category4xx
		case statusCode >= 500:
			return Category5xx
		}
	}

	if err == nil {
		if statusCode > 0 {
			return CategoryUnknown
		}
		return CategoryNone
	}

	// net/http reports redirect exhaustion as a plain error string.
	if strings.Contains(err.Error(), "stopped after") && strings.Contains(err.Error(), "redirects") {
		return CategoryRedirectLoop
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuth) || errors.As(err, &hostnameErr) {
		return CategoryTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryTLS:
		return "TLS Errors"
	case CategoryRedirectLoop:
		return "Redirect Loops"
	case CategoryRobots:
		return "Disallowed by robots.txt"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	default:
		return "Other Errors"
	}
}
