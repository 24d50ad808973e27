package http

import (
	"context"
	"errors"
	"net"
	neturl "net/url"
	"syscall"
)

// Transport failure codes. They mirror the errno style names callers already
// know from other HTTP tooling so they are stable across platforms.
const (
	CodeConnectionRefused = "ECONNREFUSED"
	CodeConnectionReset   = "ECONNRESET"
	CodeHostNotFound      = "ENOTFOUND"
	CodeTimeout           = "ETIMEDOUT"
	CodeCanceled          = "ERR_CANCELED"
	CodeInvalidURL        = "ERR_INVALID_URL"
	CodeNetwork           = "ERR_NETWORK"
)

// ErrorCode maps a transport failure to a stable code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrUnsupportedScheme), errors.Is(err, ErrMissingHost):
		return CodeInvalidURL
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeConnectionRefused
	case errors.Is(err, syscall.ECONNRESET):
		return CodeConnectionReset
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return CodeTimeout
		}
		return CodeHostNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	var urlErr *neturl.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return CodeInvalidURL
	}

	return CodeNetwork
}

// IsConnectionRefused reports whether err means the remote refused the connection.
func IsConnectionRefused(err error) bool {
	return ErrorCode(err) == CodeConnectionRefused
}
