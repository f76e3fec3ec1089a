package mdns

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/enbility/zeroconf/v3"
)

const defaultTimeout = 5 * time.Second

// BrowseFunc matches zeroconf.Browse.
type BrowseFunc func(ctx context.Context, service, domain string, entries, removed chan<- *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error

// Logger is the logging surface used by the locator.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Locator browses for a single service instance.
type Locator struct {
	service string
	domain  string
	timeout time.Duration
	browse  BrowseFunc
	logger  Logger
}

// NewLocator creates a locator for the given DNS-SD service type, e.g.
// "_chariott._tcp" in domain "local.".
func NewLocator(service, domain string, timeout time.Duration) *Locator {
	if domain == "" {
		domain = "local."
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Locator{
		service: service,
		domain:  domain,
		timeout: timeout,
		browse:  zeroconf.Browse,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger.
func (l *Locator) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	l.logger = logger
}

// Locate returns the address of the first instance found, formatted as
// "http://host:port".
func (l *Locator) Locate(parent context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(parent, l.timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	browseErr := make(chan error, 1)

	go func() {
		browseErr <- l.browse(ctx, l.service, l.domain, entries, removed)
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				continue
			}
			addr, ok := entryAddress(entry)
			if !ok {
				l.logger.Debug("mdns entry without usable address", "instance", entry.Instance)
				continue
			}
			l.logger.Debug("registry located", "instance", entry.Instance, "address", addr)
			return addr, nil

		case <-removed:

		case err := <-browseErr:
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrBrowseFailed, err)
			}
			browseErr = nil

		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: %s in %s after %s", ErrNotFound, l.service, l.domain, l.timeout)
		}
	}
}

// entryAddress prefers IPv4, then IPv6, then the advertised host name.
func entryAddress(entry *zeroconf.ServiceEntry) (string, bool) {
	if entry == nil || entry.Port <= 0 {
		return "", false
	}
	port := strconv.Itoa(entry.Port)

	var host string
	switch {
	case len(entry.AddrIPv4) > 0:
		host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		host = entry.AddrIPv6[0].String()
	case entry.HostName != "":
		host = strings.TrimSuffix(entry.HostName, ".")
	default:
		return "", false
	}

	return "http://" + net.JoinHostPort(host, port), true
}
