package mdns

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(instance, host string, port int, ips ...net.IP) *zeroconf.ServiceEntry {
	entry := &zeroconf.ServiceEntry{}
	entry.Instance = instance
	entry.HostName = host
	entry.Port = port
	for _, ip := range ips {
		if ip.To4() != nil {
			entry.AddrIPv4 = append(entry.AddrIPv4, ip)
		} else {
			entry.AddrIPv6 = append(entry.AddrIPv6, ip)
		}
	}
	return entry
}

// scriptedBrowse emits the given entries then blocks until ctx ends.
func scriptedBrowse(found ...*zeroconf.ServiceEntry) BrowseFunc {
	return func(ctx context.Context, _, _ string, entries, _ chan<- *zeroconf.ServiceEntry, _ ...zeroconf.ClientOption) error {
		for _, e := range found {
			select {
			case entries <- e:
			case <-ctx.Done():
				return nil
			}
		}
		<-ctx.Done()
		return nil
	}
}

func TestEntryAddress(t *testing.T) {
	tests := []struct {
		name  string
		entry *zeroconf.ServiceEntry
		want  string
		ok    bool
	}{
		{"ipv4 preferred", newEntry("r", "host.local.", 50000, net.ParseIP("fe80::1"), net.ParseIP("192.168.1.20")), "http://192.168.1.20:50000", true},
		{"ipv6 bracketed", newEntry("r", "host.local.", 50000, net.ParseIP("fe80::1")), "http://[fe80::1]:50000", true},
		{"hostname fallback", newEntry("r", "registry.local.", 50000), "http://registry.local:50000", true},
		{"no port", newEntry("r", "registry.local.", 0), "", false},
		{"nothing usable", newEntry("r", "", 50000), "", false},
		{"nil entry", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := entryAddress(tt.entry)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocator_Locate(t *testing.T) {
	l := NewLocator("_chariott._tcp", "", time.Second)
	l.browse = scriptedBrowse(
		newEntry("bad", "", 0),
		newEntry("registry", "registry.local.", 50000, net.ParseIP("10.0.0.7")),
	)

	addr, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.7:50000", addr)
}

func TestLocator_Timeout(t *testing.T) {
	l := NewLocator("_chariott._tcp", "local.", 20*time.Millisecond)
	l.browse = scriptedBrowse()

	_, err := l.Locate(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocator_ParentCancelled(t *testing.T) {
	l := NewLocator("_chariott._tcp", "local.", time.Minute)
	l.browse = scriptedBrowse()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Locate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocator_BrowseError(t *testing.T) {
	l := NewLocator("_chariott._tcp", "local.", time.Second)
	l.browse = func(context.Context, string, string, chan<- *zeroconf.ServiceEntry, chan<- *zeroconf.ServiceEntry, ...zeroconf.ClientOption) error {
		return errors.New("no multicast interface")
	}

	_, err := l.Locate(context.Background())
	assert.ErrorIs(t, err, ErrBrowseFailed)
}
