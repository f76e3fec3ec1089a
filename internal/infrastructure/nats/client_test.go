package nats

import (
	"testing"
	"time"

	gonats "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

func applied(t *testing.T, opts []gonats.Option) gonats.Options {
	t.Helper()
	o := gonats.GetDefaultOptions()
	for _, opt := range opts {
		require.NoError(t, opt(&o))
	}
	return o
}

func TestConnectionOptions(t *testing.T) {
	o := applied(t, connectionOptions(pubsub.ConnectOptions{
		ClientID:       "smart-trailer-consumer-1",
		KeepAlive:      15 * time.Second,
		ConnectTimeout: 3 * time.Second,
	}))

	assert.Equal(t, "smart-trailer-consumer-1", o.Name)
	assert.Equal(t, 15*time.Second, o.PingInterval)
	assert.Equal(t, maxPingsOut, o.MaxPingsOut)
	assert.Equal(t, 3*time.Second, o.Timeout)
	assert.False(t, o.AllowReconnect)
}

func TestConnectionOptions_Defaults(t *testing.T) {
	o := applied(t, connectionOptions(pubsub.ConnectOptions{ClientID: "c"}))

	assert.Equal(t, defaultKeepAlive, o.PingInterval)
	assert.Equal(t, defaultConnectTimeout, o.Timeout)
}

func TestConnect_Unreachable(t *testing.T) {
	c := New("nats://127.0.0.1:1")

	err := c.Connect(pubsub.ConnectOptions{ClientID: "c", ConnectTimeout: 500 * time.Millisecond})
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.False(t, c.IsConnected())
}

func TestReconnect_BeforeConnect(t *testing.T) {
	c := New("nats://127.0.0.1:4222")

	assert.ErrorIs(t, c.Reconnect(), ErrConnectionFailed)
}

func TestOperations_NotConnected(t *testing.T) {
	c := New("nats://127.0.0.1:4222")

	assert.ErrorIs(t, c.Subscribe("weight", pubsub.AtLeastOnce), ErrNotConnected)
	assert.ErrorIs(t, c.Unsubscribe("weight"), ErrNotConnected)
	assert.ErrorIs(t, c.Publish("weight", []byte("1")), ErrNotConnected)
	assert.ErrorIs(t, c.Disconnect(), ErrNotConnected)
	assert.ErrorIs(t, c.Subscribe("", pubsub.AtLeastOnce), ErrInvalidSubject)
	assert.NotNil(t, c.Deliveries())
}

func TestNew_BufferSize(t *testing.T) {
	assert.Equal(t, defaultBufferSize, cap(New("nats://127.0.0.1:4222").deliveries))
	assert.Equal(t, 8, cap(New("nats://127.0.0.1:4222", WithBufferSize(8)).deliveries))
	assert.Equal(t, defaultBufferSize, cap(New("nats://127.0.0.1:4222", WithBufferSize(0)).deliveries))
}
