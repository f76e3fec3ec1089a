package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec, "cbor codec not registered")
	assert.Equal(t, CodecName, codec.Name())
}

func TestCodec_RoundTrip(t *testing.T) {
	type endpoint struct {
		Protocol   string   `cbor:"protocol"`
		Operations []string `cbor:"operations"`
	}

	codec := newCodec()
	in := endpoint{Protocol: "grpc", Operations: []string{"ManagedSubscribe"}}

	data, err := codec.Marshal(in)
	require.NoError(t, err)

	var out endpoint
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCodec_UnmarshalGarbage(t *testing.T) {
	var out struct{ A string }
	err := newCodec().Unmarshal([]byte{0xff, 0x00}, &out)
	assert.Error(t, err)
}

func TestTarget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://0.0.0.0:50000", "0.0.0.0:50000"},
		{"https://ibeji.local:5010/", "ibeji.local:5010"},
		{"localhost:4030", "localhost:4030"},
		{"  dns:///broker:1883 ", "dns:///broker:1883"},
		{"passthrough:///bufnet", "passthrough:///bufnet"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Target(tt.in), "Target(%q)", tt.in)
	}
}

func TestDial_EmptyAddress(t *testing.T) {
	_, err := Dial("   ")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDial_Lazy(t *testing.T) {
	// NewClient does not connect, so an unused address still yields a conn.
	conn, err := Dial("http://127.0.0.1:1")
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
}
