package rpc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the CBOR codec.
const CodecName = "cbor"

// cborCodec implements encoding.Codec using deterministic CBOR.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func init() {
	encoding.RegisterCodec(newCodec())
}

// newCodec builds the codec's encoder and decoder modes.
func newCodec() cborCodec {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	enc, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create rpc CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	dec, err := decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create rpc CBOR decoder mode: %v", err))
	}

	return cborCodec{enc: enc, dec: dec}
}

// Marshal implements encoding.Codec.
func (c cborCodec) Marshal(v any) ([]byte, error) {
	data, err := c.enc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: cbor marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal implements encoding.Codec.
func (c cborCodec) Unmarshal(data []byte, v any) error {
	if err := c.dec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: cbor unmarshal %T: %w", v, err)
	}
	return nil
}

// Name implements encoding.Codec.
func (cborCodec) Name() string {
	return CodecName
}
