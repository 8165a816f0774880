package transport

import (
	"fmt"

	"google.golang.org/grpc/encoding"

	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

// codec marshals wire messages for gRPC. It registers under the "proto"
// content subtype so that servers see ordinary protobuf traffic.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wire.Message)
	if !ok {
		return nil, fmt.Errorf("codec: cannot marshal %T", v)
	}
	return m.Marshal(), nil
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wire.Message)
	if !ok {
		return fmt.Errorf("codec: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

func (codec) Name() string { return "proto" }

// Codec returns the codec used by the client, for servers and test doubles
// speaking the same messages.
func Codec() encoding.Codec { return codec{} }
