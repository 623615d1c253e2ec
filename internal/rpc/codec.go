// Package rpc defines the wire contract of the journey.v1.Journey gRPC
// service: message types, a JSON codec, the service descriptor and a typed
// client.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// ContentSubtype selects the JSON codec on a call, as in
// "application/grpc+json".
const ContentSubtype = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return ContentSubtype
}
