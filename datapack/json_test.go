package datapack

import (
	"testing"

	"github.com/katalvlaran/fpmgraph/id"
)

func TestDistributedIdJSONRoundTrip(t *testing.T) {
	want := id.New(4, 12345)
	b, err := MarshalDistributedId(want)
	if err != nil {
		t.Fatalf("MarshalDistributedId: %v", err)
	}
	if got := string(b); got != "[4,12345]" {
		t.Fatalf("MarshalDistributedId = %s, want [4,12345]", got)
	}
	got, err := UnmarshalDistributedId(b)
	if err != nil {
		t.Fatalf("UnmarshalDistributedId: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestDefaultJSONCodecRoundTrip(t *testing.T) {
	type point struct {
		X, Y int
	}
	codec := DefaultJSONCodec[point]()
	b, err := codec.EncodeJSON(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := codec.DecodeJSON(b)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got != (point{X: 1, Y: 2}) {
		t.Errorf("round trip = %+v, want {1 2}", got)
	}
}

func TestDefaultJSONCodecDecodeErrorWraps(t *testing.T) {
	codec := DefaultJSONCodec[int]()
	if _, err := codec.DecodeJSON([]byte("not json")); err == nil {
		t.Fatal("expected a decode error")
	}
}
