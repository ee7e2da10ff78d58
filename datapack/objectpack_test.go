package datapack

import (
	"bytes"
	"testing"

	"github.com/katalvlaran/fpmgraph/id"
)

func TestObjectPackWriteReadRaw(t *testing.T) {
	p := NewObjectPack()
	p.WriteRaw([]byte("hello"))
	p.WriteRaw([]byte(" world"))

	if got, want := p.Len(), len("hello world"); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	got, err := p.ReadRaw(5)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("ReadRaw(5) = %q, want %q", got, "hello")
	}
}

func TestObjectPackReadPastEndFails(t *testing.T) {
	p := NewObjectPack()
	p.WriteRaw([]byte("ab"))
	if _, err := p.ReadRaw(10); err == nil {
		t.Fatal("expected error reading past write cursor")
	}
}

func TestObjectPackSeekAndOffsets(t *testing.T) {
	p := NewObjectPack()
	p.WriteRaw([]byte("0123456789"))
	p.SeekRead(3)
	if p.ReadOffset() != 3 {
		t.Fatalf("ReadOffset() = %d, want 3", p.ReadOffset())
	}
	got, err := p.ReadRaw(2)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if string(got) != "34" {
		t.Errorf("ReadRaw after seek = %q, want %q", got, "34")
	}
	if p.Remaining() != 5 {
		t.Errorf("Remaining() = %d, want 5", p.Remaining())
	}
}

func TestObjectPackExtractIsIndependent(t *testing.T) {
	p := NewObjectPack()
	p.WriteRaw([]byte("prefix"))
	p.WriteRaw([]byte("nested"))

	if _, err := p.ReadRaw(6); err != nil {
		t.Fatalf("ReadRaw prefix: %v", err)
	}
	sub, err := p.Extract(6)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := string(sub.Dump()); got != "nested" {
		t.Fatalf("Extract contents = %q, want %q", got, "nested")
	}

	sub.WriteRaw([]byte("!"))
	if p.Remaining() != 0 {
		t.Errorf("mutating the extracted pack must not affect the parent, Remaining() = %d", p.Remaining())
	}
}

func TestParseRoundTripsDump(t *testing.T) {
	p := NewObjectPack()
	p.WriteRaw([]byte("round-trip"))
	dumped := p.Dump()

	reparsed := Parse(dumped)
	got, err := reparsed.ReadRaw(len(dumped))
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if string(got) != "round-trip" {
		t.Errorf("Parse/Dump round trip = %q, want %q", got, "round-trip")
	}
}

// TestPrimitiveRoundTrip exercises property #6 (round-trip) for the
// built-in bool, int64, uint64, float64, string, []byte and DistributedId
// Serializers registered by this package.
func TestPrimitiveRoundTrip(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		p := NewObjectPack()
		if err := Put(p, true); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[bool](p)
		if err != nil || got != true {
			t.Fatalf("Get = %v, %v, want true, nil", got, err)
		}
	})
	t.Run("int64", func(t *testing.T) {
		p := NewObjectPack()
		if err := Put[int64](p, -12345); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[int64](p)
		if err != nil || got != -12345 {
			t.Fatalf("Get = %v, %v, want -12345, nil", got, err)
		}
	})
	t.Run("uint64", func(t *testing.T) {
		p := NewObjectPack()
		if err := Put[uint64](p, 1<<40); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[uint64](p)
		if err != nil || got != 1<<40 {
			t.Fatalf("Get = %v, %v, want %v, nil", got, err, uint64(1<<40))
		}
	})
	t.Run("float64", func(t *testing.T) {
		p := NewObjectPack()
		if err := Put(p, 3.14159); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[float64](p)
		if err != nil || got != 3.14159 {
			t.Fatalf("Get = %v, %v, want 3.14159, nil", got, err)
		}
	})
	t.Run("string", func(t *testing.T) {
		p := NewObjectPack()
		if err := Put(p, "hello, cluster"); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[string](p)
		if err != nil || got != "hello, cluster" {
			t.Fatalf("Get = %q, %v, want %q, nil", got, err, "hello, cluster")
		}
	})
	t.Run("bytes", func(t *testing.T) {
		p := NewObjectPack()
		want := []byte{0x00, 0xFF, 0x10, 0x20}
		if err := Put(p, want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[[]byte](p)
		if err != nil || !bytes.Equal(got, want) {
			t.Fatalf("Get = %v, %v, want %v, nil", got, err, want)
		}
	})
	t.Run("DistributedId", func(t *testing.T) {
		p := NewObjectPack()
		want := id.New(7, 99)
		if err := Put(p, want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := Get[id.DistributedId](p)
		if err != nil || got != want {
			t.Fatalf("Get = %v, %v, want %v, nil", got, err, want)
		}
	})
}

// TestSliceStringRoundTrip is the literal scenario S6: a
// []string{"a", "zzzzz", "678908"} round-trips through an ObjectPack.
func TestSliceStringRoundTrip(t *testing.T) {
	p := NewObjectPack()
	want := []string{"a", "zzzzz", "678908"}
	if err := Put(p, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := Get[[]string](p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Get len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestPutDeclaredSizeMatchesWritten exercises the single-allocation size
// contract: Size(v) must equal the number of bytes Put actually writes.
func TestPutDeclaredSizeMatchesWritten(t *testing.T) {
	p := NewObjectPack()
	v := "size-contract"
	declared, err := Size(v)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	before := p.WriteOffset()
	if err := Put(p, v); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if wrote := p.WriteOffset() - before; wrote != declared {
		t.Fatalf("wrote %d bytes, Size declared %d", wrote, declared)
	}
}

// TestLightSizeNeverExceedsFullSize is property #7: wherever both a
// Serializer and a LightSerializer are registered for T, the light wire
// form must never be larger than the full one.
func TestLightSizeNeverExceedsFullSize(t *testing.T) {
	cases := []float64{0, 1, -1, 3.14159, 1e300}
	for _, v := range cases {
		full, err := Size(v)
		if err != nil {
			t.Fatalf("Size: %v", err)
		}
		light, ok := SizeLight(v)
		if !ok {
			t.Fatalf("expected a registered LightSerializer for float64")
		}
		if light > full {
			t.Errorf("SizeLight(%v) = %d > Size(%v) = %d", v, light, v, full)
		}
	}
}

func TestNoSerializerRegisteredFails(t *testing.T) {
	type unregistered struct{ X int }
	p := NewObjectPack()
	if err := Put(p, unregistered{X: 1}); err == nil {
		t.Fatal("expected an error for a type with no registered Serializer")
	}
}
