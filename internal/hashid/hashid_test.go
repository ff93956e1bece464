package hashid

import "testing"

func TestNewRequiresSalt(t *testing.T) {
	if _, err := New("", 0); err == nil {
		t.Fatal("expected error for empty salt")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	codec, err := New("test-salt", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first, err := codec.Encode(42)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := codec.Encode(42)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first != second {
		t.Fatalf("encoding not deterministic: %q != %q", first, second)
	}
	if len(first) < DefaultMinLength {
		t.Fatalf("encoded id %q shorter than minimum %d", first, DefaultMinLength)
	}
}

func TestEncodeUniqueAcrossRange(t *testing.T) {
	codec, err := New("test-salt", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seen := make(map[string]int64, 5000)
	for id := int64(1); id <= 5000; id++ {
		encoded, err := codec.Encode(id)
		if err != nil {
			t.Fatalf("Encode(%d): %v", id, err)
		}
		if prev, dup := seen[encoded]; dup {
			t.Fatalf("collision: ids %d and %d both encode to %q", prev, id, encoded)
		}
		seen[encoded] = id
	}
}

func TestEncodeSaltChangesOutput(t *testing.T) {
	a, err := New("salt-a", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New("salt-b", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	encA, err := a.Encode(7)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	encB, err := b.Encode(7)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encA == encB {
		t.Fatalf("different salts produced identical encoding %q", encA)
	}
}

func TestEncodeRejectsNonPositive(t *testing.T) {
	codec, err := New("test-salt", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, id := range []int64{0, -1} {
		if _, err := codec.Encode(id); err == nil {
			t.Fatalf("expected error for id %d", id)
		}
	}
}
