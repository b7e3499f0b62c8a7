package object

import (
	"bytes"
	"errors"
	"testing"
)

func TestContentHashKnownVectors(t *testing.T) {
	// Canonical SHA-1s of git's empty blob and empty tree.
	cases := []struct {
		rec  RawRecord
		want Hash
	}{
		{RawRecord{Type: TypeBlob, Size: 0}, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{RawRecord{Type: TypeTree, Size: 0}, "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
	}
	for _, c := range cases {
		if got := ContentHash(c.rec); got != c.want {
			t.Errorf("ContentHash(%s %d): got %s, want %s", c.rec.Type, c.rec.Size, got, c.want)
		}
	}
}

func TestEncodeUsesDeclaredSize(t *testing.T) {
	rec := RawRecord{Type: TypeBlob, Size: 5, Payload: []byte("abc")}
	want := []byte("blob 5\x00abc")
	if got := Encode(rec); !bytes.Equal(got, want) {
		t.Errorf("Encode: got %q, want %q", got, want)
	}
	if ContentHash(rec) == ContentHash(RawRecord{Type: TypeBlob, Size: 3, Payload: []byte("abc")}) {
		t.Error("declared size should feed the content hash")
	}
}

func TestParseRecordRoundTrip(t *testing.T) {
	orig := RawRecord{Type: TypeCommit, Size: 11, Payload: []byte("tree abc\n\nx")}
	rec, err := ParseRecord(Encode(orig))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if rec.Type != orig.Type {
		t.Errorf("Type: got %q, want %q", rec.Type, orig.Type)
	}
	if rec.Size != orig.Size {
		t.Errorf("Size: got %d, want %d", rec.Size, orig.Size)
	}
	if !bytes.Equal(rec.Payload, orig.Payload) {
		t.Errorf("Payload: got %q, want %q", rec.Payload, orig.Payload)
	}
}

func TestParseRecordPayloadMayContainNUL(t *testing.T) {
	raw := []byte("tree 8\x00ab\x00cdef\x00")
	rec, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if !bytes.Equal(rec.Payload, []byte("ab\x00cdef\x00")) {
		t.Errorf("Payload split at wrong NUL: %q", rec.Payload)
	}
}

func TestParseRecordMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{"no separator", []byte("blob 3abc")},
		{"no size token", []byte("blob\x00abc")},
		{"unknown type", []byte("blobx 3\x00abc")},
		{"non-numeric size", []byte("blob abc\x00abc")},
		{"negative size", []byte("blob -1\x00abc")},
	}
	for _, c := range cases {
		if _, err := ParseRecord(c.raw); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: got %v, want ErrMalformedRecord", c.name, err)
		}
	}
}

func TestHashShort(t *testing.T) {
	h := Hash("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391")
	if got := h.Short(); got != "e69de29" {
		t.Errorf("Short: got %q, want %q", got, "e69de29")
	}
	if got := Hash("abc").Short(); got != "abc" {
		t.Errorf("Short on short input: got %q", got)
	}
}
