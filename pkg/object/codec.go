package object

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Encode produces the canonical byte encoding of a record:
// "<type> <size>\0<payload>". The declared size from the header is used, not
// the actual payload length, so corrupt records hash to what their bytes say.
func Encode(rec RawRecord) []byte {
	header := fmt.Sprintf("%s %d\x00", rec.Type, rec.Size)
	out := make([]byte, 0, len(header)+len(rec.Payload))
	out = append(out, header...)
	out = append(out, rec.Payload...)
	return out
}

// ContentHash computes the SHA-1 of a record's canonical encoding, returned
// as a lowercase hex-encoded Hash. The content hash doubles as the object's
// identity.
func ContentHash(rec RawRecord) Hash {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", rec.Type, rec.Size)
	h.Write(rec.Payload)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// ParseRecord splits raw bytes at the first NUL into a "<type> <size>"
// header and the payload.
func ParseRecord(raw []byte) (RawRecord, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return RawRecord{}, fmt.Errorf("parse record: no header separator: %w", ErrMalformedRecord)
	}
	header := string(raw[:nul])
	payload := raw[nul+1:]

	typeTok, sizeTok, ok := strings.Cut(header, " ")
	if !ok {
		return RawRecord{}, fmt.Errorf("parse record: header %q: %w", header, ErrMalformedRecord)
	}

	objType := ObjectType(typeTok)
	switch objType {
	case TypeBlob, TypeTree, TypeCommit:
	default:
		return RawRecord{}, fmt.Errorf("parse record: unknown type %q: %w", typeTok, ErrMalformedRecord)
	}

	size, err := strconv.Atoi(sizeTok)
	if err != nil || size < 0 {
		return RawRecord{}, fmt.Errorf("parse record: bad size %q: %w", sizeTok, ErrMalformedRecord)
	}

	return RawRecord{Type: objType, Size: size, Payload: payload}, nil
}
