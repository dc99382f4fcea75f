package binding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrUnsupportedBlob = errors.New("unsupported binary source")

// blobBinder holds a normalized payload so every Bind call hands the target a
// fresh reader over the same bytes.
type blobBinder struct {
	data []byte
}

// Blob normalizes src into a replayable byte stream. Accepted sources are
// []byte (copied), io.Reader (drained once, here), and structured values
// (maps and structs) which are BSON encoded. Other values are wrapped in a
// single-field document {"value": v} before encoding.
func Blob(src any) (Binder, error) {
	data, err := Normalize(src)
	if err != nil {
		return nil, err
	}
	return blobBinder{data: data}, nil
}

// Normalize returns the byte encoding Blob would bind for src.
func Normalize(src any) ([]byte, error) {
	switch s := src.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedBlob)
	case []byte:
		out := make([]byte, len(s))
		copy(out, s)
		return out, nil
	case io.Reader:
		data, err := io.ReadAll(s)
		if err != nil {
			return nil, fmt.Errorf("read binary source: %w", err)
		}
		return data, nil
	}

	switch reflect.Indirect(reflect.ValueOf(src)).Kind() {
	case reflect.Map, reflect.Struct:
		data, err := bson.Marshal(src)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %T: %v", ErrUnsupportedBlob, src, err)
		}
		return data, nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedBlob, src)
	}
	data, err := bson.Marshal(bson.D{{Key: "value", Value: src}})
	if err != nil {
		return nil, fmt.Errorf("%w: encode %T: %v", ErrUnsupportedBlob, src, err)
	}
	return data, nil
}

func (b blobBinder) Bind(_ context.Context, t Target, pos int) error {
	return t.SetBinary(pos, bytes.NewReader(b.data), int64(len(b.data)))
}

func (b blobBinder) String() string { return fmt.Sprintf("BLOB(%d bytes)", len(b.data)) }
