package rebalance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// objectWriter builds a JSON object whose fields keep the order they were
// written in. The first marshaling error is kept and reported by Bytes.
type objectWriter struct {
	buf bytes.Buffer
	err error
}

// Field writes a key and its value, marshaled with json.Marshal.
func (w *objectWriter) Field(key string, value any) *objectWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("field %q: %w", key, err)
		return w
	}
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
	return w
}

// Bytes returns the JSON object.
func (w *objectWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.buf.Len() == 0 {
		return []byte("{}"), nil
	}
	return append(bytes.Clone(w.buf.Bytes()), '}'), nil
}
