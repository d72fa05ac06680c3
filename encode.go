package rebalance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// EncodeSnapshot writes the snapshot as an indented JSON document.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// DecodeSnapshot reads a snapshot document.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		if !errors.Is(err, ErrMalformedSnapshot) {
			// not even JSON
			err = fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
		}
		return Snapshot{}, err
	}
	return s, nil
}

// DecodeAssets reads an asset list. The input is either a JSON array of
// assets or a snapshot document, in which case the snapshot date is ignored.
// Assets without an id get a fresh one.
//
// Every asset must pass the same rules as a resolved Draft, names must be
// unique ignoring case, and ids must be unique.
func DecodeAssets(r io.Reader) (Assets, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading assets: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		// same decoding rules as a snapshot.
		wrapped := make([]byte, 0, len(data)+22)
		wrapped = append(wrapped, `{"date":0,"assets":`...)
		wrapped = append(wrapped, data...)
		wrapped = append(wrapped, '}')
		data = wrapped
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding assets: %w", err)
	}
	if err := s.Assets.Validate(); err != nil {
		return nil, fmt.Errorf("decoding assets: %w", err)
	}
	return s.Assets, nil
}
