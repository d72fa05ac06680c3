package rebalance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Snapshot is the saved state of a portfolio: when it was saved and the
// post-rebalance assets.
type Snapshot struct {
	Date   time.Time
	Assets Assets
}

// MarshalJSON encodes the snapshot with its date as epoch milliseconds.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	assets := s.Assets
	if assets == nil {
		assets = Assets{}
	}
	var w objectWriter
	return w.Field("date", s.Date.UnixMilli()).Field("assets", assets).Bytes()
}

// UnmarshalJSON decodes a snapshot. Numeric asset fields may be JSON numbers
// or strings holding draft text (e.g. "12."). Errors wrap ErrMalformedSnapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var js struct {
		Date   *json.Number `json:"date"`
		Assets *[]struct {
			ID               flexString `json:"id"`
			Name             string     `json:"name"`
			Price            flexNumber `json:"price"`
			Quantity         flexNumber `json:"quantity"`
			TargetPercentage flexNumber `json:"targetPercentage"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(data, &js); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	if js.Date == nil {
		return fmt.Errorf("%w: missing date", ErrMalformedSnapshot)
	}
	if js.Assets == nil {
		return fmt.Errorf("%w: missing assets", ErrMalformedSnapshot)
	}
	ms, err := js.Date.Int64()
	if err != nil {
		f, ferr := js.Date.Float64()
		if ferr != nil {
			return fmt.Errorf("%w: invalid date %q", ErrMalformedSnapshot, js.Date.String())
		}
		ms = int64(f)
	}

	assets := make(Assets, 0, len(*js.Assets))
	for _, ja := range *js.Assets {
		a := Asset{
			ID:               ID(ja.ID),
			Name:             ja.Name,
			Price:            float64(ja.Price),
			Quantity:         float64(ja.Quantity),
			TargetPercentage: float64(ja.TargetPercentage),
		}
		if a.ID == "" {
			a.ID = NewID()
		}
		assets = append(assets, a)
	}
	s.Date = time.UnixMilli(ms)
	s.Assets = assets
	return nil
}

// flexNumber decodes a JSON number, or a string holding a number.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if text == "" {
			*n = 0
			return nil
		}
		v, err := ParseNumber(text)
		if err != nil {
			return err
		}
		*n = flexNumber(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNumber, data)
	}
	*n = flexNumber(v)
	return nil
}

// flexString decodes a JSON string, or a number printed as a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*f = flexString(text)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	*f = flexString(data)
	return nil
}
