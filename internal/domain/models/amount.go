package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Amount - десятичное значение. Upstream сериализует Decimal строкой ("12.50"),
// но иногда присылает число, поэтому принимаем оба варианта.
type Amount string

func (a Amount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte(`"0"`), nil
	}
	return json.Marshal(string(a))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}
