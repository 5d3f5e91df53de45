package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/explorewithme/ewm/shared/utils"
)

// DateTime is a time.Time that travels as "yyyy-MM-dd HH:mm:ss" in JSON.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(utils.FormatDateTime(d.Time))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := utils.ParseDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TimePtr returns the wrapped time, or nil for a nil DateTime.
func (d *DateTime) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
