// Package cars describes rolling stock: individual cars and the formations
// (consists) they are coupled into. The execution engine only needs a
// formation's overall length; the rest is catalog data for the panel UI.
package cars

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Data struct {
	Forms map[uuid.UUID]Form
}

type dataJSON struct {
	Forms map[string]Form `json:"forms"`
}

func (d Data) MarshalJSON() ([]byte, error) {
	d2 := dataJSON{Forms: map[string]Form{}}
	for key, f := range d.Forms {
		d2.Forms[key.String()] = f
	}
	return json.Marshal(d2)
}

func (d *Data) UnmarshalJSON(data []byte) error {
	var d2 dataJSON
	err := json.Unmarshal(data, &d2)
	if err != nil {
		return err
	}
	d3 := Data{Forms: map[uuid.UUID]Form{}}
	for key, f := range d2.Forms {
		u, err := uuid.Parse(key)
		if err != nil {
			return fmt.Errorf("key %s: parse key as UUID: %w", key, err)
		}
		d3.Forms[u] = f
	}
	*d = d3
	return nil
}

// Form represents a single formation.
type Form struct {
	Comment string `json:"comment"`
	// Length of the whole formation in meters.
	// This may be more than the sum of the cars' individual lengths due
	// to couplers.
	Length float64 `json:"length"`
	// Cars is the list of cars in this formation, ordered front to back.
	Cars []Car `json:"cars"`
}

type Car struct {
	Comment string `json:"comment"`
	// Length of the car in meters.
	Length float64 `json:"length"`
	// Powered marks locomotives.
	Powered bool `json:"powered,omitempty"`
}

// SumLength adds up the individual car lengths, ignoring couplers.
func (f Form) SumLength() float64 {
	var sum float64
	for _, c := range f.Cars {
		sum += c.Length
	}
	return sum
}
