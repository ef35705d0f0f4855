package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// EmergencyNumbers holds either the phrases matched on a page ("emergency: 112")
// or a service to number table taken from the static defaults.
type EmergencyNumbers struct {
	Matches  []string
	Services map[string]string
}

func NewEmergencyMatches(matches []string) *EmergencyNumbers {
	if len(matches) == 0 {
		return nil
	}
	return &EmergencyNumbers{Matches: matches}
}

func NewEmergencyServices(services map[string]string) *EmergencyNumbers {
	if len(services) == 0 {
		return nil
	}
	return &EmergencyNumbers{Services: services}
}

func (e *EmergencyNumbers) IsEmpty() bool {
	return e == nil || (len(e.Matches) == 0 && len(e.Services) == 0)
}

func (e EmergencyNumbers) MarshalJSON() ([]byte, error) {
	switch {
	case len(e.Services) > 0:
		return json.Marshal(e.Services)
	case len(e.Matches) > 0:
		return json.Marshal(e.Matches)
	default:
		return []byte("null"), nil
	}
}

func (e *EmergencyNumbers) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*e = EmergencyNumbers{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '{':
		return json.Unmarshal(b, &e.Services)
	case '[':
		return json.Unmarshal(b, &e.Matches)
	default:
		return errors.New("emergency numbers: expected a list or an object")
	}
}

// Column returns the JSON encoding stored in the database, nil when empty.
func (e *EmergencyNumbers) Column() ([]byte, error) {
	if e.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(e)
}
