package snapshot

import (
	"encoding/json"
	"fmt"
	"time"
)

// document is the JSON wire shape:
//
//	{
//	  "DatabaseName": string,
//	  "GeneratedAtUtc": ISO-8601 instant,
//	  "Objects": [ { "Type", "Schema", "Name", "Definition", "Dependencies" } ]
//	}
type document struct {
	DatabaseName   string           `json:"DatabaseName"`
	GeneratedAtUtc time.Time        `json:"GeneratedAtUtc"`
	Objects        []documentObject `json:"Objects"`
}

type documentObject struct {
	Type         string   `json:"Type"`
	Schema       string   `json:"Schema"`
	Name         string   `json:"Name"`
	Definition   string   `json:"Definition"`
	Dependencies []string `json:"Dependencies"`
}

// MarshalJSON implements json.Marshaler for Snapshot, producing the
// persisted snapshot-document shape described in §6 of the spec.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	doc := document{
		DatabaseName:   s.DatabaseName,
		GeneratedAtUtc: s.GeneratedAtUTC.UTC(),
		Objects:        make([]documentObject, 0, len(s.Objects)),
	}
	for _, o := range s.Objects {
		deps := o.Dependencies
		if deps == nil {
			deps = []string{}
		}
		doc.Objects = append(doc.Objects, documentObject{
			Type:         o.Kind.String(),
			Schema:       o.Schema,
			Name:         o.Name,
			Definition:   o.Definition,
			Dependencies: deps,
		})
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler for Snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	objects := make([]Object, 0, len(doc.Objects))
	for _, do := range doc.Objects {
		kind, err := ParseKind(do.Type)
		if err != nil {
			return fmt.Errorf("snapshot document: object %s.%s: %w", do.Schema, do.Name, err)
		}
		objects = append(objects, Object{
			Kind:         kind,
			Schema:       do.Schema,
			Name:         do.Name,
			Definition:   do.Definition,
			Dependencies: do.Dependencies,
		})
	}

	s.DatabaseName = doc.DatabaseName
	s.GeneratedAtUTC = doc.GeneratedAtUtc
	s.Objects = objects
	return nil
}

// Encode marshals the snapshot to indented JSON for writing to a file.
func Encode(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses a persisted snapshot document.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
