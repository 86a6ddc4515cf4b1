package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nhle/saturday-roster/internal/model"
)

// marshalDocument writes v as indented JSON without HTML escaping so names
// stay readable in the files.
func marshalDocument(name string, v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshaling %s document: %w", name, err)
	}
	return buf.Bytes(), nil
}

func encodeMembers(members []string) ([]byte, error) {
	if members == nil {
		members = []string{}
	}
	return marshalDocument(model.DocumentMembers, model.MembersDocument{Employees: members})
}

func decodeMembers(body []byte) ([]string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []string{}, nil
	}
	var doc model.MembersDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling members document: %w", err)
	}
	if doc.Employees == nil {
		doc.Employees = []string{}
	}
	return doc.Employees, nil
}

func encodeMonths(months model.Months) ([]byte, error) {
	if months == nil {
		months = model.Months{}
	}
	return marshalDocument(model.DocumentMonths, model.MonthsDocument{Months: months})
}

func decodeMonths(body []byte) (model.Months, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return model.Months{}, nil
	}
	var doc model.MonthsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling months document: %w", err)
	}
	if doc.Months == nil {
		doc.Months = model.Months{}
	}
	return doc.Months, nil
}

func encodeConsiderations(book model.ConsiderationBook) ([]byte, error) {
	if book == nil {
		book = model.ConsiderationBook{}
	}
	return marshalDocument(model.DocumentConsiderations, model.ConsiderationsDocument{Months: book})
}

func decodeConsiderations(body []byte) (model.ConsiderationBook, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return model.ConsiderationBook{}, nil
	}
	var doc model.ConsiderationsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling considerations document: %w", err)
	}
	if doc.Months == nil {
		doc.Months = model.ConsiderationBook{}
	}
	return doc.Months, nil
}

// encodeSnapshot renders all three documents, keyed by document name.
func encodeSnapshot(snap model.Snapshot) (map[string][]byte, error) {
	members, err := encodeMembers(snap.Members)
	if err != nil {
		return nil, err
	}
	months, err := encodeMonths(snap.Months)
	if err != nil {
		return nil, err
	}
	notes, err := encodeConsiderations(snap.Considerations)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		model.DocumentMembers:        members,
		model.DocumentMonths:         months,
		model.DocumentConsiderations: notes,
	}, nil
}

// documentOrder fixes the write order of ReplaceAll.
var documentOrder = []string{
	model.DocumentMembers,
	model.DocumentMonths,
	model.DocumentConsiderations,
}
