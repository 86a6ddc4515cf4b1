// Package transfer converts the whole roster state to and from the
// versioned export package.
//
// Importing a package is a destructive whole-state replace: the member list,
// every month and every consideration are swapped for the package's
// contents. Nothing is merged.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/saturday-roster/internal/model"
)

// Package identity written by Export and checked by Validate.
const (
	PackageType = "intelbras_sabados_config"
	Version     = 3
)

// ErrInvalidPackage is matched by every *InvalidPackageError.
var ErrInvalidPackage = errors.New("invalid package")

// InvalidPackageError reports why a package was refused.
type InvalidPackageError struct {
	Reason string
}

func (e *InvalidPackageError) Error() string {
	return "invalid package: " + e.Reason
}

// Is reports whether target is ErrInvalidPackage.
func (e *InvalidPackageError) Is(target error) bool {
	return target == ErrInvalidPackage
}

func invalid(format string, args ...any) error {
	return &InvalidPackageError{Reason: fmt.Sprintf(format, args...)}
}

// Package is the export document.
type Package struct {
	Type           string                  `json:"type"`
	Version        int64                   `json:"version"`
	ExportedAt     model.Timestamp         `json:"exported_at"`
	Employees      []string                `json:"employees"`
	Months         model.Months            `json:"months"`
	Considerations model.ConsiderationBook `json:"considerations"`
}

// FileName returns the conventional name of a package exported at now.
func FileName(now time.Time) string {
	return "config_intelbras_sabados_" + now.Format("20060102_150405") + ".json"
}

// Export packages the full state. It always succeeds; the inputs are copied.
func Export(members []string, months model.Months, considerations model.ConsiderationBook, now time.Time) Package {
	employees := make([]string, len(members))
	copy(employees, members)
	return Package{
		Type:           PackageType,
		Version:        Version,
		ExportedAt:     model.NewTimestamp(now),
		Employees:      employees,
		Months:         months.Clone(),
		Considerations: considerations.Clone(),
	}
}

// Encode writes pkg as indented JSON, leaving non-ASCII text unescaped.
func Encode(pkg Package) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pkg); err != nil {
		return nil, fmt.Errorf("encoding package: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks raw in a fixed order and stops at the first failure: the
// package is a JSON object, type matches, version is an integer, employees
// are non-blank strings, months is an object and considerations, when
// present and not null, is an object. The sections must then decode into
// their documents. Any integer version is accepted; callers decide whether
// to warn about a version other than Version.
func Validate(raw []byte) (*Package, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, invalid("not valid JSON: %v", err)
	}
	if dec.More() {
		return nil, invalid("trailing data after package")
	}
	obj, ok := top.(map[string]any)
	if !ok {
		return nil, invalid("package must be a JSON object")
	}

	if typ, _ := obj["type"].(string); typ != PackageType {
		return nil, invalid("type must be %q", PackageType)
	}

	version, err := integer(obj["version"])
	if err != nil {
		return nil, invalid("version %v", err)
	}

	list, ok := obj["employees"].([]any)
	if !ok {
		return nil, invalid("employees must be a list")
	}
	employees := make([]string, 0, len(list))
	for i, item := range list {
		name, ok := item.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, invalid("employees[%d] must be a non-empty string", i)
		}
		employees = append(employees, name)
	}

	if _, ok := obj["months"].(map[string]any); !ok {
		return nil, invalid("months must be an object")
	}
	if c, present := obj["considerations"]; present && c != nil {
		if _, ok := c.(map[string]any); !ok {
			return nil, invalid("considerations must be an object")
		}
	}

	var sections struct {
		ExportedAt     model.Timestamp         `json:"exported_at"`
		Months         model.Months            `json:"months"`
		Considerations model.ConsiderationBook `json:"considerations"`
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, invalid("unsupported shape: %v", err)
	}

	return &Package{
		Type:           PackageType,
		Version:        version,
		ExportedAt:     sections.ExportedAt,
		Employees:      employees,
		Months:         sections.Months,
		Considerations: sections.Considerations,
	}, nil
}

// integer accepts a JSON number written without fraction or exponent.
func integer(v any) (int64, error) {
	if v == nil {
		return 0, errors.New("is missing")
	}
	num, ok := v.(json.Number)
	if !ok || strings.ContainsAny(num.String(), ".eE") {
		return 0, errors.New("must be an integer")
	}
	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return 0, errors.New("is out of range")
	}
	return n, nil
}

// Apply builds the state that replaces the current one. Employees are
// trimmed and deduplicated in first-seen order. Months are taken as-is and
// only reconciled when each month is next activated.
func Apply(pkg *Package) model.Snapshot {
	seen := make(map[string]struct{}, len(pkg.Employees))
	members := make([]string, 0, len(pkg.Employees))
	for _, e := range pkg.Employees {
		name := strings.TrimSpace(e)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		members = append(members, name)
	}

	months := pkg.Months.Clone()
	considerations := pkg.Considerations.Clone()
	return model.Snapshot{
		Members:        members,
		Months:         months,
		Considerations: considerations,
	}
}
