package transfer

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/roster"
)

var statuses = model.ReferenceStatusSet()

var timestampEqual = cmp.Comparer(func(a, b model.Timestamp) bool {
	return a.Equal(b.Time)
})

func sampleState(t *testing.T) ([]string, model.Months, model.ConsiderationBook) {
	t.Helper()
	members := []string{"Ana", "Bob", "Júlia"}
	dates, err := calendar.Saturdays.Resolve(2024, 3)
	require.NoError(t, err)

	month := roster.ReconcileMonth(nil, dates, members, statuses)
	month["2024-03-09"] = roster.ApplyEdit([]roster.Column{
		{Label: string(model.StatusLab), Names: []string{"Júlia", "Ana"}},
	}, members, statuses)
	month["2024-03-16"] = roster.SetClosed(month["2024-03-16"], true, members, statuses)

	notes := model.ConsiderationBook{
		"2024-03": {{
			ID:        "7b1f7a54-8a53-4a52-9d3e-0d8f2d1f0c11",
			Text:      "Carnaval & feriado",
			CreatedAt: model.NewTimestamp(time.Date(2024, 2, 20, 9, 30, 15, 0, time.Local)),
		}},
	}
	return members, model.Months{"2024-03": month}, notes
}

func TestRoundTrip(t *testing.T) {
	members, months, notes := sampleState(t)

	raw, err := Encode(Export(members, months, notes, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Júlia"`)
	assert.Contains(t, string(raw), `"Carnaval & feriado"`)

	pkg, err := Validate(raw)
	require.NoError(t, err)
	assert.EqualValues(t, Version, pkg.Version)

	snap := Apply(pkg)
	assert.Equal(t, members, snap.Members)
	assert.Empty(t, cmp.Diff(months, snap.Months))
	assert.Empty(t, cmp.Diff(notes, snap.Considerations, timestampEqual))
}

func TestExportCopiesInputs(t *testing.T) {
	members, months, notes := sampleState(t)
	pkg := Export(members, months, notes, time.Now())

	members[0] = "Changed"
	months["2024-03"]["2024-03-02"].Lists[model.StatusMorningDesk][0] = "Changed"

	assert.Equal(t, "Ana", pkg.Employees[0])
	assert.Equal(t, "Ana", pkg.Months["2024-03"]["2024-03-02"].Lists[model.StatusMorningDesk][0])
}

func TestValidateRejects(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"type":           PackageType,
			"version":        3,
			"exported_at":    "2024-03-01T10:00:00",
			"employees":      []any{"Ana"},
			"months":         map[string]any{},
			"considerations": map[string]any{},
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
		raw    string
		reason string
	}{
		{name: "not an object", raw: `["type"]`, reason: "JSON object"},
		{name: "not json", raw: `{"type":`, reason: "not valid JSON"},
		{name: "missing type", mutate: func(p map[string]any) { delete(p, "type") }, reason: "type"},
		{name: "wrong type", mutate: func(p map[string]any) { p["type"] = "other" }, reason: "type"},
		{name: "missing version", mutate: func(p map[string]any) { delete(p, "version") }, reason: "version is missing"},
		{name: "fractional version", raw: `{"type":"intelbras_sabados_config","version":3.0,"employees":[],"months":{}}`, reason: "integer"},
		{name: "string version", mutate: func(p map[string]any) { p["version"] = "3" }, reason: "integer"},
		{name: "bool version", mutate: func(p map[string]any) { p["version"] = true }, reason: "integer"},
		{name: "employees not a list", mutate: func(p map[string]any) { p["employees"] = "Ana" }, reason: "employees"},
		{name: "empty employee", mutate: func(p map[string]any) { p["employees"] = []any{"Ana", ""} }, reason: "employees[1]"},
		{name: "blank employee", mutate: func(p map[string]any) { p["employees"] = []any{"  "} }, reason: "employees[0]"},
		{name: "numeric employee", mutate: func(p map[string]any) { p["employees"] = []any{7} }, reason: "employees[0]"},
		{name: "months not a mapping", mutate: func(p map[string]any) { p["months"] = []any{} }, reason: "months"},
		{name: "considerations not a mapping", mutate: func(p map[string]any) { p["considerations"] = "x" }, reason: "considerations"},
		{name: "day with a scalar list", mutate: func(p map[string]any) {
			p["months"] = map[string]any{"2024-03": map[string]any{"2024-03-02": map[string]any{"Laboratório": "Ana"}}}
		}, reason: "unsupported shape"},
		{name: "version checked before employees", mutate: func(p map[string]any) {
			p["version"] = "x"
			p["employees"] = []any{""}
		}, reason: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(tt.raw)
			if tt.mutate != nil {
				p := valid()
				tt.mutate(p)
				var err error
				raw, err = json.Marshal(p)
				require.NoError(t, err)
			}

			pkg, err := Validate(raw)
			require.Error(t, err)
			assert.Nil(t, pkg)
			assert.True(t, errors.Is(err, ErrInvalidPackage))

			var ipe *InvalidPackageError
			require.True(t, errors.As(err, &ipe))
			assert.NotEmpty(t, ipe.Reason)
			assert.Contains(t, ipe.Reason, tt.reason)
		})
	}
}

func TestValidateTolerates(t *testing.T) {
	for name, raw := range map[string]string{
		"absent considerations": `{"type":"intelbras_sabados_config","version":3,"employees":["Ana"],"months":{}}`,
		"null considerations":   `{"type":"intelbras_sabados_config","version":3,"employees":[],"months":{},"considerations":null}`,
		"future version":        `{"type":"intelbras_sabados_config","version":42,"employees":[],"months":{}}`,
		"negative version":      `{"type":"intelbras_sabados_config","version":-1,"employees":[],"months":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			pkg, err := Validate([]byte(raw))
			require.NoError(t, err)
			snap := Apply(pkg)
			assert.NotNil(t, snap.Considerations)
			assert.NotNil(t, snap.Months)
		})
	}
}

func TestApplyDeduplicatesEmployees(t *testing.T) {
	raw := `{"type":"intelbras_sabados_config","version":3,
		"employees":[" Ana","Bob","Ana ","Caio","Bob"],
		"months":{"2024-03":{"2024-03-02":{"Laboratório":["Ghost"],"__closed__":false}}}}`

	pkg, err := Validate([]byte(raw))
	require.NoError(t, err)

	snap := Apply(pkg)
	assert.Equal(t, []string{"Ana", "Bob", "Caio"}, snap.Members)
	// Imported months are not reconciled.
	assert.Equal(t, []string{"Ghost"}, snap.Months["2024-03"]["2024-03-02"].Lists[model.StatusLab])
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	assert.Equal(t, "config_intelbras_sabados_20240301_140509.json", FileName(now))
}
