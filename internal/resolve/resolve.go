// Package resolve maps input column headers (or fixed positions, for
// headerless exports) to the four fields the cleaning pipeline needs.
package resolve

import (
	"fmt"
	"strings"

	"github.com/gyeh/visitbill/internal/model"
)

// Role names the logical columns the pipeline consumes.
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleService  Role = "service"
	RoleStatus   Role = "status"
)

// Positional fallback offsets used when headers are absent or unrecognized:
// the scheduling tool exports client, employee, and service in the first
// three columns and verification status in the 15th.
const (
	posClient   = 0
	posEmployee = 1
	posService  = 2
	posStatus   = 14

	minPositionalWidth = posStatus + 1
)

// headerSynonyms maps normalized header labels to roles. Single letters
// cover exports that keep the spreadsheet column letters as headers.
var headerSynonyms = map[string]Role{
	"client name":         RoleClient,
	"client":              RoleClient,
	"a":                   RoleClient,
	"employee name":       RoleEmployee,
	"employee":            RoleEmployee,
	"caregiver name":      RoleEmployee,
	"caregiver":           RoleEmployee,
	"b":                   RoleEmployee,
	"service type":        RoleService,
	"service":             RoleService,
	"c":                   RoleService,
	"verification status": RoleStatus,
	"status":              RoleStatus,
	"verified":            RoleStatus,
	"o":                   RoleStatus,
}

// SchemaError means the required columns cannot be resolved. It is fatal
// for the whole file: no rows are processed when it is returned.
type SchemaError struct {
	Source string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Source, e.Reason)
}

// ColumnMapping resolves the four roles to column positions. Built once
// per file and passed around as an immutable value.
type ColumnMapping struct {
	Client   int
	Employee int
	Service  int
	Status   int

	// Named is true when the mapping came from recognized header labels,
	// false when the positional fallback was used.
	Named bool
}

// Columns reports the mapping in role order, for logging and plan output.
func (m ColumnMapping) Columns() map[Role]int {
	return map[Role]int{
		RoleClient:   m.Client,
		RoleEmployee: m.Employee,
		RoleService:  m.Service,
		RoleStatus:   m.Status,
	}
}

// Table resolves the column mapping for one raw table. Pure function of
// the header labels and the table width.
func Table(t *model.RawTable) (ColumnMapping, error) {
	m, ok, err := fromHeaders(t.Headers)
	if err != nil {
		if se, isSchema := err.(*SchemaError); isSchema {
			se.Source = t.Source
		}
		return ColumnMapping{}, err
	}
	if ok {
		return m, nil
	}

	width := t.Width()
	if width < minPositionalWidth {
		return ColumnMapping{}, &SchemaError{
			Source: t.Source,
			Reason: fmt.Sprintf("expected at least %d columns for positional mapping, found %d", minPositionalWidth, width),
		}
	}
	return ColumnMapping{
		Client:   posClient,
		Employee: posEmployee,
		Service:  posService,
		Status:   posStatus,
	}, nil
}

// fromHeaders attempts named resolution. The bool result is false when the
// headers do not cover all four roles, signaling positional fallback. An
// error is returned only for collisions, which indicate a malformed header
// row rather than a merely unrecognized one.
func fromHeaders(headers []string) (ColumnMapping, bool, error) {
	if len(headers) == 0 {
		return ColumnMapping{}, false, nil
	}

	found := make(map[Role]int, 4)
	for pos, label := range headers {
		role, ok := headerSynonyms[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			continue
		}
		if prev, dup := found[role]; dup {
			return ColumnMapping{}, false, &SchemaError{
				Reason: fmt.Sprintf("column role %q claimed by both position %d and %d", role, prev, pos),
			}
		}
		found[role] = pos
	}

	if len(found) < 4 {
		return ColumnMapping{}, false, nil
	}

	m := ColumnMapping{
		Client:   found[RoleClient],
		Employee: found[RoleEmployee],
		Service:  found[RoleService],
		Status:   found[RoleStatus],
		Named:    true,
	}
	return m, true, nil
}
