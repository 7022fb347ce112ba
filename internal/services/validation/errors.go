package validation

import (
	"sort"
	"strings"
)

// Field names used as error keys, matching the JSON and form field names
const (
	FieldLeague         = "league"
	FieldRegistrantName = "club_member_name"
	FieldRegistrantCode = "code_number"
	FieldPlayerName     = "player_name"
	FieldRelationship   = "relationship"
	FieldDateOfBirth    = "date_of_birth"
	FieldContactNumber  = "contact"
	FieldProfile        = "player_profile"
	FieldBattingStyle   = "batting_style"
	FieldBowlingStyle   = "bowling_style"
)

// Errors collects field-scoped validation messages
type Errors struct {
	Fields map[string][]string
}

// NewErrors creates an empty error set
func NewErrors() *Errors {
	return &Errors{Fields: make(map[string][]string)}
}

// Add records a message against a field
func (e *Errors) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Has reports whether field has at least one message
func (e *Errors) Has(field string) bool {
	return e != nil && len(e.Fields[field]) > 0
}

// First returns the first message for field, or "" if there is none
func (e *Errors) First(field string) string {
	if !e.Has(field) {
		return ""
	}
	return e.Fields[field][0]
}

// Empty reports whether no field has a message
func (e *Errors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Names returns the failing field names in sorted order
func (e *Errors) Names() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Names() {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
