// Package models contains domain types for rota entities.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

import "fmt"

// ItemType identifies the kind of work item being routed.
type ItemType string

const (
	// ItemTypeLead is a sales lead.
	ItemTypeLead ItemType = "lead"
	// ItemTypeTicket is a support ticket.
	ItemTypeTicket ItemType = "ticket"
)

// itemTypeInfo is the per-type strategy row: which role governs
// automatic assignment, how the type is labelled for humans, which
// table stores it and which ID prefix its records carry.
type itemTypeInfo struct {
	role     string
	label    string
	table    string
	idPrefix string
}

var itemTypes = map[ItemType]itemTypeInfo{
	ItemTypeLead:   {role: "Sales User", label: "Lead", table: "leads", idPrefix: "LEAD-"},
	ItemTypeTicket: {role: "Support User", label: "Ticket", table: "tickets", idPrefix: "TICK-"},
}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	_, ok := itemTypes[t]
	return ok
}

// Role returns the role that governs automatic assignment for this type.
func (t ItemType) Role() string {
	return itemTypes[t].role
}

// Label returns the human-readable label ("Lead", "Ticket").
func (t ItemType) Label() string {
	return itemTypes[t].label
}

// Table returns the backing table name for this type.
func (t ItemType) Table() string {
	return itemTypes[t].table
}

// IDPrefix returns the record ID prefix for this type.
func (t ItemType) IDPrefix() string {
	return itemTypes[t].idPrefix
}

// ParseItemType converts a string to an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown item type: %q (want lead or ticket)", s)
	}
	return t, nil
}

// ParseItemRef resolves a typed item ID like "LEAD-003" or "TICK-012"
// to its item type. Matching is by ID prefix.
func ParseItemRef(id string) (ItemType, error) {
	for t, info := range itemTypes {
		if len(id) > len(info.idPrefix) && id[:len(info.idPrefix)] == info.idPrefix {
			return t, nil
		}
	}
	return "", fmt.Errorf("cannot determine item type from %q (want LEAD-* or TICK-*)", id)
}
