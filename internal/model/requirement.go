package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RoleRequirement maps a role identifier to how many people of that
// role must be present. It is persisted as a JSON text column.
//
// Writers always emit the canonical object form {"role": count}. The
// Scan side additionally accepts the two legacy encodings that predate
// the canonical form: a JSON array of roles (count 1 each) and a bare
// JSON string (a single role, count 1). Anything else degrades to an
// empty requirement so one corrupt row can never break a range query.
type RoleRequirement map[string]int

// Scan implements sql.Scanner.
func (r *RoleRequirement) Scan(src interface{}) error {
	if src == nil {
		*r = RoleRequirement{}
		return nil
	}

	var raw string
	switch v := src.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("RoleRequirement.Scan: unsupported type %T", src)
	}

	*r = DecodeRoleRequirement(raw)
	return nil
}

// Value implements driver.Valuer, always emitting the canonical form.
func (r RoleRequirement) Value() (driver.Value, error) {
	if r == nil {
		r = RoleRequirement{}
	}
	b, err := json.Marshal(map[string]int(r))
	if err != nil {
		return nil, fmt.Errorf("RoleRequirement.Value: %w", err)
	}
	return string(b), nil
}

// DecodeRoleRequirement parses a stored requirement in canonical or
// legacy form. Malformed input yields the empty requirement.
func DecodeRoleRequirement(raw string) RoleRequirement {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoleRequirement{}
	}

	var canonical map[string]int
	if err := json.Unmarshal([]byte(raw), &canonical); err == nil {
		out := make(RoleRequirement, len(canonical))
		for role, count := range canonical {
			out[role] = count
		}
		return out
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		out := make(RoleRequirement, len(list))
		for _, role := range list {
			if role != "" {
				out[role] = 1
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if single == "" {
			return RoleRequirement{}
		}
		return RoleRequirement{single: 1}
	}

	return RoleRequirement{}
}

// IsCanonicalRequirement reports whether raw already holds the
// canonical object encoding. Used by the one-shot migration to skip
// rows that need no rewrite.
func IsCanonicalRequirement(raw string) bool {
	var canonical map[string]int
	return json.Unmarshal([]byte(strings.TrimSpace(raw)), &canonical) == nil
}

// Roles returns the role identifiers in lexical order.
func (r RoleRequirement) Roles() []string {
	roles := make([]string, 0, len(r))
	for role := range r {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Total is the number of people required across all roles.
func (r RoleRequirement) Total() int {
	total := 0
	for _, count := range r {
		total += count
	}
	return total
}

// Clone returns an independent copy.
func (r RoleRequirement) Clone() RoleRequirement {
	out := make(RoleRequirement, len(r))
	for role, count := range r {
		out[role] = count
	}
	return out
}
