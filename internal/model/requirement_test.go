package model

import (
	"reflect"
	"testing"
)

func TestDecodeRoleRequirement_Canonical(t *testing.T) {
	got := DecodeRoleRequirement(`{"Operatore":2,"Redattore":1}`)
	want := RoleRequirement{"Operatore": 2, "Redattore": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("canonical decode = %v, want %v", got, want)
	}
}

func TestDecodeRoleRequirement_LegacyList(t *testing.T) {
	got := DecodeRoleRequirement(`["Operatore","Redattore"]`)
	want := RoleRequirement{"Operatore": 1, "Redattore": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("legacy list decode = %v, want %v", got, want)
	}
}

func TestDecodeRoleRequirement_LegacyString(t *testing.T) {
	got := DecodeRoleRequirement(`"Sviluppatore"`)
	want := RoleRequirement{"Sviluppatore": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("legacy string decode = %v, want %v", got, want)
	}
}

func TestDecodeRoleRequirement_MalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "{broken", "12notjson", "[1,2,3]"} {
		if got := DecodeRoleRequirement(raw); len(got) != 0 {
			t.Errorf("DecodeRoleRequirement(%q) = %v, want empty", raw, got)
		}
	}
}

func TestRoleRequirement_RoundTrip(t *testing.T) {
	orig := RoleRequirement{"Operatore": 2, "Ente": 1}

	v, err := orig.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var back RoleRequirement
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(back, orig) {
		t.Errorf("round trip = %v, want %v", back, orig)
	}
}

func TestRoleRequirement_ValueIsCanonical(t *testing.T) {
	v, err := RoleRequirement{"Operatore": 1}.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	raw, ok := v.(string)
	if !ok {
		t.Fatalf("Value returned %T, want string", v)
	}
	if !IsCanonicalRequirement(raw) {
		t.Errorf("written form %q is not canonical", raw)
	}
}

func TestIsCanonicalRequirement(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"Operatore":1}`, true},
		{`{}`, true},
		{`["Operatore"]`, false},
		{`"Operatore"`, false},
		{`Operatore`, false},
		{``, false},
	}
	for _, c := range cases {
		if got := IsCanonicalRequirement(c.raw); got != c.want {
			t.Errorf("IsCanonicalRequirement(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestRoleRequirement_ScanNil(t *testing.T) {
	var r RoleRequirement
	if err := r.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if len(r) != 0 {
		t.Errorf("Scan(nil) = %v, want empty", r)
	}
}

func TestRoleRequirement_RolesAndTotal(t *testing.T) {
	r := RoleRequirement{"Sviluppatore": 1, "Admin": 3}
	if got := r.Roles(); !reflect.DeepEqual(got, []string{"Admin", "Sviluppatore"}) {
		t.Errorf("Roles() = %v", got)
	}
	if got := r.Total(); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
}
