package models

import (
	"reflect"
	"testing"
)

func TestNormalizeRoles(t *testing.T) {
	cases := []struct {
		raw  []string
		want []string
	}{
		{[]string{"Person", "PERSON", " person "}, []string{"person"}},
		{[]string{"Business", "person"}, []string{"business", "person"}},
		{[]string{"", "  ", "admin"}, []string{"admin"}},
		{nil, []string{}},
	}
	for _, tc := range cases {
		if got := NormalizeRoles(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("NormalizeRoles(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestHasRole(t *testing.T) {
	u := &User{Roles: []string{"person", "business"}}
	if !u.HasRole("business") {
		t.Error("HasRole(business) = false")
	}
	if u.HasRole("admin") {
		t.Error("HasRole(admin) = true")
	}
}
