package core

import "testing"

func TestMergeIdentityUnionsOrganizationsAndPersonas(t *testing.T) {
	base := &Identity{
		ID:    "user-1",
		Email: "a@b.com",
		Organizations: []Organization{
			{ID: "org-1", Name: "Alpha", Selected: true},
		},
		Personas: []Persona{
			{ID: "p-1", Name: "Analyst"},
		},
	}
	update := &Identity{
		Organizations: []Organization{
			{ID: "org-2", Name: "Beta"},
		},
		Personas: []Persona{
			{ID: "p-2", Name: "Writer"},
		},
	}

	merged := MergeIdentity(base, update)
	if merged.ID != "user-1" || merged.Email != "a@b.com" {
		t.Fatalf("expected scalar fields preserved, got %+v", merged)
	}
	if len(merged.Organizations) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(merged.Organizations))
	}
	if len(merged.Personas) != 2 {
		t.Fatalf("expected personas unioned, got %d", len(merged.Personas))
	}
	if !merged.Organizations[0].Selected {
		t.Fatalf("expected existing selection untouched by merge")
	}
}

func TestMergeIdentityUpdateReplacesMatchingEntries(t *testing.T) {
	base := &Identity{
		Organizations: []Organization{{ID: "org-1", Name: "Old Name"}},
	}
	update := &Identity{
		Organizations: []Organization{{ID: "org-1", Name: "New Name"}},
	}
	merged := MergeIdentity(base, update)
	if len(merged.Organizations) != 1 {
		t.Fatalf("expected matching org replaced, got %d entries", len(merged.Organizations))
	}
	if merged.Organizations[0].Name != "New Name" {
		t.Fatalf("expected updated name, got %q", merged.Organizations[0].Name)
	}
}

func TestMergeIdentityNilSides(t *testing.T) {
	update := &Identity{ID: "user-2"}
	if merged := MergeIdentity(nil, update); merged == nil || merged.ID != "user-2" {
		t.Fatalf("expected update clone when base is nil")
	}
	base := &Identity{ID: "user-1"}
	if merged := MergeIdentity(base, nil); merged == nil || merged.ID != "user-1" {
		t.Fatalf("expected base clone when update is nil")
	}
}

func TestApplyUserStateReplacesSelectionAcrossOrganizations(t *testing.T) {
	identity := &Identity{
		ID: "user-1",
		Organizations: []Organization{
			{ID: "org-1", Name: "Alpha", Selected: true},
			{ID: "org-2", Name: "Beta"},
		},
		Personas: []Persona{{ID: "p-1", Name: "Analyst"}},
	}

	merged := ApplyUserState(identity, UserState{
		OrgID:    "org-2",
		OrgName:  "Beta Renamed",
		UserRole: "admin",
	})

	if len(merged.Organizations) != 2 {
		t.Fatalf("expected no organizations dropped, got %d", len(merged.Organizations))
	}
	if merged.Organizations[0].Selected {
		t.Fatalf("expected org-1 deselected")
	}
	if !merged.Organizations[1].Selected || merged.Organizations[1].Name != "Beta Renamed" {
		t.Fatalf("expected org-2 selected and renamed, got %+v", merged.Organizations[1])
	}
	if len(merged.Personas) != 1 {
		t.Fatalf("expected personas preserved, got %d", len(merged.Personas))
	}
	if merged.Role != "admin" {
		t.Fatalf("expected role applied, got %q", merged.Role)
	}
}

func TestApplyUserStateAppendsUnknownOrganization(t *testing.T) {
	identity := &Identity{
		Organizations: []Organization{{ID: "org-1", Selected: true}},
	}
	merged := ApplyUserState(identity, UserState{OrgID: "org-9", OrgName: "Gamma"})
	if len(merged.Organizations) != 2 {
		t.Fatalf("expected appended organization, got %d", len(merged.Organizations))
	}
	appended := merged.Organizations[1]
	if appended.ID != "org-9" || !appended.Selected {
		t.Fatalf("expected appended org selected, got %+v", appended)
	}
	if merged.Organizations[0].Selected {
		t.Fatalf("expected previous selection cleared")
	}
}

func TestSelectedOrganization(t *testing.T) {
	identity := &Identity{
		Organizations: []Organization{
			{ID: "org-1"},
			{ID: "org-2", Selected: true},
		},
	}
	org, ok := identity.SelectedOrganization()
	if !ok || org.ID != "org-2" {
		t.Fatalf("expected org-2 selected, got %+v ok=%t", org, ok)
	}

	var nilIdentity *Identity
	if _, ok := nilIdentity.SelectedOrganization(); ok {
		t.Fatalf("expected no selection on nil identity")
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		input string
		want  Mode
		ok    bool
	}{
		{"", ModeAuto, true},
		{"auto", ModeAuto, true},
		{"Embedded", ModeEmbedded, true},
		{" standalone ", ModeStandalone, true},
		{"iframe", ModeAuto, false},
	}
	for _, tc := range cases {
		got, ok := ParseMode(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseMode(%q) = %v, %t; want %v, %t", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
