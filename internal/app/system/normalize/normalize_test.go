package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "maria@acmefab.example", "maria@acmefab.example"},
		{"uppercase from sso", "Maria.Lund@AcmeFab.Example", "maria.lund@acmefab.example"},
		{"pasted with whitespace", "  devon@northwind.example  ", "devon@northwind.example"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trimmed", "  Maria Lund  ", "Maria Lund"},
		{"case preserved", "Devon McAllister", "Devon McAllister"},
		{"company name case preserved", "AcmeFab GmbH", "AcmeFab GmbH"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAuthMethod(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"password", "password"},
		{"Password", "password"},
		{"  GOOGLE  ", "google"},
		{"", ""},
	}

	for _, tt := range tests {
		got := AuthMethod(tt.input)
		if got != tt.want {
			t.Errorf("AuthMethod(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	// Project and ticket state values arrive from select inputs, but
	// integrations can also post them, so casing is not guaranteed.
	tests := []struct {
		input string
		want  string
	}{
		{"active", "active"},
		{"On_Hold", "on_hold"},
		{"  Completed  ", "completed"},
		{"BLOCKED", "blocked"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := Status(tt.input)
		if got != tt.want {
			t.Errorf("Status(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"admin", "admin"},
		{"KAM", "kam"},
		{"  Leader  ", "leader"},
		{"Developer", "developer"},
		{"customer", "customer"},
		{"", ""},
	}

	for _, tt := range tests {
		got := Role(tt.input)
		if got != tt.want {
			t.Errorf("Role(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestQueryParam(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"search phrase kept intact", "invoice export", "invoice export"},
		{"trimmed", "  SLA breach  ", "SLA breach"},
		{"case preserved", "OAuth", "OAuth"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueryParam(tt.input)
			if got != tt.want {
				t.Errorf("QueryParam(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompanyID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hex id passes through", "507f1f77bcf86cd799439011", "507f1f77bcf86cd799439011"},
		{"trimmed", "  507f1f77bcf86cd799439011  ", "507f1f77bcf86cd799439011"},
		{"all means no filter", "all", ""},
		{"all is case-insensitive", "ALL", ""},
		{"all with whitespace", "  All  ", ""},
		{"empty", "", ""},
		{"other values preserved", "acmefab", "acmefab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompanyID(tt.input)
			if got != tt.want {
				t.Errorf("CompanyID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
