package keys

import (
	"errors"
	"testing"
)

func TestBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"teams", Teams("2024miwi"), "teams-2024miwi"},
		{"pit form", Form(ModePit, 254), "pit-254"},
		{"match form", Form("match", 1114), "match-1114"},
		{"record", Record("match", "qm12-254"), "match-qm12-254"},
		{"prefix", Prefix("pit"), "pit-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		key      string
		category string
		id       string
		wantErr  bool
	}{
		{key: "pit-254", category: "pit", id: "254"},
		{key: "teams-2024miwi", category: "teams", id: "2024miwi"},
		{key: "match-qm12-254", category: "match", id: "qm12-254"},
		{key: "config", wantErr: true},
		{key: "-254", wantErr: true},
		{key: "pit-", wantErr: true},
		{key: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k, err := Parse(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("Parse(%q) error = %v, want ErrMalformed", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.key, err)
			}
			if k.Category != tt.category || k.ID != tt.id {
				t.Errorf("Parse(%q) = %+v, want %s/%s", tt.key, k, tt.category, tt.id)
			}
			if k.String() != tt.key {
				t.Errorf("String() = %q, want %q", k.String(), tt.key)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	for key, ok := range map[string]bool{
		"config":         true,
		"pit-254":        true,
		"match-qm12-254": true,
		"pit-":           false,
		"-254":           false,
		"-":              false,
		"":               false,
	} {
		err := Check(key)
		if ok && err != nil {
			t.Errorf("Check(%q): %v", key, err)
		}
		if !ok && !errors.Is(err, ErrMalformed) {
			t.Errorf("Check(%q) error = %v, want ErrMalformed", key, err)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for s, want := range map[string]bool{"pit": true, "": false, "a-b": false, "match": true} {
		if got := ValidCategory(s); got != want {
			t.Errorf("ValidCategory(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestTeamNumber(t *testing.T) {
	if n, ok := (Key{Category: "pit", ID: "254"}).TeamNumber(); !ok || n != 254 {
		t.Errorf("TeamNumber = %d, %v; want 254, true", n, ok)
	}
	if _, ok := (Key{Category: "match", ID: "qm1-254"}).TeamNumber(); ok {
		t.Error("TeamNumber on non-numeric id should be false")
	}
}
