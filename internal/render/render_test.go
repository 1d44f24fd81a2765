package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bft-labs/htbctl/internal/domain"
)

func sampleDescriptor() *domain.Descriptor {
	return &domain.Descriptor{
		Active: domain.ActiveMachine{
			Ref:     domain.MachineRef{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy"},
			Address: "10.10.10.3",
			Server:  domain.Server{ID: 3, FriendlyName: "EU Free 1", CurrentClients: 80, Location: "EU"},
		},
		Details: domain.MachineDetails{
			Ref:    domain.MachineRef{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy"},
			Points: 20,
			Stars:  4.6,
			Ratings: domain.RatingHistogram{
				Cake: 1200, Easy: 900, BrainFuck: 12,
			},
			UserBlood: domain.BloodRecord{Name: "0x1", Blood: "00D 00H 19M"},
		},
	}
}

func TestMachineTable(t *testing.T) {
	out := MachineTable(domain.MachineRef{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy"})
	for _, want := range []string{"Difficulty", "Easy", "Name", "Lame", "ID", "1"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestDescriptorTable(t *testing.T) {
	out := DescriptorTable(sampleDescriptor())
	for _, want := range []string{"IP", "10.10.10.3", "Lame", "Easy"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestSearchTable(t *testing.T) {
	out := SearchTable([]domain.MachineRef{
		{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy"},
		{ID: 2, Name: "Jerry", OS: "Windows", Difficulty: "Easy"},
	})
	for _, want := range []string{"Name", "OS", "Lame", "Jerry", "Windows"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestDescriptorJSON_KeyContract(t *testing.T) {
	out, err := DescriptorJSON(sampleDescriptor())
	if err != nil {
		t.Fatalf("DescriptorJSON() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"ip", "server", "machine"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var machine map[string]json.RawMessage
	if err := json.Unmarshal(doc["machine"], &machine); err != nil {
		t.Fatalf("machine is not an object: %v", err)
	}
	for _, key := range []string{"id", "name", "os", "points", "difficulty_ratings", "user_blood", "root_blood"} {
		if _, ok := machine[key]; !ok {
			t.Errorf("machine missing key %q", key)
		}
	}

	var ratings map[string]int
	if err := json.Unmarshal(machine["difficulty_ratings"], &ratings); err != nil {
		t.Fatalf("difficulty_ratings is not an object: %v", err)
	}
	if ratings["Cake"] != 1200 || ratings["BrainFuck"] != 12 {
		t.Errorf("ratings = %v", ratings)
	}
}

func TestSearchJSON(t *testing.T) {
	out, err := SearchJSON([]domain.MachineRef{
		{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy", Retired: true},
	})
	if err != nil {
		t.Fatalf("SearchJSON() error = %v", err)
	}

	var refs []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &refs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("len = %d, want 1", len(refs))
	}
	if refs[0]["name"] != "Lame" || refs[0]["retired"] != true {
		t.Errorf("refs[0] = %v", refs[0])
	}
}
