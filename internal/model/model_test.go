package model

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want SourcePriority
	}{
		{"official", PriorityOfficial},
		{"wire", PriorityWire},
		{"search", PrioritySearch},
		{"1", PriorityOfficial},
		{"", PriorityUnknown},
		{"bogus", PriorityUnknown},
	}

	for _, tt := range tests {
		if got := ParsePriority(tt.in); got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSourcePriority_Ordering(t *testing.T) {
	if !(PriorityOfficial < PriorityWire && PriorityWire < PrioritySearch) {
		t.Error("priority tiers must order official < wire < search")
	}
	if !PriorityOfficial.Authoritative() {
		t.Error("official tier is authoritative")
	}
	if PriorityWire.Authoritative() || PrioritySearch.Authoritative() {
		t.Error("only the official tier is authoritative")
	}
}

func TestParseSeverity(t *testing.T) {
	if got := ParseSeverity("critical"); got != SeverityCritical {
		t.Errorf("expected critical, got %s", got)
	}
	if got := ParseSeverity("catastrophic"); got != SeverityLow {
		t.Errorf("unknown severity must fall back to low, got %s", got)
	}
	if got := ParseSeverity(""); got != SeverityLow {
		t.Errorf("empty severity must fall back to low, got %s", got)
	}
}

func TestReferenceSet_Resolution(t *testing.T) {
	refs := NewReferenceSet(
		[]Disease{{ID: "d-1", Name: "Cholera", Aliases: []string{"Vibrio cholerae"}}},
		[]Country{{Code: "CI", Name: "Côte d'Ivoire", Aliases: []string{"Ivory Coast"}}},
	)

	if d, ok := refs.ResolveDisease(" vibrio CHOLERAE "); !ok || d.ID != "d-1" {
		t.Errorf("alias resolution failed: %+v ok=%v", d, ok)
	}
	if _, ok := refs.ResolveDisease("malaria"); ok {
		t.Error("unknown disease must not resolve")
	}

	if c, ok := refs.ResolveCountry("ivory coast"); !ok || c.Code != "CI" {
		t.Errorf("country alias resolution failed: %+v ok=%v", c, ok)
	}
	if c, ok := refs.ResolveCountry("ci"); !ok || c.Name != "Côte d'Ivoire" {
		t.Errorf("code resolution failed: %+v ok=%v", c, ok)
	}
}

func TestWriteResult_CountAndAdd(t *testing.T) {
	var r WriteResult
	r.Count(OutcomeStored)
	r.Count(OutcomeStored)
	r.Count(OutcomeSkippedDuplicate)
	r.Count(OutcomeSkippedNoLocation)

	if r.Created != 2 || r.SkippedDuplicate != 1 || r.SkippedNoLocation != 1 {
		t.Errorf("unexpected counts: %+v", r)
	}

	var total WriteResult
	total.Add(r)
	total.Add(r)
	if total.Created != 4 {
		t.Errorf("Add must accumulate, got %+v", total)
	}
}
