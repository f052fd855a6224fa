package domain

import (
	"encoding/json"
	"testing"
)

func TestLiteral_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Literal
		expected bool
	}{
		{"same integers", Int(7), Int(7), true},
		{"different integers", Int(7), Int(8), false},
		{"float sum tolerance", Float(4.2 + 3.2), Float(7.4), true},
		{"float against integer", Float(7.0), Int(7), true},
		{"float off by a lot", Float(7.41), Float(7.4), false},
		{"text", Text("blablub"), Text("blablub"), true},
		{"text case sensitive", Text("Bla"), Text("bla"), false},
		{"text never equals number", Text("7"), Int(7), false},
		{"invalid never equal", Literal{}, Literal{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.expected {
				t.Errorf("%v.Equal(%v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		lit      Literal
		expected string
	}{
		{Int(-3), "-3"},
		{Float(7.4), "7.4"},
		{Float(3), "3.0"},
		{Text("bla"), "'bla'"},
		{Text(`it's \ here`), `'it\'s \\ here'`},
	}

	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}

func TestLiteral_JSONKeepsKind(t *testing.T) {
	in := []Literal{Int(2), Float(3), Text("x")}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[2,3.0,"x"]` {
		t.Errorf("unexpected encoding %s", data)
	}

	var out []Literal
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range in {
		if out[i].Kind != in[i].Kind || !out[i].Equal(in[i]) {
			t.Errorf("element %d: expected %v (%s), got %v (%s)", i, in[i], in[i].Kind, out[i], out[i].Kind)
		}
	}
}

func TestLiteralFromJSON_RejectsOtherTypes(t *testing.T) {
	if _, err := LiteralFromJSON(true); err == nil {
		t.Error("expected error for bool")
	}
	if _, err := LiteralFromJSON([]any{1}); err == nil {
		t.Error("expected error for list")
	}
}
