package network

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRecordYAMLArity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"lower", "{name: A, type: ConstSum, n: 2}", 2},
		{"upper", "{name: A, type: ConstSum, N: 2}", 2},
		{"absent", "{name: A, type: ConstSum}", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := yaml.Unmarshal([]byte(tt.in), &r); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if r.N != tt.want {
				t.Errorf("N = %d, want %d", r.N, tt.want)
			}
			if r.Name != "A" || r.Type != "ConstSum" {
				t.Errorf("other fields lost: %+v", r)
			}
		})
	}
}
