package catalog

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "plain integer", in: "1497", want: 1497},
		{name: "thousands dot", in: "1.497", want: 1497},
		{name: "decimal comma", in: "1497,00", want: 1497},
		{name: "thousands dot and decimal comma", in: "1.497,00", want: 1497},
		{name: "currency prefix", in: "R$ 1.497,00", want: 1497},
		{name: "currency prefix no space", in: "R$1497", want: 1497},
		{name: "decimal dot", in: "1497.50", want: 1498},
		{name: "decimal comma rounds half up", in: "99,50", want: 100},
		{name: "decimal comma rounds down", in: "99,49", want: 99},
		{name: "long thousands", in: "12.345.678", want: 12345678},
		{name: "internal spaces", in: " 1 497,00 ", want: 1497},
		{name: "zero", in: "0", want: 0},
		{name: "empty", in: "", wantErr: true},
		{name: "spaces only", in: "   ", wantErr: true},
		{name: "text", in: "abc", wantErr: true},
		{name: "two commas", in: "1,497,00", wantErr: true},
		{name: "stray dots", in: "1.49.7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrice(%q)=%d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParsePrice(%q)=%d want %d", tt.in, got, tt.want)
			}
		})
	}
}
