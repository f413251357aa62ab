package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café Central", "cafe-central"},
		{"Pizzaria do João", "pizzaria-do-joao"},
		{"  Burgers & Fries!  ", "burgers-fries"},
		{"UPPER case", "upper-case"},
		{"already-a-slug", "already-a-slug"},
		{"multi   spaces -- dashes", "multi-spaces-dashes"},
		{"açaí", "acai"},
		{"123 Go", "123-go"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Make(tt.in); got != tt.want {
			t.Fatalf("Make(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{"Café Central", "Sushi Häus", "  A  B  C  "}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Fatalf("Make not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("cafe-central") {
		t.Fatal("expected cafe-central to be valid")
	}
	if IsValid("Café Central") {
		t.Fatal("expected raw name to be invalid")
	}
	if IsValid("") {
		t.Fatal("expected empty string to be invalid")
	}
}
