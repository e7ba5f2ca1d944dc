package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  info ")
	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q, want info", got)
	}
	if got := c.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("Get default = %q, want console", got)
	}
}

func TestGetBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"nope", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.val, func(t *testing.T) {
			t.Setenv("X_CALLER", tc.val)
			if got := New().Prefix("X_").GetBool("CALLER", tc.def); got != tc.want {
				t.Fatalf("GetBool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	cases := map[string]int{"": 7, "12": 12, "-3": 7, "abc": 7}
	for in, want := range cases {
		t.Setenv("X_N", in)
		if got := New().Prefix("X_").GetInt("N", 7); got != want {
			t.Fatalf("GetInt(%q) = %d, want %d", in, got, want)
		}
	}
}
