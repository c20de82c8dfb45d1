package raw

import "testing"

func TestConf(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  warn ")
	t.Setenv("LOG_CALLER", "YES")
	t.Setenv("LOG_PRETTY", "nah")
	t.Setenv("LOG_SAMPLE_EVERY", "10")
	t.Setenv("LOG_BAD_INT", "-3")

	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "info"); got != "warn" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("Get default = %q", got)
	}
	if !c.GetBool("CALLER", false) || c.GetBool("PRETTY", true) || !c.GetBool("MISSING", true) {
		t.Fatal("GetBool mismatch")
	}
	if c.GetInt("SAMPLE_EVERY", 0) != 10 || c.GetInt("BAD_INT", 7) != 7 || c.GetInt("MISSING", 2) != 2 {
		t.Fatal("GetInt mismatch")
	}
	if got := New().Prefix("LOG_").Prefix("SAMPLE_").Get("EVERY", ""); got != "10" {
		t.Fatalf("nested prefix = %q", got)
	}
}
