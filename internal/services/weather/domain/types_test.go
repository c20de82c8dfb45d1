package domain

import "testing"

func TestDescribeAndIcon(t *testing.T) {
	cases := []struct {
		code       int
		desc, icon string
	}{
		{0, "Ясно", "sun"},
		{2, "Частково хмарно", "cloud"},
		{48, "Туман", "cloud"},
		{55, "Мряка", "drizzle"},
		{65, "Сильний дощ", "rain"},
		{75, "Сильний сніг", "snow"},
		{82, "Сильна злива", "rain"},
		{95, "Гроза", "rain"},
		{99, "Хмарно", "cloud"},
		{-1, "Хмарно", "cloud"},
	}
	for _, c := range cases {
		if got := Describe(c.code); got != c.desc {
			t.Fatalf("Describe(%d): got %q, want %q", c.code, got, c.desc)
		}
		if got := Icon(c.code); got != c.icon {
			t.Fatalf("Icon(%d): got %q, want %q", c.code, got, c.icon)
		}
	}
}
