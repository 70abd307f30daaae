package mapper

import "testing"

func TestNormalizeDate_AllLayouts(t *testing.T) {
	t.Parallel()

	cases := []string{"01.02.2024", "01/02/2024", "2024-02-01"}
	for _, in := range cases {
		if got := NormalizeDate(in); got != "2024-02-01" {
			t.Fatalf("NormalizeDate(%q) = %q, want 2024-02-01", in, got)
		}
	}
}

func TestNormalizeDate_KeepsRawText(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"last Monday", "2024/02/01", "", "31.02.2024"} {
		want := in
		if got := NormalizeDate(in); got != want {
			t.Fatalf("NormalizeDate(%q) = %q, want raw %q", in, got, want)
		}
	}
}

func TestParseAnyDate_Errors(t *testing.T) {
	t.Parallel()

	if _, err := ParseAnyDate("02-01-2024"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestFormatDateTitle(t *testing.T) {
	t.Parallel()

	if got := FormatDateTitle("2025-08-04"); got != "04.08.2025" {
		t.Fatalf("FormatDateTitle = %q, want 04.08.2025", got)
	}
	if got := FormatDateTitle("04/08-x"); got != "04.08.x" {
		t.Fatalf("FormatDateTitle fallback = %q, want 04.08.x", got)
	}
}
