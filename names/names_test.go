package names

import "testing"

func TestSanitizeID(t *testing.T) {
	cases := map[string]string{
		`"100390731"`: "100390731",
		" 19965381 ":  "19965381",
		"abc":         "abc",
	}
	for in, want := range cases {
		if got := SanitizeID(in).String(); got != want {
			t.Errorf("SanitizeID(%q) got %s, want %s", in, got, want)
		}
	}
}

func TestFileSafe(t *testing.T) {
	if got := FileSafe("a b/c"); got != "a_b_c" {
		t.Errorf("got %s", got)
	}
	if got := FileSafe("///"); got != UnknownName {
		t.Errorf("got %s, want %s", got, UnknownName)
	}
}

func TestIDFromDatasetPath(t *testing.T) {
	got := IDFromDatasetPath("driftfvcom_data3/ID_100390731.npz")
	if got != "100390731" {
		t.Errorf("got %s, want 100390731", got)
	}
	if got := IDFromDatasetPath("other.npz"); got != "other" {
		t.Errorf("got %s, want other", got)
	}
}
