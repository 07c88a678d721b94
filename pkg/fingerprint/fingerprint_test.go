package fingerprint

import "testing"

func TestSumDeterministic(t *testing.T) {
	in := `{"courses":[{"course_code":"CS1"}]}`
	if Sum(in) != Sum(in) {
		t.Fatal("same input must produce the same fingerprint")
	}
}

func TestSumSingleCharacterSensitivity(t *testing.T) {
	a := Sum(`{"courses":[{"course_code":"CS1"}]}`)
	b := Sum(`{"courses":[{"course_code":"CS2"}]}`)
	if a == b {
		t.Fatalf("one-character change did not change the fingerprint: %s", a)
	}
}

func TestSumEmpty(t *testing.T) {
	if Sum("") != "0" {
		t.Fatalf("empty string fingerprint = %s", Sum(""))
	}
}

func TestSumWrapsToInt32(t *testing.T) {
	// Long inputs overflow 32 bits; the result must still be a stable
	// decimal in int32 range (possibly negative).
	long := ""
	for i := 0; i < 1000; i++ {
		long += "syllabus"
	}
	got := Sum(long)
	if got != Sum(long) {
		t.Fatal("fingerprint unstable on long input")
	}
	if got == "" {
		t.Fatal("empty fingerprint")
	}
}

func TestObjectEqualByValue(t *testing.T) {
	x := map[string]any{"b": 2, "a": 1}
	y := map[string]any{"a": 1, "b": 2}
	hx, err := Object(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hy, err := Object(y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hx != hy {
		t.Fatalf("equal-by-value maps hashed differently: %s vs %s", hx, hy)
	}

	y["b"] = 3
	hz, _ := Object(y)
	if hz == hx {
		t.Fatal("changed field did not change the fingerprint")
	}
}
