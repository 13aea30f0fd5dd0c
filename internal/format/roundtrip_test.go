package format

import "testing"

func TestCheckRoundTrip(t *testing.T) {
	src := "sequenceDiagram\n participant A\n\n\nloop  forever\nA->>A:  spin\nend\n"
	rt, err := CheckRoundTrip("rt.mmd", src, Options{IndentWidth: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rt.OK() {
		t.Fatalf("round trip failed: %+v", rt)
	}
	want := "sequenceDiagram\n  participant A\n\nloop forever\n  A->>A: spin\nend\n"
	if rt.Output != want {
		t.Fatalf("output:\nwant %q\ngot  %q", want, rt.Output)
	}
}

func TestCheckRoundTripParseError(t *testing.T) {
	if _, err := CheckRoundTrip("bad.mmd", "graph TD\n\x01\n", Options{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFirstDiffLine(t *testing.T) {
	if got := firstDiffLine("a\nb\nc\n", "a\nx\nc\n"); got != 2 {
		t.Fatalf("firstDiffLine = %d", got)
	}
	if got := firstDiffLine("a\n", "a\nb\n"); got != 2 {
		t.Fatalf("firstDiffLine on prefix = %d", got)
	}
}
