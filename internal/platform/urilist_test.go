package platform

import (
	"slices"
	"testing"
)

func TestParseURIList(t *testing.T) {
	list := "# comment\r\nfile:///home/user/a%20b.txt\r\nhttp://example.com/x\r\nfile://host/tmp/c\r\n\r\n"
	got := ParseURIList(list)
	want := []string{"/home/user/a b.txt", "/tmp/c"}
	if !slices.Equal(got, want) {
		t.Fatalf("ParseURIList = %q, want %q", got, want)
	}
}

func TestParseURIListEmpty(t *testing.T) {
	if got := ParseURIList("#only a comment\n"); got != nil {
		t.Fatalf("ParseURIList = %q, want nil", got)
	}
}
