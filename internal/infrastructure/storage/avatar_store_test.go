package storage

import "testing"

func TestObjectPath(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"me.PNG", "avatars/u1/abc.png"},
		{"../../etc/passwd", "avatars/u1/abc"},
		{`C:\photos\face.jpeg`, "avatars/u1/abc.jpeg"},
		{"", "avatars/u1/abc"},
	}
	for _, tt := range tests {
		if got := objectPath("u1", "abc", tt.filename); got != tt.want {
			t.Errorf("objectPath(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestPublicURL(t *testing.T) {
	if got := publicURL("bkt", "avatars/u1/abc.png"); got != "https://storage.googleapis.com/bkt/avatars/u1/abc.png" {
		t.Errorf("publicURL = %q", got)
	}
}
