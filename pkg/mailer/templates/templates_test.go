package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRenderWelcome(t *testing.T) {
	data := NewWelcomeData(Brand{AppName: "Tasks", SupportURL: "https://help.example"}, "Ana", "ana@example.com")
	subject, text, html, err := Render(Welcome, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "Welcome to Tasks" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(text, "Hi Ana,") || !strings.Contains(text, "ana@example.com") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(html, `href="https://help.example"`) {
		t.Errorf("html missing support link: %q", html)
	}
}

func TestRenderProfileUpdatedListsChanges(t *testing.T) {
	at := time.Date(2026, 6, 1, 14, 30, 0, 0, time.UTC)
	data := NewProfileUpdatedData(Brand{}, "Ana", "ana@example.com", []string{"name", "bio"}, WithTime(at))
	subject, text, html, err := Render(ProfileUpdated, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "Your Task Dashboard profile was updated" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"- name", "- bio", "01 June 2026, 14:30 UTC"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
	if !strings.Contains(html, "<li>bio</li>") {
		t.Errorf("html = %q", html)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	data := NewWelcomeData(Brand{}, "<script>x</script>", "a@example.com")
	_, _, html, err := Render(Welcome, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("name not escaped: %q", html)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("login_otp", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
