package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/clinic-suite/clinic-backend/config"
)

func TestRenderDoctorWelcome(t *testing.T) {
	cfg := &config.Config{ClinicName: "Hope Clinic", LoginURL: "https://clinic.test/login"}
	data := NewDoctorWelcomeData(cfg, "Jane Doe", "jane@clinic.test",
		WithDepartment("Cardiology"),
		WithDefaultPassword(true),
		WithTime(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)),
	)

	subject, text, html, err := Render(DoctorWelcome, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "Hope Clinic") || !strings.Contains(subject, "Jane Doe") {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Cardiology", "jane@clinic.test", "https://clinic.test/login", "change it", "02 January 2026, 03:04"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(html, "<strong>Cardiology</strong>") {
		t.Errorf("html missing department:\n%s", html)
	}
}

func TestRenderWelcomeWithoutDefaultPassword(t *testing.T) {
	data := NewDoctorWelcomeData(nil, "Ann Lee", "ann@clinic.test")
	subject, text, _, err := Render(DoctorWelcome, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "the clinic") {
		t.Errorf("subject fallback missing: %q", subject)
	}
	if strings.Contains(text, "initial password") {
		t.Errorf("default password note rendered:\n%s", text)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nope", map[string]any{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
