package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPublisherExposesRegisteredMetrics(t *testing.T) {
	pub := NewPublisher()

	pub.RecordRegistration("landing-page", true)
	pub.RecordRegistration("landing-page", false)
	pub.RecordRegistration("landing-page", false)
	pub.SetOperatorLoad("Ada", 3)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	pub.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("scrape status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`leadflow_contact_registrations_total{assigned="true",source="landing-page"} 1`,
		`leadflow_contact_registrations_total{assigned="false",source="landing-page"} 2`,
		`leadflow_operator_active_contacts{operator="Ada"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q\nbody:\n%s", want, body)
		}
	}
}

func TestPublisherRegistriesAreIndependent(t *testing.T) {
	first := NewPublisher()
	second := NewPublisher()

	first.RecordRegistration("web", true)

	rec := httptest.NewRecorder()
	second.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if strings.Contains(rec.Body.String(), `source="web"`) {
		t.Fatal("second publisher observed samples recorded on the first")
	}
}
