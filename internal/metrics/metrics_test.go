package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/salonsite/internal/core"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.ObserveDataset(&core.Dataset{
		Salons: make([]core.SalonView, 3),
		Cities: make([]core.CityView, 2),
	})
	r.ObserveLinks(core.LinkReport{SalonsWithoutCity: 4, UnknownCategoryRefs: 1})
	r.ObservePhase("resolve", 1500*time.Millisecond)
	r.FileWritten()
	r.FileWritten()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"salons", testutil.ToFloat64(r.entities.WithLabelValues("salon")), 3},
		{"cities", testutil.ToFloat64(r.entities.WithLabelValues("city")), 2},
		{"states", testutil.ToFloat64(r.entities.WithLabelValues("state")), 0},
		{"salon_city", testutil.ToFloat64(r.unresolved.WithLabelValues("salon_city")), 4},
		{"category_ref", testutil.ToFloat64(r.unresolved.WithLabelValues("category_ref")), 1},
		{"resolve", testutil.ToFloat64(r.phaseSeconds.WithLabelValues("resolve")), 1.5},
		{"files", testutil.ToFloat64(r.filesWritten), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.MarkSuccess(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "salonsite.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "salonsite_last_success_timestamp_seconds ") {
		t.Errorf("textfile missing last success gauge:\n%s", body)
	}
}
