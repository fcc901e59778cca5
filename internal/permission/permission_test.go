package permission

import (
	"testing"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

func TestAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		granted  []model.Capability
		required []model.Capability
		want     bool
	}{
		{"exact match", []model.Capability{model.CapCommander}, []model.Capability{model.CapCommander}, true},
		{"one of several", []model.Capability{model.CapUserAdmin}, []model.Capability{model.CapAdmin, model.CapCommander, model.CapUserAdmin}, true},
		{"no overlap", []model.Capability{model.CapStaffRole}, []model.Capability{model.CapAdmin, model.CapCommander}, false},
		{"empty granted", nil, []model.Capability{model.CapCommander}, false},
		{"empty required", []model.Capability{model.CapAdmin}, nil, false},
		{"both empty", nil, nil, false},
		{"admin does not satisfy commander check by itself", []model.Capability{model.CapAdmin}, []model.Capability{model.CapCommander}, false},
		{"multiple granted", []model.Capability{model.CapStaffRole, model.CapApprover, model.CapCommander}, []model.Capability{model.CapCommander}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorized(tt.granted, tt.required); got != tt.want {
				t.Errorf("Authorized(%v, %v) = %v, want %v", tt.granted, tt.required, got, tt.want)
			}
		})
	}
}
