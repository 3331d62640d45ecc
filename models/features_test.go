package models

import (
	"strings"
	"testing"
)

func TestFeaturesNormalize_HyperVMode(t *testing.T) {
	tests := []struct {
		name   string
		hyperv FeaturesHyperV
		want   string
	}{
		{
			name:   "bare block defaults to passthrough",
			hyperv: FeaturesHyperV{},
			want:   "passthrough",
		},
		{
			name:   "toggle forces custom",
			hyperv: FeaturesHyperV{Relaxed: "on"},
			want:   "custom",
		},
		{
			name:   "sub-element forces custom",
			hyperv: FeaturesHyperV{STimer: &FeaturesHyperVSTimer{State: "on"}},
			want:   "custom",
		},
		{
			name:   "explicit passthrough overridden by customization",
			hyperv: FeaturesHyperV{Mode: "passthrough", VAPIC: "on"},
			want:   "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.hyperv
			f := &Features{HyperV: &h}
			f.normalize()
			if f.HyperV.Mode != tt.want {
				t.Errorf("mode = %q, want %q", f.HyperV.Mode, tt.want)
			}
		})
	}
}

func TestFeaturesValidate(t *testing.T) {
	retriesLow := 100
	retriesOK := 8191
	ringTooSmall := 512
	ringOdd := 3000
	ringOK := 4096
	tbCache := 256

	tests := []struct {
		name     string
		features Features
		want     []string // empty means valid
	}{
		{
			name: "full valid set",
			features: Features{
				ACPI: true,
				APIC: &FeaturesAPIC{EOI: "on"},
				HAP:  "on",
				GIC:  &FeaturesGIC{Version: "3"},
				Caps: &FeaturesCaps{Policy: "default", Modify: map[string]string{"net_admin": "on"}},
				TCG:  &FeaturesTCG{TBCache: &tbCache},
				HyperV: &FeaturesHyperV{
					Mode:      "custom",
					Relaxed:   "on",
					Spinlocks: &FeaturesHyperVSpinlocks{State: "on", Retries: &retriesOK},
				},
				KVM: &FeaturesKVM{DirtyRing: &FeaturesKVMDirtyRing{State: "on", Size: &ringOK}},
			},
		},
		{
			name:     "bad toggle value",
			features: Features{HAP: "enabled"},
			want:     []string{"features.hap: enum"},
		},
		{
			name:     "bad gic version",
			features: Features{GIC: &FeaturesGIC{Version: "4"}},
			want:     []string{"features.gic.version: enum"},
		},
		{
			name:     "caps needs policy",
			features: Features{Caps: &FeaturesCaps{Modify: map[string]string{"net_admin": "on"}}},
			want:     []string{"features.caps.policy: required"},
		},
		{
			name: "spinlock retries too low",
			features: Features{HyperV: &FeaturesHyperV{
				Spinlocks: &FeaturesHyperVSpinlocks{State: "on", Retries: &retriesLow},
			}},
			want: []string{"features.hyperv.spinlocks.retries: format"},
		},
		{
			name: "dirty ring too small",
			features: Features{KVM: &FeaturesKVM{
				DirtyRing: &FeaturesKVMDirtyRing{State: "on", Size: &ringTooSmall},
			}},
			want: []string{"features.kvm.dirty_ring.size: format"},
		},
		{
			name: "dirty ring not a power of two",
			features: Features{KVM: &FeaturesKVM{
				DirtyRing: &FeaturesKVMDirtyRing{State: "on", Size: &ringOdd},
			}},
			want: []string{"features.kvm.dirty_ring.size: format"},
		},
		{
			name: "vendor id too long",
			features: Features{HyperV: &FeaturesHyperV{
				VendorID: &FeaturesHyperVVendorID{State: "on", Value: "WayTooLongVendor"},
			}},
			want: []string{"features.hyperv.vendor_id.value: format"},
		},
		{
			name:     "bad xen passthrough mode",
			features: Features{Xen: &FeaturesXen{Passthrough: &FeaturesXenPassthrough{State: "on", Mode: "fast"}}},
			want:     []string{"features.xen.passthrough.mode: enum"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.features
			f.normalize()
			r := &Report{}
			f.validate(r, "features")

			if len(tt.want) == 0 {
				if !r.Empty() {
					t.Errorf("got violations %v, want none", r.Violations)
				}
				return
			}
			if r.Empty() {
				t.Fatal("got no violations, want some")
			}
			for _, want := range tt.want {
				if !strings.Contains(r.Error(), want) {
					t.Errorf("violations %q, want them to contain %q", r.Error(), want)
				}
			}
		})
	}
}
