package models

import (
	"strings"
	"testing"
)

// testDomain builds a minimal valid KVM domain.
func testDomain() *Domain {
	return &Domain{
		Type:   DomainKVM,
		Name:   "test-vm",
		Memory: 2 * 1024 * 1024 * 1024,
		OS:     &OS{Variant: "firmware"},
	}
}

func TestDomainValidate_Minimal(t *testing.T) {
	d := testDomain()
	d.Normalize()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if d.VCPU != 1 {
		t.Errorf("VCPU = %d after Normalize, want 1", d.VCPU)
	}
}

func TestDomainNormalize_VCPUFromTopology(t *testing.T) {
	d := testDomain()
	d.CPU = &CPU{Topology: &CPUTopology{Sockets: 2, Cores: 4, Threads: 2}}

	d.Normalize()

	if d.VCPU != 16 {
		t.Errorf("VCPU = %d, want 16", d.VCPU)
	}
	if d.CPU.Topology.Dies != 1 {
		t.Errorf("Dies = %d, want 1", d.CPU.Topology.Dies)
	}
}

func TestDomainNormalize_TopologyFromVCPU(t *testing.T) {
	tests := []struct {
		name     string
		vcpu     int
		topology CPUTopology
		want     CPUTopology
	}{
		{
			name:     "default coalesces into cores",
			vcpu:     8,
			topology: CPUTopology{},
			want:     CPUTopology{Sockets: 1, Dies: 1, Cores: 8, Threads: 1},
		},
		{
			name:     "explicit coalesce level",
			vcpu:     4,
			topology: CPUTopology{Coalesce: "threads"},
			want:     CPUTopology{Coalesce: "threads", Sockets: 1, Dies: 1, Cores: 1, Threads: 4},
		},
		{
			name:     "matching topology untouched",
			vcpu:     8,
			topology: CPUTopology{Sockets: 2, Cores: 2, Threads: 2},
			want:     CPUTopology{Sockets: 2, Dies: 1, Cores: 2, Threads: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDomain()
			d.VCPU = tt.vcpu
			topo := tt.topology
			d.CPU = &CPU{Topology: &topo}

			d.Normalize()

			if *d.CPU.Topology != tt.want {
				t.Errorf("topology = %+v, want %+v", *d.CPU.Topology, tt.want)
			}
			if d.VCPU != tt.vcpu {
				t.Errorf("VCPU = %d, want %d", d.VCPU, tt.vcpu)
			}
		})
	}
}

func TestDomainNormalize_Idempotent(t *testing.T) {
	d := testDomain()
	d.VCPU = 6
	d.CPU = &CPU{Topology: &CPUTopology{Coalesce: "sockets"}}
	d.Features = &Features{HyperV: &FeaturesHyperV{Relaxed: "on"}}

	d.Normalize()
	first := *d.CPU.Topology
	firstMode := d.Features.HyperV.Mode

	d.Normalize()

	if *d.CPU.Topology != first {
		t.Errorf("second Normalize changed topology: %+v != %+v", *d.CPU.Topology, first)
	}
	if d.Features.HyperV.Mode != firstMode {
		t.Errorf("second Normalize changed hyperv mode: %q != %q", d.Features.HyperV.Mode, firstMode)
	}
}

func TestDomainValidate_FlavorConflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Domain)
		want   string
	}{
		{
			name:   "unknown flavor",
			mutate: func(d *Domain) { d.Type = "vmware" },
			want:   "type: unknown-variant",
		},
		{
			name:   "container boot on a vm flavor",
			mutate: func(d *Domain) { d.OS = &OS{Variant: "container"} },
			want:   "os.variant: conflict",
		},
		{
			name: "vm boot on a container flavor",
			mutate: func(d *Domain) {
				d.Type = DomainLXC
			},
			want: "os.variant: conflict",
		},
		{
			name: "hyperv on xen",
			mutate: func(d *Domain) {
				d.Type = DomainXen
				d.Features = &Features{HyperV: &FeaturesHyperV{Relaxed: "on"}}
			},
			want: "features.hyperv: forbidden",
		},
		{
			name: "kvm features on test",
			mutate: func(d *Domain) {
				d.Type = DomainTest
				d.OS = &OS{Variant: "test", Arch: "x86_64"}
				d.Features = &Features{KVM: &FeaturesKVM{Hidden: "on"}}
			},
			want: "features.kvm: forbidden",
		},
		{
			name: "xen features on kvm",
			mutate: func(d *Domain) {
				d.Features = &Features{Xen: &FeaturesXen{E820Host: "on"}}
			},
			want: "features.xen: forbidden",
		},
		{
			name: "qemu args on xen",
			mutate: func(d *Domain) {
				d.Type = DomainXen
				d.QEMUCommandline = []string{"-something"}
			},
			want: "qemu_commandline: forbidden",
		},
		{
			name: "xen args on kvm",
			mutate: func(d *Domain) {
				d.XenCommandline = []string{"loglvl=all"}
			},
			want: "xen_commandline: forbidden",
		},
		{
			name: "disk on a container flavor",
			mutate: func(d *Domain) {
				d.Type = DomainLXC
				d.OS = &OS{Variant: "container", Init: "/sbin/init"}
				d.Devices = &Devices{Disks: []Disk{{
					Type:   "file",
					Src:    &DiskSource{Path: "/img.qcow2"},
					Target: &DiskTarget{Dev: "vda"},
				}}}
			},
			want: "devices.disks: forbidden",
		},
		{
			name: "graphics on a container flavor",
			mutate: func(d *Domain) {
				d.Type = DomainLXC
				d.OS = &OS{Variant: "container", Init: "/sbin/init"}
				d.Devices = &Devices{Graphics: []Graphics{{Type: "vnc"}}}
			},
			want: "devices.graphics: forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDomain()
			tt.mutate(d)
			d.Normalize()

			err := d.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDomainValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Domain)
		want   string
	}{
		{
			name:   "missing name",
			mutate: func(d *Domain) { d.Name = "" },
			want:   "name: required",
		},
		{
			name:   "zero memory",
			mutate: func(d *Domain) { d.Memory = 0 },
			want:   "memory: format",
		},
		{
			name:   "bad uuid",
			mutate: func(d *Domain) { d.UUID = "xyz" },
			want:   "uuid: format",
		},
		{
			name:   "bad lifecycle action",
			mutate: func(d *Domain) { d.OnPoweroff = "explode" },
			want:   "on_poweroff: enum",
		},
		{
			name:   "coredump only valid for crash",
			mutate: func(d *Domain) { d.OnReboot = "coredump-restart" },
			want:   "on_reboot: enum",
		},
		{
			name:   "empty memtune",
			mutate: func(d *Domain) { d.Memtune = &Memtune{} },
			want:   "memtune",
		},
		{
			name: "bad clock timer",
			mutate: func(d *Domain) {
				d.Clock = &Clock{Timers: []ClockTimer{{Name: ""}}}
			},
			want: "clock.timers[0].name: required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDomain()
			tt.mutate(d)
			d.Normalize()

			err := d.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadDomain(t *testing.T) {
	d, err := LoadDomain([]byte(`
type: kvm
name: web-01
memory: 4294967296
vcpu: 2
os:
  variant: firmware
devices:
  disks:
    - type: file
      src: /var/lib/libvirt/images/web-01.qcow2
      target:
        dev: vda
        bus: virtio
`))
	if err != nil {
		t.Fatalf("LoadDomain() error = %v", err)
	}

	d.Normalize()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if got := d.Devices.Disks[0].Src.Path; got != "/var/lib/libvirt/images/web-01.qcow2" {
		t.Errorf("disk src path = %q", got)
	}
}
