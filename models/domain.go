package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Memtune describes memory tuning limits for a domain. All values are
// bytes; at least one limit must be set when the block is present.
type Memtune struct {
	Hard *int64 `yaml:"hard,omitempty"`
	Soft *int64 `yaml:"soft,omitempty"`
	Swap *int64 `yaml:"swap,omitempty"`
	Min  *int64 `yaml:"min,omitempty"`
}

func (m *Memtune) validate(r *Report, p string) {
	limits := []struct {
		name  string
		value *int64
	}{
		{"hard", m.Hard}, {"soft", m.Soft}, {"swap", m.Swap}, {"min", m.Min},
	}

	set := 0
	for _, l := range limits {
		if l.value == nil {
			continue
		}
		set++
		if *l.value <= 0 {
			r.add(path(p, l.name), RuleFormat, *l.value)
		}
	}
	if set == 0 {
		r.add(p, RuleRequired, "at least one limit")
	}
}

// CPUModel describes the <model> element of the <cpu> element.
type CPUModel struct {
	Name     string `yaml:"name"`
	Fallback string `yaml:"fallback,omitempty"`
}

// CPUTopology describes guest CPU topology. Coalesce names the level that
// absorbs the vcpu count when the topology does not multiply out to it.
type CPUTopology struct {
	Coalesce string `yaml:"coalesce,omitempty"`
	Sockets  int    `yaml:"sockets,omitempty"`
	Dies     int    `yaml:"dies,omitempty"`
	Cores    int    `yaml:"cores,omitempty"`
	Threads  int    `yaml:"threads,omitempty"`
}

// TotalCPUs is the number of logical CPUs the topology describes.
func (t *CPUTopology) TotalCPUs() int {
	return t.Sockets * t.Dies * t.Cores * t.Threads
}

// normalize fills in defaults and syncs the topology with the vcpu
// count. When the topology already matches, nothing changes; otherwise the
// coalesce level (or the least disruptive level, falling back to cores)
// takes the whole count and the rest collapse to 1.
func (t *CPUTopology) normalize(vcpus int) {
	if t.Sockets == 0 {
		t.Sockets = 1
	}
	if t.Dies == 0 {
		t.Dies = 1
	}
	if t.Cores == 0 {
		t.Cores = 1
	}
	if t.Threads == 0 {
		t.Threads = 1
	}

	if vcpus < 1 || t.TotalCPUs() == vcpus {
		return
	}

	if t.Coalesce == "" {
		if t.Dies*t.Cores*t.Threads == vcpus {
			t.Sockets = 1
			return
		}
		if t.Cores*t.Threads == vcpus {
			t.Sockets = 1
			t.Dies = 1
			return
		}
		t.Sockets = 1
		t.Dies = 1
		t.Cores = vcpus
		t.Threads = 1
		return
	}

	t.Sockets = 1
	t.Dies = 1
	t.Cores = 1
	t.Threads = 1
	switch t.Coalesce {
	case "sockets":
		t.Sockets = vcpus
	case "dies":
		t.Dies = vcpus
	case "cores":
		t.Cores = vcpus
	case "threads":
		t.Threads = vcpus
	}
}

func (t *CPUTopology) validate(r *Report, p string) {
	checkEnum(r, path(p, "coalesce"), t.Coalesce, "sockets", "dies", "cores", "threads")

	counts := []struct {
		name  string
		value int
	}{
		{"sockets", t.Sockets}, {"dies", t.Dies}, {"cores", t.Cores}, {"threads", t.Threads},
	}
	for _, c := range counts {
		if c.value <= 0 {
			r.add(path(p, c.name), RuleFormat, c.value)
		}
	}
}

// CPU describes the <cpu> element of a domain.
type CPU struct {
	Mode     string       `yaml:"mode,omitempty"`
	Model    *CPUModel    `yaml:"model,omitempty"`
	Topology *CPUTopology `yaml:"topology,omitempty"`
}

// ClockTimer describes one <timer /> element of the clock configuration.
type ClockTimer struct {
	Name       string `yaml:"name"`
	Track      string `yaml:"track,omitempty"`
	TickPolicy string `yaml:"tickpolicy,omitempty"`
	Present    string `yaml:"present,omitempty"`
}

// Clock describes clock configuration for a domain.
type Clock struct {
	Offset     string       `yaml:"offset,omitempty"`
	TZ         string       `yaml:"tz,omitempty"`
	Basis      string       `yaml:"basis,omitempty"`
	Adjustment string       `yaml:"adjustment,omitempty"`
	Start      *int         `yaml:"start,omitempty"`
	Timers     []ClockTimer `yaml:"timers,omitempty"`
}

func (c *Clock) validate(r *Report, p string) {
	checkEnum(r, path(p, "offset"), c.Offset, "utc", "localtime", "timezone", "variable", "absolute")
	checkEnum(r, path(p, "basis"), c.Basis, "utc", "localtime")

	for i, t := range c.Timers {
		tp := indexed(path(p, "timers"), i)
		checkString(r, path(tp, "name"), required, t.Name)
		checkYesNo(r, path(tp, "present"), t.Present)
	}
}

// Domain flavors. The flavor selects which template chain renders the
// domain and which feature and extra blocks are legal.
const (
	DomainKVM  = "kvm"
	DomainQEMU = "qemu"
	DomainXen  = "xen"
	DomainLXC  = "lxc"
	DomainTest = "test"
)

var domainTypes = []string{DomainKVM, DomainQEMU, DomainXen, DomainLXC, DomainTest}

// Domain describes a complete domain configuration document. Memory is in
// bytes. A VCPU count of 0 is normalized from the CPU topology when one is
// given, or defaults to 1.
type Domain struct {
	Type        string `yaml:"type"`
	Name        string `yaml:"name"`
	UUID        string `yaml:"uuid,omitempty"`
	GenID       string `yaml:"genid,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`

	VCPU    int      `yaml:"vcpu,omitempty"`
	Memory  int64    `yaml:"memory"`
	Memtune *Memtune `yaml:"memtune,omitempty"`

	OS       *OS       `yaml:"os"`
	CPU      *CPU      `yaml:"cpu,omitempty"`
	Clock    *Clock    `yaml:"clock,omitempty"`
	Features *Features `yaml:"features,omitempty"`
	Devices  *Devices  `yaml:"devices,omitempty"`

	OnPoweroff    string `yaml:"on_poweroff,omitempty"`
	OnReboot      string `yaml:"on_reboot,omitempty"`
	OnCrash       string `yaml:"on_crash,omitempty"`
	OnLockfailure string `yaml:"on_lockfailure,omitempty"`

	QEMUCommandline []string `yaml:"qemu_commandline,omitempty"`
	XenCommandline  []string `yaml:"xen_commandline,omitempty"`
}

// Normalize applies defaults and derived values in place: vcpu inference
// from topology, topology coalescing, Hyper-V mode fixup, and per-device
// defaulting. Normalizing an already-normalized domain changes nothing.
func (d *Domain) Normalize() {
	if d.CPU != nil {
		if d.CPU.Topology == nil {
			d.CPU.Topology = &CPUTopology{}
		}
		d.CPU.Topology.normalize(d.VCPU)
		if d.VCPU == 0 {
			d.VCPU = d.CPU.Topology.TotalCPUs()
		}
	}
	if d.VCPU == 0 {
		d.VCPU = 1
	}

	if d.Features != nil {
		d.Features.normalize()
	}
	if d.Devices != nil {
		d.Devices.normalize()
	}
}

// Validate checks the domain configuration and returns a *Report holding
// every violation found, or nil when the configuration is valid. Callers
// should Normalize first; the document assembler does both.
func (d *Domain) Validate() error {
	r := &Report{}

	if !containsString(domainTypes, d.Type) {
		r.add("type", RuleUnknownVariant, d.Type)
		return r
	}

	checkString(r, "name", required, d.Name)
	checkUUID(r, "uuid", d.UUID)
	checkUUID(r, "genid", d.GenID)

	if d.VCPU < 0 {
		r.add("vcpu", RuleFormat, d.VCPU)
	}
	if d.Memory <= 0 {
		r.add("memory", RuleFormat, d.Memory)
	}
	if d.Memtune != nil {
		d.Memtune.validate(r, "memtune")
	}

	if d.OS == nil {
		r.add("os", RuleRequired, nil)
	} else {
		d.OS.validate(r, "os")
		d.validateOSFlavor(r)
	}

	if d.CPU != nil {
		if d.CPU.Model != nil {
			checkString(r, path("cpu", "model", "name"), required, d.CPU.Model.Name)
		}
		if d.CPU.Topology != nil {
			d.CPU.Topology.validate(r, path("cpu", "topology"))
		}
	}

	if d.Clock != nil {
		d.Clock.validate(r, "clock")
	}
	if d.Features != nil {
		d.Features.validate(r, "features")
		d.validateFeatureFlavor(r)
	}
	if d.Devices != nil {
		d.Devices.validate(r, "devices")
		d.validateDeviceFlavor(r)
	}

	lifecycle := []string{"destroy", "restart", "preserve", "rename-restart"}
	checkEnum(r, "on_poweroff", d.OnPoweroff, lifecycle...)
	checkEnum(r, "on_reboot", d.OnReboot, lifecycle...)
	checkEnum(r, "on_crash", d.OnCrash, append(lifecycle, "coredump-destroy", "coredump-restart")...)
	checkEnum(r, "on_lockfailure", d.OnLockfailure, "poweroff", "restart", "pause", "ignore")

	if len(d.QEMUCommandline) > 0 && d.Type != DomainKVM && d.Type != DomainQEMU {
		r.add("qemu_commandline", RuleForbidden, nil)
	}
	if len(d.XenCommandline) > 0 && d.Type != DomainXen {
		r.add("xen_commandline", RuleForbidden, nil)
	}

	return r.errOrNil()
}

// validateOSFlavor ties the OS variant to the domain flavor: container
// domains and the container boot variant imply each other.
func (d *Domain) validateOSFlavor(r *Report) {
	if d.Type == DomainLXC && d.OS.Variant != "container" {
		r.add(path("os", "variant"), RuleConflict, d.OS.Variant)
	}
	if d.Type != DomainLXC && d.OS.Variant == "container" {
		r.add(path("os", "variant"), RuleConflict, d.OS.Variant)
	}
}

// validateFeatureFlavor rejects hypervisor feature blocks on the wrong
// flavor.
func (d *Domain) validateFeatureFlavor(r *Report) {
	if d.Features.HyperV != nil && d.Type != DomainKVM && d.Type != DomainQEMU {
		r.add(path("features", "hyperv"), RuleForbidden, nil)
	}
	if d.Features.KVM != nil && d.Type != DomainKVM && d.Type != DomainQEMU {
		r.add(path("features", "kvm"), RuleForbidden, nil)
	}
	if d.Features.Xen != nil && d.Type != DomainXen {
		r.add(path("features", "xen"), RuleForbidden, nil)
	}
}

// validateDeviceFlavor limits container domains to the device categories
// the lxc driver understands: filesystems, interfaces, character devices,
// RNGs, and memory balloons.
func (d *Domain) validateDeviceFlavor(r *Report) {
	if d.Type != DomainLXC {
		return
	}
	categories := []struct {
		name  string
		count int
	}{
		{"controllers", len(d.Devices.Controllers)},
		{"disks", len(d.Devices.Disks)},
		{"input", len(d.Devices.Inputs)},
		{"graphics", len(d.Devices.Graphics)},
		{"video", len(d.Devices.Videos)},
		{"watchdog", len(d.Devices.Watchdogs)},
		{"tpm", len(d.Devices.TPMs)},
		{"panic", len(d.Devices.Panics)},
	}
	for _, c := range categories {
		if c.count > 0 {
			r.add(path("devices", c.name), RuleForbidden, nil)
		}
	}
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// LoadDomain decodes a YAML document into a Domain without validating it.
func LoadDomain(data []byte) (*Domain, error) {
	var d Domain
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse domain config: %w", err)
	}
	return &d, nil
}

// LoadPool decodes a YAML document into a Pool without validating it.
func LoadPool(data []byte) (*Pool, error) {
	var p Pool
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	return &p, nil
}
