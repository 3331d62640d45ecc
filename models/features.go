package models

// FeaturesAPIC configures the <apic /> feature element. A present but
// empty struct emits the element without attributes.
type FeaturesAPIC struct {
	EOI string `yaml:"eoi,omitempty"`
}

// FeaturesGIC configures the <gic /> feature element.
type FeaturesGIC struct {
	Version string `yaml:"version,omitempty"`
}

// FeaturesIOAPIC configures the <ioapic /> feature element.
type FeaturesIOAPIC struct {
	Driver string `yaml:"driver,omitempty"`
}

// FeaturesCaps configures the <capabilities> feature element.
type FeaturesCaps struct {
	Policy string            `yaml:"policy"`
	Modify map[string]string `yaml:"modify,omitempty"`
}

// FeaturesHyperVSpinlocks configures the Hyper-V spinlocks element.
type FeaturesHyperVSpinlocks struct {
	State   string `yaml:"state"`
	Retries *int   `yaml:"retries,omitempty"`
}

// FeaturesHyperVSTimer configures the Hyper-V stimer element.
type FeaturesHyperVSTimer struct {
	State  string `yaml:"state"`
	Direct string `yaml:"direct,omitempty"`
}

// FeaturesHyperVVendorID configures the Hyper-V vendor_id element.
type FeaturesHyperVVendorID struct {
	State string `yaml:"state"`
	Value string `yaml:"value,omitempty"`
}

// FeaturesHyperV configures Hyper-V enlightenments for a domain. Mode is
// normalized to "custom" whenever any individual toggle is set.
type FeaturesHyperV struct {
	Mode            string                   `yaml:"mode,omitempty"`
	AVIC            string                   `yaml:"avic,omitempty"`
	EVMCS           string                   `yaml:"evmcs,omitempty"`
	Frequencies     string                   `yaml:"frequencies,omitempty"`
	IPI             string                   `yaml:"ipi,omitempty"`
	Reenlightenment string                   `yaml:"reenlightenment,omitempty"`
	Relaxed         string                   `yaml:"relaxed,omitempty"`
	Reset           string                   `yaml:"reset,omitempty"`
	Runtime         string                   `yaml:"runtime,omitempty"`
	Spinlocks       *FeaturesHyperVSpinlocks `yaml:"spinlocks,omitempty"`
	STimer          *FeaturesHyperVSTimer    `yaml:"stimer,omitempty"`
	SyNIC           string                   `yaml:"synic,omitempty"`
	TLBFlush        string                   `yaml:"tlbflush,omitempty"`
	VAPIC           string                   `yaml:"vapic,omitempty"`
	VendorID        *FeaturesHyperVVendorID  `yaml:"vendor_id,omitempty"`
	VPIndex         string                   `yaml:"vpindex,omitempty"`
}

// customized reports whether any individual enlightenment is configured.
func (h *FeaturesHyperV) customized() bool {
	for _, v := range []string{
		h.AVIC, h.EVMCS, h.Frequencies, h.IPI, h.Reenlightenment, h.Relaxed,
		h.Reset, h.Runtime, h.SyNIC, h.TLBFlush, h.VAPIC, h.VPIndex,
	} {
		if v != "" {
			return true
		}
	}
	return h.Spinlocks != nil || h.STimer != nil || h.VendorID != nil
}

// FeaturesKVMDirtyRing configures the KVM dirty-ring element.
type FeaturesKVMDirtyRing struct {
	State string `yaml:"state"`
	Size  *int   `yaml:"size,omitempty"`
}

// FeaturesKVM configures KVM paravirtualization features for a domain.
type FeaturesKVM struct {
	DirtyRing     *FeaturesKVMDirtyRing `yaml:"dirty_ring,omitempty"`
	Hidden        string                `yaml:"hidden,omitempty"`
	HintDedicated string                `yaml:"hint_dedicated,omitempty"`
	PollControl   string                `yaml:"poll_control,omitempty"`
	PVIPI         string                `yaml:"pv_ipi,omitempty"`
}

// FeaturesXenPassthrough configures the Xen passthrough element.
type FeaturesXenPassthrough struct {
	State string `yaml:"state"`
	Mode  string `yaml:"mode,omitempty"`
}

// FeaturesXen configures Xen-specific features for a domain.
type FeaturesXen struct {
	E820Host    string                  `yaml:"e820_host,omitempty"`
	Passthrough *FeaturesXenPassthrough `yaml:"passthrough,omitempty"`
}

// FeaturesTCG configures TCG features for a domain. TBCache is the
// translation block cache size in mibibytes.
type FeaturesTCG struct {
	TBCache *int `yaml:"tb_cache,omitempty"`
}

// Features describes the <features> element of a domain.
type Features struct {
	ACPI          bool            `yaml:"acpi,omitempty"`
	PAE           bool            `yaml:"pae,omitempty"`
	APIC          *FeaturesAPIC   `yaml:"apic,omitempty"`
	AsyncTeardown string          `yaml:"async_teardown,omitempty"`
	Caps          *FeaturesCaps   `yaml:"caps,omitempty"`
	GIC           *FeaturesGIC    `yaml:"gic,omitempty"`
	IOAPIC        *FeaturesIOAPIC `yaml:"ioapic,omitempty"`
	HAP           string          `yaml:"hap,omitempty"`
	HTM           string          `yaml:"htm,omitempty"`
	HyperV        *FeaturesHyperV `yaml:"hyperv,omitempty"`
	KVM           *FeaturesKVM    `yaml:"kvm,omitempty"`
	PMU           string          `yaml:"pmu,omitempty"`
	PVSpinlock    string          `yaml:"pvspinlock,omitempty"`
	SMM           string          `yaml:"smm,omitempty"`
	TCG           *FeaturesTCG    `yaml:"tcg,omitempty"`
	VMCoreInfo    string          `yaml:"vmcoreinfo,omitempty"`
	VMPort        string          `yaml:"vmport,omitempty"`
	Xen           *FeaturesXen    `yaml:"xen,omitempty"`
}

// normalize applies the Hyper-V mode fixup.
func (f *Features) normalize() {
	if f.HyperV != nil {
		if f.HyperV.Mode == "" {
			f.HyperV.Mode = "passthrough"
		}
		if f.HyperV.customized() {
			f.HyperV.Mode = "custom"
		}
	}
}

func (f *Features) validate(r *Report, p string) {
	checkYesNo(r, path(p, "async_teardown"), f.AsyncTeardown)
	checkOnOff(r, path(p, "hap"), f.HAP)
	checkOnOff(r, path(p, "htm"), f.HTM)
	checkOnOff(r, path(p, "pmu"), f.PMU)
	checkOnOff(r, path(p, "pvspinlock"), f.PVSpinlock)
	checkOnOff(r, path(p, "smm"), f.SMM)
	checkOnOff(r, path(p, "vmcoreinfo"), f.VMCoreInfo)
	checkOnOff(r, path(p, "vmport"), f.VMPort)

	if f.APIC != nil {
		checkOnOff(r, path(p, "apic", "eoi"), f.APIC.EOI)
	}
	if f.GIC != nil {
		checkEnum(r, path(p, "gic", "version"), f.GIC.Version, "2", "3", "host")
	}
	if f.IOAPIC != nil {
		checkEnum(r, path(p, "ioapic", "driver"), f.IOAPIC.Driver, "kvm", "qemu")
	}
	if f.Caps != nil {
		checkString(r, path(p, "caps", "policy"), required, f.Caps.Policy)
		checkEnum(r, path(p, "caps", "policy"), f.Caps.Policy, "default", "allow", "deny")
		for k, v := range f.Caps.Modify {
			if v != "on" && v != "off" {
				r.add(path(p, "caps", "modify", k), RuleEnum, v)
			}
		}
	}
	if f.HyperV != nil {
		f.HyperV.validate(r, path(p, "hyperv"))
	}
	if f.KVM != nil {
		f.KVM.validate(r, path(p, "kvm"))
	}
	if f.Xen != nil {
		f.Xen.validate(r, path(p, "xen"))
	}
	if f.TCG != nil {
		checkPositive(r, path(p, "tcg", "tb_cache"), f.TCG.TBCache)
	}
}

func (h *FeaturesHyperV) validate(r *Report, p string) {
	checkEnum(r, path(p, "mode"), h.Mode, "passthrough", "custom")

	toggles := []struct {
		name  string
		value string
	}{
		{"avic", h.AVIC}, {"evmcs", h.EVMCS}, {"frequencies", h.Frequencies},
		{"ipi", h.IPI}, {"reenlightenment", h.Reenlightenment}, {"relaxed", h.Relaxed},
		{"reset", h.Reset}, {"runtime", h.Runtime}, {"synic", h.SyNIC},
		{"tlbflush", h.TLBFlush}, {"vapic", h.VAPIC}, {"vpindex", h.VPIndex},
	}
	for _, t := range toggles {
		checkOnOff(r, path(p, t.name), t.value)
	}

	if h.Spinlocks != nil {
		checkString(r, path(p, "spinlocks", "state"), required, h.Spinlocks.State)
		checkOnOff(r, path(p, "spinlocks", "state"), h.Spinlocks.State)
		if h.Spinlocks.Retries != nil && *h.Spinlocks.Retries <= 4095 {
			r.add(path(p, "spinlocks", "retries"), RuleFormat, *h.Spinlocks.Retries)
		}
	}
	if h.STimer != nil {
		checkString(r, path(p, "stimer", "state"), required, h.STimer.State)
		checkOnOff(r, path(p, "stimer", "state"), h.STimer.State)
		checkOnOff(r, path(p, "stimer", "direct"), h.STimer.Direct)
	}
	if h.VendorID != nil {
		checkString(r, path(p, "vendor_id", "state"), required, h.VendorID.State)
		checkOnOff(r, path(p, "vendor_id", "state"), h.VendorID.State)
		if len(h.VendorID.Value) > 12 {
			r.add(path(p, "vendor_id", "value"), RuleFormat, h.VendorID.Value)
		}
	}
}

func (k *FeaturesKVM) validate(r *Report, p string) {
	checkOnOff(r, path(p, "hidden"), k.Hidden)
	checkOnOff(r, path(p, "hint_dedicated"), k.HintDedicated)
	checkOnOff(r, path(p, "poll_control"), k.PollControl)
	checkOnOff(r, path(p, "pv_ipi"), k.PVIPI)

	if k.DirtyRing != nil {
		checkString(r, path(p, "dirty_ring", "state"), required, k.DirtyRing.State)
		checkOnOff(r, path(p, "dirty_ring", "state"), k.DirtyRing.State)
		if s := k.DirtyRing.Size; s != nil {
			if *s < 1024 || *s > 65536 || *s&(*s-1) != 0 {
				r.add(path(p, "dirty_ring", "size"), RuleFormat, *s)
			}
		}
	}
}

func (x *FeaturesXen) validate(r *Report, p string) {
	checkOnOff(r, path(p, "e820_host"), x.E820Host)

	if x.Passthrough != nil {
		checkString(r, path(p, "passthrough", "state"), required, x.Passthrough.State)
		checkOnOff(r, path(p, "passthrough", "state"), x.Passthrough.State)
		checkEnum(r, path(p, "passthrough", "mode"), x.Passthrough.Mode, "sync_pt", "share_pt")
	}
}
