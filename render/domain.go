package render

import (
	"fmt"
	"sort"

	"github.com/Ferroin/fvirt/models"
)

func identityXML(d *models.Domain) string {
	parts := []string{
		textElem("name", "", d.Name),
	}
	if d.UUID != "" {
		parts = append(parts, textElem("uuid", "", d.UUID))
	}
	if d.GenID != "" {
		parts = append(parts, textElem("genid", "", d.GenID))
	}
	if d.Title != "" {
		parts = append(parts, textElem("title", "", d.Title))
	}
	if d.Description != "" {
		parts = append(parts, textElem("description", "", d.Description))
	}
	return joinLines(parts...)
}

func resourcesXML(d *models.Domain) string {
	parts := []string{
		textElem("memory", attrs(a("unit", "bytes")), fmt.Sprintf("%d", d.Memory)),
	}
	if d.Memtune != nil {
		parts = append(parts, memtuneXML(d.Memtune))
	}
	if d.VCPU > 0 {
		parts = append(parts, textElem("vcpu", "", fmt.Sprintf("%d", d.VCPU)))
	}
	return joinLines(parts...)
}

func memtuneXML(m *models.Memtune) string {
	limits := []struct {
		name  string
		value *int64
	}{
		{"hard_limit", m.Hard},
		{"soft_limit", m.Soft},
		{"swap_hard_limit", m.Swap},
		{"min_guarantee", m.Min},
	}
	var parts []string
	for _, l := range limits {
		if l.value == nil {
			continue
		}
		parts = append(parts, textElem(l.name, attrs(a("unit", "bytes")), fmt.Sprintf("%d", *l.value)))
	}
	return elem("memtune", "", "\n"+indent(joinLines(parts...), 1)+"\n")
}

func lifecycleXML(d *models.Domain) string {
	actions := []struct {
		name  string
		value string
	}{
		{"on_poweroff", d.OnPoweroff},
		{"on_reboot", d.OnReboot},
		{"on_crash", d.OnCrash},
		{"on_lockfailure", d.OnLockfailure},
	}
	var parts []string
	for _, ac := range actions {
		if ac.value == "" {
			continue
		}
		parts = append(parts, textElem(ac.name, "", ac.value))
	}
	return joinLines(parts...)
}

// osXML renders the <os> element and, for host bootloader configurations,
// the sibling <bootloader> elements that live directly under <domain>.
func osXML(o *models.OS, defaultType string) string {
	typ := o.Type
	if typ == "" {
		typ = defaultType
	}
	children := []string{
		textElem("type", attrs(a("arch", o.Arch), a("machine", o.Machine)), typ),
	}

	switch o.Variant {
	case "firmware":
		if o.Loader != nil {
			children = append(children, textElem("loader", attrs(
				a("readonly", o.Loader.ReadOnly),
				a("secure", o.Loader.Secure),
				a("stateless", o.Loader.Stateless),
				a("type", o.Loader.Type),
			), o.Loader.Path))
		}
		if o.NVRAM != nil {
			children = append(children, textElem("nvram", attrs(a("template", o.NVRAM.Template)), o.NVRAM.Path))
		}
	case "direct":
		if o.Loader != nil {
			children = append(children, textElem("loader", "", o.Loader.Path))
		}
		children = append(children, textElem("kernel", "", o.Kernel))
		if o.Initrd != "" {
			children = append(children, textElem("initrd", "", o.Initrd))
		}
		if o.Cmdline != "" {
			children = append(children, textElem("cmdline", "", o.Cmdline))
		}
		if o.DTB != "" {
			children = append(children, textElem("dtb", "", o.DTB))
		}
	case "container":
		if o.Init != "" {
			children = append(children, textElem("init", "", o.Init))
		}
		for _, arg := range o.InitArgs {
			children = append(children, textElem("initarg", "", arg))
		}
		for _, k := range sortedKeys(o.InitEnv) {
			children = append(children, textElem("initenv", attrs(a("name", k)), o.InitEnv[k]))
		}
		if o.InitDir != "" {
			children = append(children, textElem("initdir", "", o.InitDir))
		}
		if o.InitUser != "" {
			children = append(children, textElem("inituser", "", o.InitUser))
		}
		if o.InitGroup != "" {
			children = append(children, textElem("initgroup", "", o.InitGroup))
		}
	}

	osAttrs := ""
	if o.Variant == "firmware" && o.Firmware != "" {
		osAttrs = attrs(a("firmware", o.Firmware))
	}
	parts := []string{
		elem("os", osAttrs, "\n"+indent(joinLines(children...), 1)+"\n"),
	}

	if o.Variant == "host" {
		parts = append(parts, textElem("bootloader", "", o.Bootloader))
		if o.BootloaderArgs != "" {
			parts = append(parts, textElem("bootloader_args", "", o.BootloaderArgs))
		}
	}
	if o.Variant == "container" && o.IDMap != nil {
		parts = append(parts, idmapXML(o.IDMap))
	}
	return joinLines(parts...)
}

func idmapXML(m *models.IDMap) string {
	entry := func(name string, e *models.IDMapEntry) string {
		if e == nil {
			return ""
		}
		return elem(name, attrs(
			a("start", "0"),
			a("target", fmt.Sprintf("%d", e.Target)),
			a("count", fmt.Sprintf("%d", e.Count)),
		), "")
	}
	return elem("idmap", "", "\n"+indent(joinLines(entry("uid", m.UID), entry("gid", m.GID)), 1)+"\n")
}

func cpuXML(c *models.CPU) string {
	if c == nil {
		return ""
	}
	var children []string
	if c.Model != nil {
		children = append(children, textElem("model", attrs(a("fallback", c.Model.Fallback)), c.Model.Name))
	}
	if t := c.Topology; t != nil && t.TotalCPUs() > 0 {
		children = append(children, elem("topology", attrs(
			a("sockets", fmt.Sprintf("%d", t.Sockets)),
			a("dies", fmt.Sprintf("%d", t.Dies)),
			a("cores", fmt.Sprintf("%d", t.Cores)),
			a("threads", fmt.Sprintf("%d", t.Threads)),
		), ""))
	}
	body := ""
	if len(children) > 0 {
		body = "\n" + indent(joinLines(children...), 1) + "\n"
	}
	out := elem("cpu", attrs(a("mode", c.Mode)), body)
	if out == "<cpu/>" {
		return ""
	}
	return out
}

func clockXML(c *models.Clock) string {
	if c == nil {
		return elem("clock", attrs(a("offset", "utc")), "")
	}
	offset := c.Offset
	if offset == "" {
		offset = "utc"
	}
	clockAttrs := []attr{
		a("offset", offset),
		a("timezone", c.TZ),
		a("basis", c.Basis),
		a("adjustment", c.Adjustment),
		an("start", c.Start),
	}
	var timers []string
	for _, t := range c.Timers {
		timers = append(timers, elem("timer", attrs(
			a("name", t.Name),
			a("track", t.Track),
			a("tickpolicy", t.TickPolicy),
			a("present", t.Present),
		), ""))
	}
	body := ""
	if len(timers) > 0 {
		body = "\n" + indent(joinLines(timers...), 1) + "\n"
	}
	return elem("clock", attrs(clockAttrs...), body)
}

// featuresCommonXML renders the hypervisor-independent feature elements.
// Flavor blocks extend the result with their own fragments.
func featuresCommonXML(f *models.Features) []string {
	if f == nil {
		return nil
	}
	var parts []string
	if f.ACPI {
		parts = append(parts, elem("acpi", "", ""))
	}
	if f.APIC != nil {
		parts = append(parts, elem("apic", attrs(a("eoi", f.APIC.EOI)), ""))
	}
	if f.PAE {
		parts = append(parts, elem("pae", "", ""))
	}
	if f.AsyncTeardown != "" {
		parts = append(parts, elem("async-teardown", attrs(a("enabled", f.AsyncTeardown)), ""))
	}
	if f.Caps != nil {
		var caps []string
		for _, k := range sortedKeys(f.Caps.Modify) {
			caps = append(caps, elem(k, attrs(a("state", f.Caps.Modify[k])), ""))
		}
		body := ""
		if len(caps) > 0 {
			body = "\n" + indent(joinLines(caps...), 1) + "\n"
		}
		parts = append(parts, elem("capabilities", attrs(a("policy", f.Caps.Policy)), body))
	}
	if f.GIC != nil {
		parts = append(parts, elem("gic", attrs(a("version", f.GIC.Version)), ""))
	}
	if f.IOAPIC != nil {
		parts = append(parts, elem("ioapic", attrs(a("driver", f.IOAPIC.Driver)), ""))
	}
	if f.HAP != "" {
		parts = append(parts, elem("hap", attrs(a("state", f.HAP)), ""))
	}
	if f.HTM != "" {
		parts = append(parts, elem("htm", attrs(a("state", f.HTM)), ""))
	}
	if f.PMU != "" {
		parts = append(parts, elem("pmu", attrs(a("state", f.PMU)), ""))
	}
	if f.PVSpinlock != "" {
		parts = append(parts, elem("pvspinlock", attrs(a("state", f.PVSpinlock)), ""))
	}
	if f.SMM != "" {
		parts = append(parts, elem("smm", attrs(a("state", f.SMM)), ""))
	}
	if f.TCG != nil {
		body := ""
		if f.TCG.TBCache != nil {
			body = "\n" + indent(textElem("tb-cache", attrs(a("unit", "MiB")), fmt.Sprintf("%d", *f.TCG.TBCache)), 1) + "\n"
		}
		parts = append(parts, elem("tcg", "", body))
	}
	if f.VMCoreInfo != "" {
		parts = append(parts, elem("vmcoreinfo", attrs(a("state", f.VMCoreInfo)), ""))
	}
	if f.VMPort != "" {
		parts = append(parts, elem("vmport", attrs(a("state", f.VMPort)), ""))
	}
	return parts
}

func hypervXML(h *models.FeaturesHyperV) string {
	if h == nil {
		return ""
	}
	toggles := []struct {
		name  string
		state string
	}{
		{"avic", h.AVIC},
		{"evmcs", h.EVMCS},
		{"frequencies", h.Frequencies},
		{"ipi", h.IPI},
		{"reenlightenment", h.Reenlightenment},
		{"relaxed", h.Relaxed},
		{"reset", h.Reset},
		{"runtime", h.Runtime},
		{"synic", h.SyNIC},
		{"tlbflush", h.TLBFlush},
		{"vapic", h.VAPIC},
		{"vpindex", h.VPIndex},
	}
	var parts []string
	for _, t := range toggles {
		if t.state == "" {
			continue
		}
		parts = append(parts, elem(t.name, attrs(a("state", t.state)), ""))
	}
	if h.Spinlocks != nil {
		parts = append(parts, elem("spinlocks", attrs(
			a("state", h.Spinlocks.State),
			an("retries", h.Spinlocks.Retries),
		), ""))
	}
	if h.STimer != nil {
		body := ""
		if h.STimer.Direct != "" {
			body = "\n" + indent(elem("direct", attrs(a("state", h.STimer.Direct)), ""), 1) + "\n"
		}
		parts = append(parts, elem("stimer", attrs(a("state", h.STimer.State)), body))
	}
	if h.VendorID != nil {
		parts = append(parts, elem("vendor_id", attrs(
			a("state", h.VendorID.State),
			a("value", h.VendorID.Value),
		), ""))
	}
	body := ""
	if len(parts) > 0 {
		body = "\n" + indent(joinLines(parts...), 1) + "\n"
	}
	return elem("hyperv", attrs(a("mode", h.Mode)), body)
}

func kvmFeaturesXML(k *models.FeaturesKVM) string {
	if k == nil {
		return ""
	}
	var parts []string
	if k.DirtyRing != nil {
		parts = append(parts, elem("dirty-ring", attrs(
			a("state", k.DirtyRing.State),
			an("size", k.DirtyRing.Size),
		), ""))
	}
	if k.Hidden != "" {
		parts = append(parts, elem("hidden", attrs(a("state", k.Hidden)), ""))
	}
	if k.HintDedicated != "" {
		parts = append(parts, elem("hint-dedicated", attrs(a("state", k.HintDedicated)), ""))
	}
	if k.PollControl != "" {
		parts = append(parts, elem("poll-control", attrs(a("state", k.PollControl)), ""))
	}
	if k.PVIPI != "" {
		parts = append(parts, elem("pv-ipi", attrs(a("state", k.PVIPI)), ""))
	}
	body := ""
	if len(parts) > 0 {
		body = "\n" + indent(joinLines(parts...), 1) + "\n"
	}
	return elem("kvm", "", body)
}

func xenFeaturesXML(x *models.FeaturesXen) string {
	if x == nil {
		return ""
	}
	var parts []string
	if x.E820Host != "" {
		parts = append(parts, elem("e820_host", attrs(a("state", x.E820Host)), ""))
	}
	if x.Passthrough != nil {
		parts = append(parts, elem("passthrough", attrs(
			a("state", x.Passthrough.State),
			a("mode", x.Passthrough.Mode),
		), ""))
	}
	body := ""
	if len(parts) > 0 {
		body = "\n" + indent(joinLines(parts...), 1) + "\n"
	}
	return elem("xen", "", body)
}

func commandlineXML(ns string, args []string) string {
	if len(args) == 0 {
		return ""
	}
	var parts []string
	for _, arg := range args {
		parts = append(parts, elem(ns+":arg", attrs(a("value", arg)), ""))
	}
	return elem(ns+":commandline", "", "\n"+indent(joinLines(parts...), 1)+"\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
