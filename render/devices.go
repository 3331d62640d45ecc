package render

import (
	"fmt"

	"github.com/Ferroin/fvirt/models"
)

func controllerXML(c *models.Controller) string {
	attrText := attrs(
		a("type", c.Type),
		an("index", c.Index),
		a("model", c.Model),
		an("ports", c.Ports),
		an("vectors", c.Vectors),
		an("maxEventChannels", c.MaxEventChannels),
		an("maxGrantFrames", c.MaxGrantFrames),
	)
	body := ""
	if d := c.Driver; d != nil {
		body = elem("driver", attrs(
			an("queues", d.Queues),
			an("cmd_per_lun", d.CmdPerLun),
			an("max_sectors", d.MaxSectors),
		), "")
	}
	return elem("controller", attrText, body)
}

func pciAddressXML(addr *models.PCIAddress) string {
	return elem("address", attrs(
		a("type", "pci"),
		a("domain", addr.Domain),
		a("bus", addr.Bus),
		a("slot", addr.Slot),
		a("function", addr.Function),
		a("multifunction", addr.Multifunction),
	), "")
}

func driveAddressXML(addr *models.DriveAddress) string {
	return elem("address", attrs(
		a("type", "drive"),
		an("controller", addr.Controller),
		a("bus", fmt.Sprintf("%d", addr.Bus)),
		a("target", fmt.Sprintf("%d", addr.Target)),
		a("unit", fmt.Sprintf("%d", addr.Unit)),
	), "")
}

func diskXML(d *models.Disk) string {
	device := d.Device
	if device == "" {
		device = "disk"
	}
	var children []string

	srcAttrs := []attr{a("startupPolicy", d.Startup)}
	switch d.Type {
	case "file":
		srcAttrs = append([]attr{a("file", d.Src.Path)}, srcAttrs...)
	case "block":
		srcAttrs = append([]attr{a("dev", d.Src.Path)}, srcAttrs...)
	case "volume":
		srcAttrs = append([]attr{a("pool", d.Src.Pool), a("volume", d.Src.Volume)}, srcAttrs...)
	}
	children = append(children, elem("source", attrs(srcAttrs...), ""))

	t := d.Target
	children = append(children, elem("target", attrs(
		a("dev", t.Dev),
		a("bus", t.Bus),
		a("removable", t.Removable),
		an("rotation_rate", t.RotationRate),
	), ""))
	if t.PCIAddr != nil {
		children = append(children, pciAddressXML(t.PCIAddr))
	}
	if t.DriveAddr != nil {
		children = append(children, driveAddressXML(t.DriveAddr))
	}
	if d.Boot != nil {
		children = append(children, elem("boot", attrs(an("order", d.Boot)), ""))
	}
	if d.ReadOnly {
		children = append(children, elem("readonly", "", ""))
	}

	return elem("disk",
		attrs(a("type", d.Type), a("device", device), a("snapshot", d.Snapshot)),
		"\n"+indent(joinLines(children...), 1)+"\n")
}

func filesystemXML(f *models.Filesystem) string {
	srcAttr := f.SrcType
	if srcAttr == "" {
		srcAttr = "dir"
	}
	var children []string
	if d := f.Driver; d != nil {
		children = append(children, elem("driver", attrs(
			a("type", d.Type),
			a("format", d.Format),
			a("queues", d.Queues),
			a("wrpolicy", d.WrPolicy),
		), ""))
	}
	children = append(children,
		elem("source", attrs(a(srcAttr, f.Source)), ""),
		elem("target", attrs(a("dir", f.Target)), ""),
	)
	if f.ReadOnly {
		children = append(children, elem("readonly", "", ""))
	}
	return elem("filesystem", attrs(
		a("type", f.Type),
		a("accessmode", f.AccessMode),
		a("fmode", f.FMode),
		a("dmode", f.DMode),
		a("multidev", f.Multidev),
	), "\n"+indent(joinLines(children...), 1)+"\n")
}

func interfaceXML(n *models.Interface) string {
	var children []string

	srcAttrs := []attr{}
	switch n.Type {
	case "bridge":
		srcAttrs = append(srcAttrs, a("bridge", n.Src))
	case "network":
		srcAttrs = append(srcAttrs, a("network", n.Src))
	case "direct":
		srcAttrs = append(srcAttrs, a("dev", n.Src), a("mode", n.Mode))
	}
	if s := attrs(srcAttrs...); s != "" {
		children = append(children, elem("source", s, ""))
	}
	if n.MAC != "" {
		children = append(children, elem("mac", attrs(a("address", n.MAC)), ""))
	}
	if n.Target != "" {
		children = append(children, elem("target", attrs(a("dev", n.Target)), ""))
	}
	if vp := n.VirtualPort; vp != nil {
		params := elem("parameters", attrs(
			a("instanceid", vp.InstanceID),
			a("interfaceid", vp.InterfaceID),
			a("managerid", vp.ManagerID),
			a("profileid", vp.ProfileID),
			a("typeid", vp.TypeID),
			a("typeidversion", vp.TypeIDVersion),
		), "")
		children = append(children, elem("virtualport", "", "\n"+indent(params, 1)+"\n"))
	}
	ipElem := func(family string, ip *models.InterfaceIP) string {
		return elem("ip", attrs(
			a("family", family),
			a("address", ip.Address),
			a("prefix", fmt.Sprintf("%d", ip.Prefix)),
		), "")
	}
	if n.IPv4 != nil {
		children = append(children, ipElem("ipv4", n.IPv4))
	}
	if n.IPv6 != nil {
		children = append(children, ipElem("ipv6", n.IPv6))
	}
	if n.Boot != nil {
		children = append(children, elem("boot", attrs(an("order", n.Boot)), ""))
	}

	body := ""
	if len(children) > 0 {
		body = "\n" + indent(joinLines(children...), 1) + "\n"
	}
	return elem("interface", attrs(a("type", n.Type)), body)
}

func inputXML(in *models.Input) string {
	body := ""
	if s := in.Src; s != nil {
		body = elem("source", attrs(
			a("dev", s.Dev),
			a("grab", s.Grab),
			a("repeat", s.Repeat),
			a("grabToggle", s.GrabToggle),
		), "")
	}
	return elem("input", attrs(
		a("type", in.Type),
		a("bus", in.Bus),
		a("model", in.Model),
	), body)
}

func graphicsXML(g *models.Graphics) string {
	gAttrs := []attr{
		a("type", g.Type),
		an("port", g.Port),
		an("tlsPort", g.TLSPort),
		a("autoport", g.AutoPort),
		an("websocket", g.WebSocket),
		a("socket", g.Socket),
		a("passwd", g.Passwd),
		a("passwdValidTo", g.PasswdValidTo),
		a("keymap", g.Keymap),
		a("connected", g.Connected),
		a("sharePolicy", g.SharePolicy),
		a("powerControl", g.PowerControl),
		a("defaultMode", g.DefaultMode),
		a("multiUser", g.MultiUser),
		a("replaceUser", g.ReplaceUser),
	}
	var children []string
	for i := range g.Listeners {
		l := &g.Listeners[i]
		children = append(children, elem("listen", attrs(
			a("type", l.Type),
			a("address", l.Address),
			a("network", l.Network),
			a("socket", l.Socket),
		), ""))
	}
	for _, name := range sortedKeys(g.Channels) {
		children = append(children, elem("channel", attrs(
			a("name", name),
			a("mode", g.Channels[name]),
		), ""))
	}
	if g.Audio != "" {
		children = append(children, elem("audio", attrs(a("id", g.Audio)), ""))
	}
	body := ""
	if len(children) > 0 {
		body = "\n" + indent(joinLines(children...), 1) + "\n"
	}
	return elem("graphics", attrs(gAttrs...), body)
}

func videoXML(v *models.Video) string {
	model := elem("model", attrs(
		a("type", v.Type),
		an("vram", v.VRam),
		an("heads", v.Heads),
		a("blob", v.Blob),
	), "")
	return elem("video", "", "\n"+indent(model, 1)+"\n")
}

func charDevSourceXML(s *models.CharDevSource) string {
	if s == nil {
		return ""
	}
	text := attrs(
		a("mode", s.Mode),
		a("path", s.Path),
		a("channel", s.Channel),
		a("host", s.Host),
		an("service", s.Service),
		a("tls", s.TLS),
	)
	if text == "" {
		return ""
	}
	return elem("source", text, "")
}

func charDevXML(c *models.CharDev) string {
	var children []string
	if s := charDevSourceXML(c.Src); s != "" {
		children = append(children, s)
	}
	if t := c.Target; t != nil {
		children = append(children, elem("target", attrs(
			a("type", t.Type),
			an("port", t.Port),
			a("address", t.Address),
			a("name", t.Name),
			a("state", t.State),
		), ""))
	}
	if l := c.Log; l != nil {
		children = append(children, elem("log", attrs(
			a("file", l.File),
			a("append", l.Append),
		), ""))
	}
	body := ""
	if len(children) > 0 {
		body = "\n" + indent(joinLines(children...), 1) + "\n"
	}
	return elem(c.Category, attrs(a("type", c.Type)), body)
}

func watchdogXML(w *models.Watchdog) string {
	return elem("watchdog", attrs(a("model", w.Model), a("action", w.Action)), "")
}

func rngXML(d *models.RNG) string {
	var children []string
	if r := d.Rate; r != nil {
		children = append(children, elem("rate", attrs(
			a("bytes", fmt.Sprintf("%d", r.Bytes)),
			an("period", r.Period),
		), ""))
	}
	if b := d.Backend; b != nil {
		switch b.Model {
		case "random":
			children = append(children, textElem("backend", attrs(a("model", "random")), b.Path))
		case "egd":
			body := charDevSourceXML(&b.CharDevSource)
			if body != "" {
				body = "\n" + indent(body, 1) + "\n"
			}
			children = append(children, elem("backend", attrs(a("model", "egd"), a("type", b.Type)), body))
		default:
			children = append(children, elem("backend", attrs(a("model", b.Model)), ""))
		}
	}
	body := ""
	if len(children) > 0 {
		body = "\n" + indent(joinLines(children...), 1) + "\n"
	}
	return elem("rng", attrs(a("model", d.Model)), body)
}

func tpmXML(t *models.TPM) string {
	var backend string
	switch t.Type {
	case "passthrough":
		backend = elem("backend", attrs(a("type", "passthrough")),
			"\n"+indent(elem("device", attrs(a("path", t.Dev)), ""), 1)+"\n")
	default:
		var children []string
		if t.Encryption != "" {
			children = append(children, elem("encryption", attrs(a("secret", t.Encryption)), ""))
		}
		if len(t.ActivePCRBanks) > 0 {
			var banks []string
			for _, b := range t.ActivePCRBanks {
				banks = append(banks, elem(b, "", ""))
			}
			children = append(children, elem("active_pcr_banks", "", "\n"+indent(joinLines(banks...), 1)+"\n"))
		}
		body := ""
		if len(children) > 0 {
			body = "\n" + indent(joinLines(children...), 1) + "\n"
		}
		backend = elem("backend", attrs(
			a("type", t.Type),
			a("version", t.Version),
			a("persistent_state", t.PersistentState),
		), body)
	}
	return elem("tpm", attrs(a("model", t.Model)), "\n"+indent(backend, 1)+"\n")
}

// deviceListXML renders every configured device, one element per line,
// in a fixed category order.
func deviceListXML(d *models.Devices) []string {
	if d == nil {
		return nil
	}
	var parts []string
	for i := range d.Controllers {
		parts = append(parts, controllerXML(&d.Controllers[i]))
	}
	for i := range d.Disks {
		parts = append(parts, diskXML(&d.Disks[i]))
	}
	for i := range d.Filesystems {
		parts = append(parts, filesystemXML(&d.Filesystems[i]))
	}
	for i := range d.Interfaces {
		parts = append(parts, interfaceXML(&d.Interfaces[i]))
	}
	for i := range d.Inputs {
		parts = append(parts, inputXML(&d.Inputs[i]))
	}
	for i := range d.Graphics {
		parts = append(parts, graphicsXML(&d.Graphics[i]))
	}
	for i := range d.Videos {
		parts = append(parts, videoXML(&d.Videos[i]))
	}
	for i := range d.CharDevs {
		parts = append(parts, charDevXML(&d.CharDevs[i]))
	}
	for i := range d.Watchdogs {
		parts = append(parts, watchdogXML(&d.Watchdogs[i]))
	}
	for i := range d.RNGs {
		parts = append(parts, rngXML(&d.RNGs[i]))
	}
	for i := range d.TPMs {
		parts = append(parts, tpmXML(&d.TPMs[i]))
	}
	for i := range d.MemBalloons {
		parts = append(parts, elem("memballoon", attrs(a("model", d.MemBalloons[i].Model)), ""))
	}
	for i := range d.Panics {
		parts = append(parts, elem("panic", attrs(a("model", d.Panics[i].Model)), ""))
	}
	return parts
}

// containerDeviceListXML renders the device subset meaningful for
// container domains.
func containerDeviceListXML(d *models.Devices) []string {
	if d == nil {
		return nil
	}
	var parts []string
	for i := range d.Filesystems {
		parts = append(parts, filesystemXML(&d.Filesystems[i]))
	}
	for i := range d.Interfaces {
		parts = append(parts, interfaceXML(&d.Interfaces[i]))
	}
	for i := range d.CharDevs {
		parts = append(parts, charDevXML(&d.CharDevs[i]))
	}
	for i := range d.RNGs {
		parts = append(parts, rngXML(&d.RNGs[i]))
	}
	for i := range d.MemBalloons {
		parts = append(parts, elem("memballoon", attrs(a("model", d.MemBalloons[i].Model)), ""))
	}
	return parts
}

func wrapDevices(parts []string) string {
	if len(parts) == 0 {
		return elem("devices", "", "")
	}
	return elem("devices", "", "\n"+indent(joinLines(parts...), 1)+"\n")
}
