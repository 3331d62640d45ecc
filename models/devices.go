package models

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

var macPattern = regexp.MustCompile(`^([0-9a-f]{2}:){5}[0-9a-f]{2}$`)

// PCIAddress describes a PCI device address.
type PCIAddress struct {
	Domain        string `yaml:"domain,omitempty"`
	Bus           string `yaml:"bus"`
	Slot          string `yaml:"slot"`
	Function      string `yaml:"function,omitempty"`
	Multifunction string `yaml:"multifunction,omitempty"`
}

var (
	pciBusSlotPattern = regexp.MustCompile(`^0x[0-9a-f]{2}$`)
	pciFuncPattern    = regexp.MustCompile(`^0x[0-9a-f]$`)
	pciDomainPattern  = regexp.MustCompile(`^0x[0-9a-f]{4}$`)
)

func (a *PCIAddress) validate(r *Report, p string) {
	if !pciBusSlotPattern.MatchString(a.Bus) {
		r.add(path(p, "bus"), RuleFormat, a.Bus)
	}
	if !pciBusSlotPattern.MatchString(a.Slot) {
		r.add(path(p, "slot"), RuleFormat, a.Slot)
	}
	if a.Function != "" && !pciFuncPattern.MatchString(a.Function) {
		r.add(path(p, "function"), RuleFormat, a.Function)
	}
	if a.Domain != "" && !pciDomainPattern.MatchString(a.Domain) {
		r.add(path(p, "domain"), RuleFormat, a.Domain)
	}
	checkOnOff(r, path(p, "multifunction"), a.Multifunction)
}

// DriveAddress describes a controller/bus/target/unit drive address.
type DriveAddress struct {
	Controller *int `yaml:"controller,omitempty"`
	Bus        int  `yaml:"bus,omitempty"`
	Target     int  `yaml:"target,omitempty"`
	Unit       int  `yaml:"unit,omitempty"`
}

func (a *DriveAddress) validate(r *Report, p string) {
	if a.Controller != nil && *a.Controller < 0 {
		r.add(path(p, "controller"), RuleFormat, *a.Controller)
	}
	if a.Bus < 0 {
		r.add(path(p, "bus"), RuleFormat, a.Bus)
	}
	if a.Target < 0 {
		r.add(path(p, "target"), RuleFormat, a.Target)
	}
	if a.Unit < 0 {
		r.add(path(p, "unit"), RuleFormat, a.Unit)
	}
}

// DataRate describes a data transfer rate limit.
type DataRate struct {
	Bytes  int  `yaml:"bytes"`
	Period *int `yaml:"period,omitempty"`
}

// ControllerDriver describes the <driver> element of a controller.
type ControllerDriver struct {
	Queues     *int `yaml:"queues,omitempty"`
	CmdPerLun  *int `yaml:"cmd_per_lun,omitempty"`
	MaxSectors *int `yaml:"max_sectors,omitempty"`
}

// Controller describes a controller device. Ports and Vectors are only
// legal for virtio-serial controllers, the event channel and grant frame
// limits only for xenbus controllers.
type Controller struct {
	Type             string            `yaml:"type"`
	Index            *int              `yaml:"index,omitempty"`
	Model            string            `yaml:"model,omitempty"`
	Driver           *ControllerDriver `yaml:"driver,omitempty"`
	Ports            *int              `yaml:"ports,omitempty"`
	Vectors          *int              `yaml:"vectors,omitempty"`
	MaxEventChannels *int              `yaml:"max_event_channels,omitempty"`
	MaxGrantFrames   *int              `yaml:"max_grant_frames,omitempty"`
}

func (c *Controller) validate(r *Report, p string) {
	checkString(r, path(p, "type"), required, c.Type)

	if c.Index != nil && *c.Index < 0 {
		r.add(path(p, "index"), RuleFormat, *c.Index)
	}

	if c.Type != "virtio-serial" {
		if c.Ports != nil {
			r.add(path(p, "ports"), RuleForbidden, *c.Ports)
		}
		if c.Vectors != nil {
			r.add(path(p, "vectors"), RuleForbidden, *c.Vectors)
		}
	}
	if c.Type != "xenbus" {
		if c.MaxEventChannels != nil {
			r.add(path(p, "max_event_channels"), RuleForbidden, *c.MaxEventChannels)
		}
		if c.MaxGrantFrames != nil {
			r.add(path(p, "max_grant_frames"), RuleForbidden, *c.MaxGrantFrames)
		}
	}

	checkPositive(r, path(p, "ports"), c.Ports)
	checkPositive(r, path(p, "vectors"), c.Vectors)
	checkPositive(r, path(p, "max_event_channels"), c.MaxEventChannels)
	checkPositive(r, path(p, "max_grant_frames"), c.MaxGrantFrames)

	if c.Driver != nil {
		checkPositive(r, path(p, "driver", "queues"), c.Driver.Queues)
		checkPositive(r, path(p, "driver", "cmd_per_lun"), c.Driver.CmdPerLun)
		checkPositive(r, path(p, "driver", "max_sectors"), c.Driver.MaxSectors)
	}
}

// DiskSource is either a bare path (file and block disks) or a
// pool/volume reference (volume disks). In YAML a scalar is the path and
// a mapping carries pool and volume keys.
type DiskSource struct {
	Path   string
	Pool   string
	Volume string
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (s *DiskSource) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&s.Path)
	case yaml.MappingNode:
		var ref struct {
			Pool   string `yaml:"pool"`
			Volume string `yaml:"volume"`
		}
		if err := node.Decode(&ref); err != nil {
			return err
		}
		s.Pool = ref.Pool
		s.Volume = ref.Volume
		return nil
	default:
		return fmt.Errorf("disk source must be a path or a pool/volume mapping")
	}
}

// DiskTarget describes how a disk attaches to the guest.
type DiskTarget struct {
	Dev          string        `yaml:"dev"`
	Bus          string        `yaml:"bus,omitempty"`
	Removable    string        `yaml:"removable,omitempty"`
	RotationRate *int          `yaml:"rotation_rate,omitempty"`
	PCIAddr      *PCIAddress   `yaml:"pci_addr,omitempty"`
	DriveAddr    *DriveAddress `yaml:"drive_addr,omitempty"`
}

var (
	pciAddrBuses   = []string{"virtio", "xen"}
	driveAddrBuses = []string{"scsi", "ide", "usb", "sata", "sd"}
)

func (t *DiskTarget) validate(r *Report, p string) {
	checkString(r, path(p, "dev"), required, t.Dev)
	checkOnOff(r, path(p, "removable"), t.Removable)
	checkRange(r, path(p, "rotation_rate"), t.RotationRate, 0, 65535)

	if t.PCIAddr != nil && t.DriveAddr != nil {
		r.add(p, RuleConflict, "pci_addr and drive_addr")
		return
	}

	// Addresses are only meaningful relative to an explicit bus, and each
	// address kind pairs with a fixed bus set.
	if t.PCIAddr != nil {
		if t.Bus == "" {
			r.add(path(p, "pci_addr"), RuleConflict, nil)
		} else {
			checkEnum(r, path(p, "bus"), t.Bus, pciAddrBuses...)
		}
		t.PCIAddr.validate(r, path(p, "pci_addr"))
	}
	if t.DriveAddr != nil {
		if t.Bus == "" {
			r.add(path(p, "drive_addr"), RuleConflict, nil)
		} else {
			checkEnum(r, path(p, "bus"), t.Bus, driveAddrBuses...)
		}
		t.DriveAddr.validate(r, path(p, "drive_addr"))
	}
}

// Disk describes a disk device. Type selects the source shape.
type Disk struct {
	Type     string      `yaml:"type"`
	Src      *DiskSource `yaml:"src"`
	Target   *DiskTarget `yaml:"target"`
	Boot     *int        `yaml:"boot,omitempty"`
	Device   string      `yaml:"device,omitempty"`
	ReadOnly bool        `yaml:"readonly,omitempty"`
	Snapshot string      `yaml:"snapshot,omitempty"`
	Startup  string      `yaml:"startup,omitempty"`
}

func (d *Disk) validate(r *Report, p string) {
	switch d.Type {
	case "file", "block":
		if d.Src == nil || d.Src.Path == "" {
			r.add(path(p, "src"), RuleRequired, nil)
		} else if d.Src.Pool != "" || d.Src.Volume != "" {
			r.add(path(p, "src"), RuleConflict, "pool/volume reference on a path-backed disk")
		}
	case "volume":
		if d.Src == nil || d.Src.Pool == "" || d.Src.Volume == "" {
			r.add(path(p, "src"), RuleRequired, nil)
		} else if d.Src.Path != "" {
			r.add(path(p, "src"), RuleConflict, "path on a volume-backed disk")
		}
	default:
		r.add(path(p, "type"), RuleUnknownVariant, d.Type)
	}

	if d.Target == nil {
		r.add(path(p, "target"), RuleRequired, nil)
	} else {
		d.Target.validate(r, path(p, "target"))
	}

	checkPositive(r, path(p, "boot"), d.Boot)
	checkEnum(r, path(p, "device"), d.Device, "disk", "floppy", "cdrom", "lun")
	checkEnum(r, path(p, "snapshot"), d.Snapshot, "internal", "external", "manual", "no")
	checkEnum(r, path(p, "startup"), d.Startup, "mandatory", "requisite", "optional")
}

// FilesystemDriver describes the <driver> element of a filesystem device.
type FilesystemDriver struct {
	Type     string `yaml:"type"`
	Format   string `yaml:"format,omitempty"`
	Queues   string `yaml:"queues,omitempty"`
	WrPolicy string `yaml:"wrpolicy,omitempty"`
}

// Filesystem describes a shared filesystem device.
type Filesystem struct {
	Type       string            `yaml:"type"`
	Source     string            `yaml:"source"`
	Target     string            `yaml:"target"`
	AccessMode string            `yaml:"accessmode,omitempty"`
	DMode      string            `yaml:"dmode,omitempty"`
	FMode      string            `yaml:"fmode,omitempty"`
	Multidev   string            `yaml:"multidev,omitempty"`
	ReadOnly   bool              `yaml:"readonly,omitempty"`
	SrcType    string            `yaml:"src_type,omitempty"`
	Driver     *FilesystemDriver `yaml:"driver,omitempty"`
}

// normalize fills in the source attribute name for types with fixed
// source semantics.
func (f *Filesystem) normalize() {
	if f.SrcType != "" {
		return
	}
	switch f.Type {
	case "ram":
		f.SrcType = "usage"
	case "template":
		f.SrcType = "name"
	case "file":
		f.SrcType = "file"
	}
}

func (f *Filesystem) validate(r *Report, p string) {
	checkString(r, path(p, "type"), required, f.Type)
	checkString(r, path(p, "source"), required, f.Source)
	checkString(r, path(p, "target"), required, f.Target)

	if f.Driver != nil {
		checkString(r, path(p, "driver", "type"), required, f.Driver.Type)
	}
}

// InterfaceVPort describes virtualport parameters for an interface.
type InterfaceVPort struct {
	InstanceID    string `yaml:"instanceid,omitempty"`
	InterfaceID   string `yaml:"interfaceid,omitempty"`
	ManagerID     string `yaml:"managerid,omitempty"`
	ProfileID     string `yaml:"profileid,omitempty"`
	TypeID        string `yaml:"typeid,omitempty"`
	TypeIDVersion string `yaml:"typeidversion,omitempty"`
}

// InterfaceIP describes guest-side IP configuration for a user interface.
type InterfaceIP struct {
	Address string `yaml:"address"`
	Prefix  int    `yaml:"prefix"`
}

var (
	ipv4Pattern = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)
	ipv6Pattern = regexp.MustCompile(`^([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}$`)
)

func isIPv4(s string) bool {
	m := ipv4Pattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for _, part := range m[1:] {
		n := 0
		for _, c := range part {
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

func (ip *InterfaceIP) validate(r *Report, p string) {
	switch {
	case isIPv4(ip.Address):
		if ip.Prefix < 1 || ip.Prefix > 31 {
			r.add(path(p, "prefix"), RuleFormat, ip.Prefix)
		}
	case ipv6Pattern.MatchString(ip.Address):
		if ip.Prefix < 1 || ip.Prefix > 127 {
			r.add(path(p, "prefix"), RuleFormat, ip.Prefix)
		}
	default:
		r.add(path(p, "address"), RuleFormat, ip.Address)
	}
}

// Interface describes a network interface. Type selects the source shape:
// bridge and network interfaces name their source, direct interfaces add a
// mode, user interfaces carry only guest-side IP configuration.
type Interface struct {
	Type        string          `yaml:"type"`
	Src         string          `yaml:"src,omitempty"`
	Mode        string          `yaml:"mode,omitempty"`
	Target      string          `yaml:"target,omitempty"`
	MAC         string          `yaml:"mac,omitempty"`
	Boot        *int            `yaml:"boot,omitempty"`
	VirtualPort *InterfaceVPort `yaml:"virtualport,omitempty"`
	IPv4        *InterfaceIP    `yaml:"ipv4,omitempty"`
	IPv6        *InterfaceIP    `yaml:"ipv6,omitempty"`
}

func (n *Interface) validate(r *Report, p string) {
	switch n.Type {
	case "bridge", "network":
		checkString(r, path(p, "src"), required, n.Src)
		checkString(r, path(p, "mode"), forbidden, n.Mode)
	case "direct":
		checkString(r, path(p, "src"), required, n.Src)
		checkEnum(r, path(p, "mode"), n.Mode, "vepa", "bridge", "private", "passthrough")
	case "user":
		checkString(r, path(p, "src"), forbidden, n.Src)
		checkString(r, path(p, "mode"), forbidden, n.Mode)
	default:
		r.add(path(p, "type"), RuleUnknownVariant, n.Type)
	}

	if n.MAC != "" && !macPattern.MatchString(n.MAC) {
		r.add(path(p, "mac"), RuleFormat, n.MAC)
	}
	checkPositive(r, path(p, "boot"), n.Boot)

	if n.IPv4 != nil {
		n.IPv4.validate(r, path(p, "ipv4"))
		if !isIPv4(n.IPv4.Address) && ipv6Pattern.MatchString(n.IPv4.Address) {
			r.add(path(p, "ipv4", "address"), RuleFormat, n.IPv4.Address)
		}
	}
	if n.IPv6 != nil {
		n.IPv6.validate(r, path(p, "ipv6"))
	}
}

// InputSource describes the host side of a passthrough or evdev input
// device.
type InputSource struct {
	Dev        string `yaml:"dev"`
	Grab       string `yaml:"grab,omitempty"`
	Repeat     string `yaml:"repeat,omitempty"`
	GrabToggle string `yaml:"grab_toggle,omitempty"`
}

// Input describes an input device.
type Input struct {
	Type  string       `yaml:"type"`
	Bus   string       `yaml:"bus,omitempty"`
	Model string       `yaml:"model,omitempty"`
	Src   *InputSource `yaml:"src,omitempty"`
}

func (d *Input) validate(r *Report, p string) {
	checkEnum(r, path(p, "type"), d.Type, "mouse", "keyboard", "tablet", "passthrough", "evdev")
	checkString(r, path(p, "type"), required, d.Type)

	if d.Type == "passthrough" || d.Type == "evdev" {
		if d.Src == nil {
			r.add(path(p, "src"), RuleRequired, nil)
		}
	}
	if d.Src != nil {
		checkString(r, path(p, "src", "dev"), required, d.Src.Dev)
		checkEnum(r, path(p, "src", "grab"), d.Src.Grab, "all")
		checkOnOff(r, path(p, "src", "repeat"), d.Src.Repeat)
	}
}

// GraphicsListener describes one listener for a graphics device; Type
// selects which of the remaining fields must be set.
type GraphicsListener struct {
	Type    string `yaml:"type"`
	Address string `yaml:"address,omitempty"`
	Network string `yaml:"network,omitempty"`
	Socket  string `yaml:"socket,omitempty"`
}

func (l *GraphicsListener) validate(r *Report, p string) {
	var want, drop []string

	switch l.Type {
	case "address":
		want = []string{"address"}
		drop = []string{"network", "socket"}
	case "network":
		want = []string{"network"}
		drop = []string{"address", "socket"}
	case "socket":
		want = []string{"socket"}
		drop = []string{"address", "network"}
	case "none":
		drop = []string{"address", "network", "socket"}
	default:
		r.add(path(p, "type"), RuleUnknownVariant, l.Type)
		return
	}

	fields := map[string]string{"address": l.Address, "network": l.Network, "socket": l.Socket}
	for _, f := range want {
		if fields[f] == "" {
			r.add(path(p, f), RuleRequired, nil)
		}
	}
	for _, f := range drop {
		if fields[f] != "" {
			r.add(path(p, f), RuleForbidden, fields[f])
		}
	}
}

// Graphics describes a graphics output device.
type Graphics struct {
	Type          string             `yaml:"type"`
	Listeners     []GraphicsListener `yaml:"listeners,omitempty"`
	Port          *int               `yaml:"port,omitempty"`
	TLSPort       *int               `yaml:"tls_port,omitempty"`
	AutoPort      string             `yaml:"autoport,omitempty"`
	Socket        string             `yaml:"socket,omitempty"`
	Passwd        string             `yaml:"passwd,omitempty"`
	PasswdValidTo string             `yaml:"passwd_valid_to,omitempty"`
	Keymap        string             `yaml:"keymap,omitempty"`
	Connected     string             `yaml:"connected,omitempty"`
	SharePolicy   string             `yaml:"share_policy,omitempty"`
	PowerControl  string             `yaml:"power_control,omitempty"`
	WebSocket     *int               `yaml:"websocket,omitempty"`
	Audio         string             `yaml:"audio,omitempty"`
	DefaultMode   string             `yaml:"default_mode,omitempty"`
	Channels      map[string]string  `yaml:"channels,omitempty"`
	MultiUser     string             `yaml:"multi_user,omitempty"`
	ReplaceUser   string             `yaml:"replace_user,omitempty"`
}

func (g *Graphics) validate(r *Report, p string) {
	switch g.Type {
	case "vnc":
		if g.TLSPort != nil {
			r.add(path(p, "tls_port"), RuleForbidden, *g.TLSPort)
		}
		checkString(r, path(p, "default_mode"), forbidden, g.DefaultMode)
		checkString(r, path(p, "multi_user"), forbidden, g.MultiUser)
		checkString(r, path(p, "replace_user"), forbidden, g.ReplaceUser)
		if len(g.Channels) > 0 {
			r.add(path(p, "channels"), RuleForbidden, nil)
		}
	case "spice":
		if g.WebSocket != nil {
			r.add(path(p, "websocket"), RuleForbidden, *g.WebSocket)
		}
		checkString(r, path(p, "share_policy"), forbidden, g.SharePolicy)
		checkString(r, path(p, "power_control"), forbidden, g.PowerControl)
		checkString(r, path(p, "multi_user"), forbidden, g.MultiUser)
		checkString(r, path(p, "replace_user"), forbidden, g.ReplaceUser)
	case "rdp":
		if g.TLSPort != nil {
			r.add(path(p, "tls_port"), RuleForbidden, *g.TLSPort)
		}
		if g.WebSocket != nil {
			r.add(path(p, "websocket"), RuleForbidden, *g.WebSocket)
		}
		checkString(r, path(p, "share_policy"), forbidden, g.SharePolicy)
		checkString(r, path(p, "power_control"), forbidden, g.PowerControl)
		checkString(r, path(p, "default_mode"), forbidden, g.DefaultMode)
		if len(g.Channels) > 0 {
			r.add(path(p, "channels"), RuleForbidden, nil)
		}
	default:
		r.add(path(p, "type"), RuleUnknownVariant, g.Type)
		return
	}

	checkRange(r, path(p, "port"), g.Port, 0, 65536)
	checkRange(r, path(p, "tls_port"), g.TLSPort, 0, 65536)
	checkRange(r, path(p, "websocket"), g.WebSocket, 0, 65536)
	checkYesNo(r, path(p, "autoport"), g.AutoPort)
	checkEnum(r, path(p, "connected"), g.Connected, "keep", "disconnect", "fail")
	checkEnum(r, path(p, "share_policy"), g.SharePolicy, "allow-exclusive", "force-shared", "ignore")
	checkEnum(r, path(p, "default_mode"), g.DefaultMode, "secure", "insecure", "any")
	checkYesNo(r, path(p, "multi_user"), g.MultiUser)
	checkYesNo(r, path(p, "replace_user"), g.ReplaceUser)

	for i := range g.Listeners {
		g.Listeners[i].validate(r, indexed(path(p, "listeners"), i))
	}

	for name, mode := range g.Channels {
		if mode != "secure" && mode != "insecure" && mode != "any" {
			r.add(path(p, "channels", name), RuleEnum, mode)
		}
	}
}

// Video describes a GPU device.
type Video struct {
	Type  string `yaml:"type"`
	VRam  *int   `yaml:"vram,omitempty"`
	Heads *int   `yaml:"heads,omitempty"`
	Blob  string `yaml:"blob,omitempty"`
}

func (v *Video) validate(r *Report, p string) {
	checkString(r, path(p, "type"), required, v.Type)
	if v.VRam != nil && *v.VRam <= 1024 {
		r.add(path(p, "vram"), RuleFormat, *v.VRam)
	}
	checkPositive(r, path(p, "heads"), v.Heads)
	checkOnOff(r, path(p, "blob"), v.Blob)
}

// CharDevSource describes the host side of a character device.
type CharDevSource struct {
	Path    string `yaml:"path,omitempty"`
	Channel string `yaml:"channel,omitempty"`
	Mode    string `yaml:"mode,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Service *int   `yaml:"service,omitempty"`
	TLS     string `yaml:"tls,omitempty"`
}

func (s *CharDevSource) validate(r *Report, p string) {
	checkRange(r, path(p, "service"), s.Service, 0, 65536)
	checkYesNo(r, path(p, "tls"), s.TLS)
}

// CharDevTarget describes the guest side of a character device.
type CharDevTarget struct {
	Type    string `yaml:"type,omitempty"`
	Port    *int   `yaml:"port,omitempty"`
	Address string `yaml:"address,omitempty"`
	Name    string `yaml:"name,omitempty"`
	State   string `yaml:"state,omitempty"`
}

// CharDevLog describes output logging for a character device.
type CharDevLog struct {
	File   string `yaml:"file"`
	Append string `yaml:"append,omitempty"`
}

var chardevTypes = []string{"stdio", "file", "vc", "null", "pty", "dev", "pipe", "tcp", "unix", "spiceport"}

// CharDev describes a character device. Category selects the element name
// (parallel, serial, console, channel); Type selects the backend shape.
type CharDev struct {
	Category string         `yaml:"category"`
	Type     string         `yaml:"type"`
	Target   *CharDevTarget `yaml:"target"`
	Src      *CharDevSource `yaml:"src,omitempty"`
	Log      *CharDevLog    `yaml:"log,omitempty"`
}

func (c *CharDev) validate(r *Report, p string) {
	checkEnum(r, path(p, "category"), c.Category, "parallel", "serial", "console", "channel")
	checkString(r, path(p, "category"), required, c.Category)
	checkEnum(r, path(p, "type"), c.Type, chardevTypes...)
	checkString(r, path(p, "type"), required, c.Type)

	if c.Target == nil {
		r.add(path(p, "target"), RuleRequired, nil)
	} else {
		checkString(r, path(p, "target", "type"), required, c.Target.Type)
		if c.Target.Port != nil && *c.Target.Port < 0 {
			r.add(path(p, "target", "port"), RuleFormat, *c.Target.Port)
		}
	}

	if c.Src != nil {
		c.Src.validate(r, path(p, "src"))
	}
	if c.Log != nil {
		checkString(r, path(p, "log", "file"), required, c.Log.File)
		checkOnOff(r, path(p, "log", "append"), c.Log.Append)
	}
}

// Watchdog describes a watchdog device.
type Watchdog struct {
	Model  string `yaml:"model"`
	Action string `yaml:"action,omitempty"`
}

func (w *Watchdog) validate(r *Report, p string) {
	checkString(r, path(p, "model"), required, w.Model)
	checkEnum(r, path(p, "action"), w.Action, "reset", "shutdown", "poweroff", "pause", "none", "dump", "inject-nmi")
}

// RNGBackend describes the entropy source for an RNG device.
type RNGBackend struct {
	Model string `yaml:"model,omitempty"`
	Type  string `yaml:"type,omitempty"`
	CharDevSource `yaml:",inline"`
}

// RNG describes an RNG device.
type RNG struct {
	Model   string      `yaml:"model"`
	Rate    *DataRate   `yaml:"rate,omitempty"`
	Backend *RNGBackend `yaml:"backend,omitempty"`
}

// normalize defaults the backend to the builtin entropy source.
func (d *RNG) normalize() {
	if d.Backend == nil {
		d.Backend = &RNGBackend{Model: "builtin"}
	} else if d.Backend.Model == "" {
		d.Backend.Model = "builtin"
	}
}

func (d *RNG) validate(r *Report, p string) {
	checkString(r, path(p, "model"), required, d.Model)

	if d.Rate != nil {
		if d.Rate.Bytes <= 0 {
			r.add(path(p, "rate", "bytes"), RuleFormat, d.Rate.Bytes)
		}
		checkPositive(r, path(p, "rate", "period"), d.Rate.Period)
	}

	if d.Backend != nil {
		checkEnum(r, path(p, "backend", "model"), d.Backend.Model, "random", "builtin", "egd")
		checkEnum(r, path(p, "backend", "type"), d.Backend.Type, chardevTypes...)
		d.Backend.CharDevSource.validate(r, path(p, "backend"))

		switch d.Backend.Model {
		case "random":
			checkString(r, path(p, "backend", "path"), required, d.Backend.Path)
		case "egd":
			checkString(r, path(p, "backend", "type"), required, d.Backend.Type)
		}
	}
}

// TPM describes a TPM device.
type TPM struct {
	Type            string   `yaml:"type"`
	Model           string   `yaml:"model,omitempty"`
	Dev             string   `yaml:"dev,omitempty"`
	Encryption      string   `yaml:"encryption,omitempty"`
	Version         string   `yaml:"version,omitempty"`
	PersistentState string   `yaml:"persistent_state,omitempty"`
	ActivePCRBanks  []string `yaml:"active_pcr_banks,omitempty"`
}

func (t *TPM) validate(r *Report, p string) {
	switch t.Type {
	case "passthrough":
		checkString(r, path(p, "dev"), required, t.Dev)
		checkString(r, path(p, "encryption"), forbidden, t.Encryption)
		checkString(r, path(p, "persistent_state"), forbidden, t.PersistentState)
		checkList(r, path(p, "active_pcr_banks"), forbidden, t.ActivePCRBanks, 0)
	case "emulator":
		checkString(r, path(p, "dev"), forbidden, t.Dev)
		checkYesNo(r, path(p, "persistent_state"), t.PersistentState)
		checkList(r, path(p, "active_pcr_banks"), optional, t.ActivePCRBanks, 0)
	default:
		r.add(path(p, "type"), RuleUnknownVariant, t.Type)
	}
}

// SimpleDevice covers devices that only carry a model attribute, such as
// memory balloons and panic notifiers.
type SimpleDevice struct {
	Model string `yaml:"model"`
}

func (s *SimpleDevice) validate(r *Report, p string) {
	checkString(r, path(p, "model"), required, s.Model)
}

// Devices holds the device collection for a domain.
type Devices struct {
	Controllers []Controller   `yaml:"controllers,omitempty"`
	Disks       []Disk         `yaml:"disks,omitempty"`
	Filesystems []Filesystem   `yaml:"fs,omitempty"`
	Interfaces  []Interface    `yaml:"net,omitempty"`
	Inputs      []Input        `yaml:"input,omitempty"`
	Graphics    []Graphics     `yaml:"graphics,omitempty"`
	Videos      []Video        `yaml:"video,omitempty"`
	CharDevs    []CharDev      `yaml:"chardev,omitempty"`
	Watchdogs   []Watchdog     `yaml:"watchdog,omitempty"`
	RNGs        []RNG          `yaml:"rng,omitempty"`
	TPMs        []TPM          `yaml:"tpm,omitempty"`
	MemBalloons []SimpleDevice `yaml:"memballoon,omitempty"`
	Panics      []SimpleDevice `yaml:"panic,omitempty"`
}

// normalize applies per-device defaulting.
func (d *Devices) normalize() {
	for i := range d.Filesystems {
		d.Filesystems[i].normalize()
	}
	for i := range d.RNGs {
		d.RNGs[i].normalize()
	}
}

func (d *Devices) validate(r *Report, p string) {
	seen := make(map[int]bool)
	for i := range d.Controllers {
		c := &d.Controllers[i]
		c.validate(r, indexed(path(p, "controllers"), i))
		if c.Index != nil {
			if seen[*c.Index] {
				r.add(indexed(path(p, "controllers"), i)+".index", RuleConflict, *c.Index)
			}
			seen[*c.Index] = true
		}
	}

	for i := range d.Disks {
		d.Disks[i].validate(r, indexed(path(p, "disks"), i))
	}
	for i := range d.Filesystems {
		d.Filesystems[i].validate(r, indexed(path(p, "fs"), i))
	}
	for i := range d.Interfaces {
		d.Interfaces[i].validate(r, indexed(path(p, "net"), i))
	}
	for i := range d.Inputs {
		d.Inputs[i].validate(r, indexed(path(p, "input"), i))
	}
	for i := range d.Graphics {
		d.Graphics[i].validate(r, indexed(path(p, "graphics"), i))
	}
	for i := range d.Videos {
		d.Videos[i].validate(r, indexed(path(p, "video"), i))
	}
	for i := range d.CharDevs {
		d.CharDevs[i].validate(r, indexed(path(p, "chardev"), i))
	}
	for i := range d.Watchdogs {
		d.Watchdogs[i].validate(r, indexed(path(p, "watchdog"), i))
	}
	for i := range d.RNGs {
		d.RNGs[i].validate(r, indexed(path(p, "rng"), i))
	}
	for i := range d.TPMs {
		d.TPMs[i].validate(r, indexed(path(p, "tpm"), i))
	}
	for i := range d.MemBalloons {
		d.MemBalloons[i].validate(r, indexed(path(p, "memballoon"), i))
	}
	for i := range d.Panics {
		d.Panics[i].validate(r, indexed(path(p, "panic"), i))
	}
}
