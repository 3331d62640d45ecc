package models

// OSLoader describes the <loader> element for firmware boot. For direct
// kernel boot only the bare path is meaningful.
type OSLoader struct {
	Path      string `yaml:"path,omitempty"`
	ReadOnly  string `yaml:"readonly,omitempty"`
	Secure    string `yaml:"secure,omitempty"`
	Stateless string `yaml:"stateless,omitempty"`
	Type      string `yaml:"type,omitempty"`
}

// OSNVRAM describes templated NVRAM file generation for firmware boot.
type OSNVRAM struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// IDMapEntry is one uid or gid mapping for a container domain.
type IDMapEntry struct {
	Target int `yaml:"target"`
	Count  int `yaml:"count"`
}

// IDMap describes container ID mapping behavior.
type IDMap struct {
	UID *IDMapEntry `yaml:"uid"`
	GID *IDMapEntry `yaml:"gid"`
}

// OS describes the boot configuration for a domain. Variant selects which
// of the remaining fields are legal:
//
//   - "firmware": conventional firmware boot; Loader and NVRAM only.
//   - "host": a host-side bootloader such as pygrub; Bootloader required.
//   - "direct": direct kernel boot; Kernel required, Initrd/Cmdline/DTB
//     optional, Loader may carry only a path.
//   - "container": container init; Init and friends.
//   - "test": minimal setup for the test driver; Arch required.
type OS struct {
	Variant  string `yaml:"variant"`
	Firmware string `yaml:"firmware,omitempty"`
	Arch     string `yaml:"arch,omitempty"`
	Machine  string `yaml:"machine,omitempty"`
	Type     string `yaml:"type,omitempty"`

	Loader *OSLoader `yaml:"loader,omitempty"`
	NVRAM  *OSNVRAM  `yaml:"nvram,omitempty"`

	Bootloader     string `yaml:"bootloader,omitempty"`
	BootloaderArgs string `yaml:"bootloader_args,omitempty"`

	Kernel  string `yaml:"kernel,omitempty"`
	Initrd  string `yaml:"initrd,omitempty"`
	Cmdline string `yaml:"cmdline,omitempty"`
	DTB     string `yaml:"dtb,omitempty"`

	Init      string            `yaml:"init,omitempty"`
	InitArgs  []string          `yaml:"initargs,omitempty"`
	InitEnv   map[string]string `yaml:"initenv,omitempty"`
	InitDir   string            `yaml:"initdir,omitempty"`
	InitUser  string            `yaml:"inituser,omitempty"`
	InitGroup string            `yaml:"initgroup,omitempty"`
	IDMap     *IDMap            `yaml:"idmap,omitempty"`
}

// osVariantForbidden maps each variant to the fields it rejects. The
// checks below consult this table instead of branching per variant.
var osVariantForbidden = map[string][]string{
	"firmware":  {"bootloader", "bootloader_args", "kernel", "initrd", "cmdline", "dtb", "init", "initargs", "initenv", "initdir", "inituser", "initgroup", "idmap"},
	"host":      {"loader", "nvram", "kernel", "initrd", "cmdline", "dtb", "init", "initargs", "initenv", "initdir", "inituser", "initgroup", "idmap"},
	"direct":    {"nvram", "bootloader", "bootloader_args", "init", "initargs", "initenv", "initdir", "inituser", "initgroup", "idmap"},
	"container": {"loader", "nvram", "bootloader", "bootloader_args", "kernel", "initrd", "cmdline", "dtb"},
	"test":      {"loader", "nvram", "bootloader", "bootloader_args", "kernel", "initrd", "cmdline", "dtb", "init", "initargs", "initenv", "initdir", "inituser", "initgroup", "idmap"},
}

// fieldSet reports which OS fields are present, keyed by yaml name.
func (o *OS) fieldSet() map[string]bool {
	return map[string]bool{
		"loader":          o.Loader != nil,
		"nvram":           o.NVRAM != nil,
		"bootloader":      o.Bootloader != "",
		"bootloader_args": o.BootloaderArgs != "",
		"kernel":          o.Kernel != "",
		"initrd":          o.Initrd != "",
		"cmdline":         o.Cmdline != "",
		"dtb":             o.DTB != "",
		"init":            o.Init != "",
		"initargs":        len(o.InitArgs) > 0,
		"initenv":         len(o.InitEnv) > 0,
		"initdir":         o.InitDir != "",
		"inituser":        o.InitUser != "",
		"initgroup":       o.InitGroup != "",
		"idmap":           o.IDMap != nil,
	}
}

func (o *OS) validate(r *Report, p string) {
	fields, ok := osVariantForbidden[o.Variant]
	if !ok {
		r.add(path(p, "variant"), RuleUnknownVariant, o.Variant)
		return
	}

	present := o.fieldSet()
	for _, f := range fields {
		if present[f] {
			r.add(path(p, f), RuleForbidden, nil)
		}
	}

	switch o.Variant {
	case "firmware":
		if o.NVRAM != nil && o.Loader == nil {
			r.add(path(p, "nvram"), RuleConflict, nil)
		}
		if o.Loader != nil {
			checkYesNo(r, path(p, "loader", "readonly"), o.Loader.ReadOnly)
			checkYesNo(r, path(p, "loader", "secure"), o.Loader.Secure)
			checkYesNo(r, path(p, "loader", "stateless"), o.Loader.Stateless)
		}
		if o.NVRAM != nil {
			checkString(r, path(p, "nvram", "path"), required, o.NVRAM.Path)
			checkString(r, path(p, "nvram", "template"), required, o.NVRAM.Template)
		}
	case "host":
		checkString(r, path(p, "bootloader"), required, o.Bootloader)
	case "direct":
		checkString(r, path(p, "kernel"), required, o.Kernel)
		if o.Loader != nil {
			// Only a bare loader path is supported for direct kernel boot.
			if o.Loader.Path == "" {
				r.add(path(p, "loader", "path"), RuleRequired, nil)
			}
			if o.Loader.ReadOnly != "" || o.Loader.Secure != "" || o.Loader.Stateless != "" || o.Loader.Type != "" {
				r.add(path(p, "loader"), RuleConflict, nil)
			}
		}
	case "container":
		if o.IDMap != nil {
			o.IDMap.validate(r, path(p, "idmap"))
		}
		for k, v := range o.InitEnv {
			if k == "" || v == "" {
				r.add(path(p, "initenv"), RuleEmpty, k)
			}
		}
	case "test":
		checkString(r, path(p, "arch"), required, o.Arch)
	}
}

func (m *IDMap) validate(r *Report, p string) {
	m.UID.validateEntry(r, path(p, "uid"))
	m.GID.validateEntry(r, path(p, "gid"))
}

func (e *IDMapEntry) validateEntry(r *Report, p string) {
	if e == nil {
		r.add(p, RuleRequired, nil)
		return
	}
	if e.Target < 0 {
		r.add(path(p, "target"), RuleFormat, e.Target)
	}
	if e.Count <= 0 {
		r.add(path(p, "count"), RuleFormat, e.Count)
	}
}
