package models

// Pool describes a storage pool configuration document.
//
// The set of legal source and target shapes is determined entirely by the
// pool type; poolRules holds one entry per backend.
type Pool struct {
	Type     string        `yaml:"type"`
	Name     string        `yaml:"name"`
	UUID     string        `yaml:"uuid,omitempty"`
	Features *PoolFeatures `yaml:"features,omitempty"`
	Source   *PoolSource   `yaml:"source,omitempty"`
	Target   *PoolTarget   `yaml:"target,omitempty"`
}

// PoolFeatures holds feature flags for a storage pool.
type PoolFeatures struct {
	Cow string `yaml:"cow,omitempty"`
}

// PoolSource describes where a storage pool gets its storage from.
type PoolSource struct {
	Format    string   `yaml:"format,omitempty"`
	Dir       string   `yaml:"dir,omitempty"`
	Devices   []string `yaml:"devices,omitempty"`
	Hosts     []string `yaml:"hosts,omitempty"`
	Initiator string   `yaml:"initiator,omitempty"`
	Adapter   string   `yaml:"adapter,omitempty"`
	Name      string   `yaml:"name,omitempty"`
}

// PoolTarget describes where a storage pool maps its storage to.
type PoolTarget struct {
	Path string `yaml:"path"`
}

// poolRule captures the per-backend requirements for pool sub-fields.
// Adding a new backend means adding one entry here, not new control flow.
type poolRule struct {
	source  presence
	target  presence
	cow     bool // features.cow allowed
	formats []string
	dir     presence
	devices presence
	oneDev  bool
	hosts   presence
	oneHost bool
	init    presence
	adapter presence
	name    presence
}

var poolRules = map[string]poolRule{
	"dir":       {source: forbidden, target: required, cow: true},
	"fs":        {source: required, target: required, cow: true, formats: fsFormats, devices: required, oneDev: true},
	"netfs":     {source: required, target: required, formats: netfsFormats, dir: required, hosts: required, oneHost: true},
	"logical":   {source: required, target: required, devices: required},
	"disk":      {source: required, target: required, formats: diskFormats, devices: required, oneDev: true},
	"iscsi":     {source: required, target: required, devices: required, oneDev: true, hosts: required, oneHost: true},
	"iscsi-direct": {
		source: required, target: forbidden,
		devices: required, oneDev: true,
		hosts: required, oneHost: true,
		init: required,
	},
	"scsi":      {source: required, target: required, adapter: required},
	"multipath": {source: forbidden, target: forbidden},
	"rbd":       {source: required, target: forbidden, hosts: required, name: required},
	"gluster":   {source: required, target: forbidden, dir: required, hosts: required, name: required},
	"zfs":       {source: required, target: forbidden, devices: optional, name: required},
	"vstorage":  {source: required, target: required, name: required},
}

var (
	fsFormats    = []string{"auto", "ext2", "ext3", "ext4", "ufs", "iso9660", "udf", "gfs", "gfs2", "vfat", "hfs+", "xfs", "ocfs2", "vmfs"}
	netfsFormats = []string{"auto", "nfs", "gluster", "cifs"}
	diskFormats  = []string{"dos", "gpt", "dvh", "mac", "bsd", "pc98", "sun"}
)

// Validate checks the pool configuration against the backend's rule table
// and returns a *Report with every violation found, or nil when valid.
func (p *Pool) Validate() error {
	r := &Report{}

	rule, ok := poolRules[p.Type]
	if !ok {
		r.add("type", RuleUnknownVariant, p.Type)
		return r
	}

	checkString(r, "name", required, p.Name)
	checkUUID(r, "uuid", p.UUID)

	p.validateFeatures(r, rule)
	p.validateSource(r, rule)
	p.validateTarget(r, rule)

	return r.errOrNil()
}

func (p *Pool) validateFeatures(r *Report, rule poolRule) {
	if p.Features == nil {
		return
	}

	if p.Features.Cow != "" && !rule.cow {
		r.add(path("features", "cow"), RuleForbidden, p.Features.Cow)
		return
	}

	checkYesNo(r, path("features", "cow"), p.Features.Cow)
}

func (p *Pool) validateSource(r *Report, rule poolRule) {
	if p.Source == nil {
		if rule.source == required {
			r.add("source", RuleRequired, nil)
		}
		return
	}
	if rule.source == forbidden {
		r.add("source", RuleForbidden, nil)
		return
	}

	s := p.Source

	fmtWant := forbidden
	if rule.formats != nil {
		fmtWant = required
	}
	checkString(r, path("source", "format"), fmtWant, s.Format)
	if s.Format != "" && rule.formats != nil {
		checkEnum(r, path("source", "format"), s.Format, rule.formats...)
	}

	checkString(r, path("source", "dir"), rule.dir, s.Dir)
	checkString(r, path("source", "initiator"), rule.init, s.Initiator)
	checkString(r, path("source", "adapter"), rule.adapter, s.Adapter)
	checkString(r, path("source", "name"), rule.name, s.Name)

	devCount := 0
	if rule.oneDev {
		devCount = 1
	}
	checkList(r, path("source", "devices"), rule.devices, s.Devices, devCount)

	hostCount := 0
	if rule.oneHost {
		hostCount = 1
	}
	checkList(r, path("source", "hosts"), rule.hosts, s.Hosts, hostCount)
}

func (p *Pool) validateTarget(r *Report, rule poolRule) {
	if p.Target == nil {
		if rule.target == required {
			r.add("target", RuleRequired, nil)
		}
		return
	}
	if rule.target == forbidden {
		r.add("target", RuleForbidden, nil)
		return
	}

	checkString(r, path("target", "path"), required, p.Target.Path)
}
