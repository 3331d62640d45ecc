package render

import (
	"fmt"
	"strings"

	"github.com/Ferroin/fvirt/models"
	"github.com/Ferroin/fvirt/template"
)

const (
	qemuNS = "http://libvirt.org/schemas/domain/qemu/1.0"
	xenNS  = "http://libvirt.org/schemas/domain/xen/1.0"
)

func domainBlock(fn func(*models.Domain) string) template.BlockFunc[*models.Domain] {
	return func(d *models.Domain, _ template.Next) (string, error) {
		return fn(d), nil
	}
}

func staticBlock(s string) template.BlockFunc[*models.Domain] {
	return domainBlock(func(*models.Domain) string { return s })
}

// extendBlock renders the parent's version of the block first and appends
// the flavor-specific fragments after it.
func extendBlock(fn func(*models.Domain) []string) template.BlockFunc[*models.Domain] {
	return func(d *models.Domain, next template.Next) (string, error) {
		base, err := next()
		if err != nil {
			return "", err
		}
		return joinLines(append([]string{base}, fn(d)...)...), nil
	}
}

// machineBody is the document skeleton shared by every domain flavor.
// The type and os blocks have no default; each flavor must fill them.
func machineBody(d *models.Domain, b template.Renderer) (string, error) {
	typ, err := b.Block("type")
	if err != nil {
		return "", err
	}
	xmlns, err := b.Block("xmlns")
	if err != nil {
		return "", err
	}

	var sections []string
	for _, name := range []string{"identity", "resources", "os", "cpu", "clock"} {
		out, err := b.Block(name)
		if err != nil {
			return "", err
		}
		if out != "" {
			sections = append(sections, out)
		}
	}

	features, err := b.Block("features")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(features) != "" {
		sections = append(sections, elem("features", "", "\n"+indent(features, 1)+"\n"))
	}

	for _, name := range []string{"lifecycle", "devices", "extra"} {
		out, err := b.Block(name)
		if err != nil {
			return "", err
		}
		if out != "" {
			sections = append(sections, out)
		}
	}

	return fmt.Sprintf("<domain%s%s>\n%s\n</domain>\n",
		attrs(a("type", typ)), xmlns, indent(joinLines(sections...), 1)), nil
}

func kvmFeatureExtras(d *models.Domain) []string {
	if d.Features == nil {
		return nil
	}
	return []string{
		hypervXML(d.Features.HyperV),
		kvmFeaturesXML(d.Features.KVM),
	}
}

func xenFeatureExtras(d *models.Domain) []string {
	if d.Features == nil {
		return nil
	}
	return []string{xenFeaturesXML(d.Features.Xen)}
}

// qemuMachineTemplate covers the kvm and qemu flavors, which differ only
// in the domain type attribute.
func qemuMachineTemplate(name string) *template.Template[*models.Domain] {
	return &template.Template[*models.Domain]{
		Name:   name,
		Parent: "vm",
		Blocks: map[string]template.BlockFunc[*models.Domain]{
			"type":     staticBlock(name),
			"features": extendBlock(kvmFeatureExtras),
			"xmlns": domainBlock(func(d *models.Domain) string {
				if len(d.QEMUCommandline) == 0 {
					return ""
				}
				return attrs(a("xmlns:qemu", qemuNS))
			}),
			"extra": domainBlock(func(d *models.Domain) string {
				return commandlineXML("qemu", d.QEMUCommandline)
			}),
		},
	}
}

var domainSet = template.MustNewSet(
	&template.Template[*models.Domain]{
		Name:     "machine",
		Required: []string{"type", "os"},
		Body:     machineBody,
		Blocks: map[string]template.BlockFunc[*models.Domain]{
			"identity":  domainBlock(identityXML),
			"resources": domainBlock(resourcesXML),
			"clock":     domainBlock(func(d *models.Domain) string { return clockXML(d.Clock) }),
			"lifecycle": domainBlock(lifecycleXML),
		},
	},
	&template.Template[*models.Domain]{
		Name:   "vm",
		Parent: "machine",
		Blocks: map[string]template.BlockFunc[*models.Domain]{
			"os":       domainBlock(func(d *models.Domain) string { return osXML(d.OS, "hvm") }),
			"cpu":      domainBlock(func(d *models.Domain) string { return cpuXML(d.CPU) }),
			"features": domainBlock(func(d *models.Domain) string { return joinLines(featuresCommonXML(d.Features)...) }),
			"devices":  domainBlock(func(d *models.Domain) string { return wrapDevices(deviceListXML(d.Devices)) }),
		},
	},
	qemuMachineTemplate(models.DomainKVM),
	qemuMachineTemplate(models.DomainQEMU),
	&template.Template[*models.Domain]{
		Name:   models.DomainXen,
		Parent: "vm",
		Blocks: map[string]template.BlockFunc[*models.Domain]{
			"type":     staticBlock("xen"),
			"features": extendBlock(xenFeatureExtras),
			"xmlns": domainBlock(func(d *models.Domain) string {
				if len(d.XenCommandline) == 0 {
					return ""
				}
				return attrs(a("xmlns:xen", xenNS))
			}),
			"extra": domainBlock(func(d *models.Domain) string {
				return commandlineXML("xen", d.XenCommandline)
			}),
		},
	},
	&template.Template[*models.Domain]{
		Name:   models.DomainTest,
		Parent: "vm",
		Blocks: map[string]template.BlockFunc[*models.Domain]{
			"type": staticBlock("test"),
		},
	},
	&template.Template[*models.Domain]{
		Name:   models.DomainLXC,
		Parent: "machine",
		Blocks: map[string]template.BlockFunc[*models.Domain]{
			"type":    staticBlock("lxc"),
			"os":      domainBlock(func(d *models.Domain) string { return osXML(d.OS, "exe") }),
			"devices": domainBlock(func(d *models.Domain) string { return wrapDevices(containerDeviceListXML(d.Devices)) }),
		},
	},
)
