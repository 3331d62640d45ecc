// Package render turns validated configuration models into libvirt XML
// documents. Each domain flavor is a template extending a shared machine
// skeleton; rendering normalizes and validates the model first and never
// returns partial output.
package render

import (
	"fmt"

	"libvirt.org/go/libvirtxml"

	"github.com/Ferroin/fvirt/models"
)

// Domain renders d as a libvirt domain document. The model is normalized
// in place and validated before any output is produced; the returned
// document has been re-parsed as a sanity check.
func Domain(d *models.Domain) (string, error) {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return "", err
	}

	doc, err := domainSet.Render(d.Type, d)
	if err != nil {
		return "", err
	}

	var chk libvirtxml.Domain
	if err := chk.Unmarshal(doc); err != nil {
		return "", fmt.Errorf("rendered domain %q is not valid XML: %w", d.Name, err)
	}
	return doc, nil
}

// Pool renders p as a libvirt storage pool document.
func Pool(p *models.Pool) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	doc, err := poolSet.Render("pool", p)
	if err != nil {
		return "", err
	}

	var chk libvirtxml.StoragePool
	if err := chk.Unmarshal(doc); err != nil {
		return "", fmt.Errorf("rendered pool %q is not valid XML: %w", p.Name, err)
	}
	return doc, nil
}
