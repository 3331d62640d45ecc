package render

import (
	"fmt"

	"github.com/Ferroin/fvirt/models"
	"github.com/Ferroin/fvirt/template"
)

func poolIdentityXML(p *models.Pool) string {
	parts := []string{textElem("name", "", p.Name)}
	if p.UUID != "" {
		parts = append(parts, textElem("uuid", "", p.UUID))
	}
	return joinLines(parts...)
}

func poolFeaturesXML(f *models.PoolFeatures) string {
	if f == nil || f.Cow == "" {
		return ""
	}
	return elem("features", "", "\n"+indent(elem("cow", attrs(a("state", f.Cow)), ""), 1)+"\n")
}

func poolSourceXML(s *models.PoolSource) string {
	if s == nil {
		return ""
	}
	var parts []string
	for _, h := range s.Hosts {
		parts = append(parts, elem("host", attrs(a("name", h)), ""))
	}
	for _, d := range s.Devices {
		parts = append(parts, elem("device", attrs(a("path", d)), ""))
	}
	if s.Dir != "" {
		parts = append(parts, elem("dir", attrs(a("path", s.Dir)), ""))
	}
	if s.Adapter != "" {
		parts = append(parts, elem("adapter", attrs(a("name", s.Adapter)), ""))
	}
	if s.Name != "" {
		parts = append(parts, textElem("name", "", s.Name))
	}
	if s.Initiator != "" {
		parts = append(parts, elem("initiator", "", "\n"+indent(elem("iqn", attrs(a("name", s.Initiator)), ""), 1)+"\n"))
	}
	if s.Format != "" {
		parts = append(parts, elem("format", attrs(a("type", s.Format)), ""))
	}
	if len(parts) == 0 {
		return ""
	}
	return elem("source", "", "\n"+indent(joinLines(parts...), 1)+"\n")
}

func poolTargetXML(t *models.PoolTarget) string {
	if t == nil {
		return ""
	}
	return elem("target", "", "\n"+indent(textElem("path", "", t.Path), 1)+"\n")
}

func poolBody(p *models.Pool, b template.Renderer) (string, error) {
	var sections []string
	for _, name := range []string{"identity", "features", "source", "target"} {
		out, err := b.Block(name)
		if err != nil {
			return "", err
		}
		if out != "" {
			sections = append(sections, out)
		}
	}
	return fmt.Sprintf("<pool%s>\n%s\n</pool>\n",
		attrs(a("type", p.Type)), indent(joinLines(sections...), 1)), nil
}

func poolBlock(fn func(*models.Pool) string) template.BlockFunc[*models.Pool] {
	return func(p *models.Pool, _ template.Next) (string, error) {
		return fn(p), nil
	}
}

var poolSet = template.MustNewSet(
	&template.Template[*models.Pool]{
		Name:     "pool",
		Required: []string{"identity"},
		Body:     poolBody,
		Blocks: map[string]template.BlockFunc[*models.Pool]{
			"identity": poolBlock(poolIdentityXML),
			"features": poolBlock(func(p *models.Pool) string { return poolFeaturesXML(p.Features) }),
			"source":   poolBlock(func(p *models.Pool) string { return poolSourceXML(p.Source) }),
			"target":   poolBlock(func(p *models.Pool) string { return poolTargetXML(p.Target) }),
		},
	},
)
