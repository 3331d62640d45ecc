package template

import (
	"errors"
	"strings"
	"testing"
)

// doc is a trivial document type for engine tests.
type doc struct {
	title string
	notes []string
}

func static(s string) BlockFunc[*doc] {
	return func(_ *doc, _ Next) (string, error) { return s, nil }
}

// pageBody renders "header|content|footer" from the three blocks.
func pageBody(d *doc, b Renderer) (string, error) {
	var parts []string
	for _, name := range []string{"header", "content", "footer"} {
		out, err := b.Block(name)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, "|"), nil
}

func TestRender_SingleTemplate(t *testing.T) {
	set := MustNewSet(&Template[*doc]{
		Name: "page",
		Body: pageBody,
		Blocks: map[string]BlockFunc[*doc]{
			"header": func(d *doc, _ Next) (string, error) { return d.title, nil },
			"content": func(d *doc, _ Next) (string, error) {
				return strings.Join(d.notes, ","), nil
			},
		},
	})

	out, err := set.Render("page", &doc{title: "t", notes: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "t|a,b|" {
		t.Errorf("Render() = %q, want %q", out, "t|a,b|")
	}
}

func TestRender_OverrideReplacesParent(t *testing.T) {
	set := MustNewSet(
		&Template[*doc]{
			Name: "page",
			Body: pageBody,
			Blocks: map[string]BlockFunc[*doc]{
				"header": static("base"),
				"footer": static("base-footer"),
			},
		},
		&Template[*doc]{
			Name:   "child",
			Parent: "page",
			Blocks: map[string]BlockFunc[*doc]{
				"header": static("child"),
			},
		},
	)

	out, err := set.Render("child", &doc{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "child||base-footer" {
		t.Errorf("Render() = %q, want %q", out, "child||base-footer")
	}
}

func TestRender_NextExtendsParent(t *testing.T) {
	set := MustNewSet(
		&Template[*doc]{
			Name:   "page",
			Body:   pageBody,
			Blocks: map[string]BlockFunc[*doc]{"content": static("base")},
		},
		&Template[*doc]{
			Name:   "mid",
			Parent: "page",
			Blocks: map[string]BlockFunc[*doc]{
				"content": func(_ *doc, next Next) (string, error) {
					base, err := next()
					if err != nil {
						return "", err
					}
					return base + "+mid", nil
				},
			},
		},
		&Template[*doc]{
			Name:   "leaf",
			Parent: "mid",
			Blocks: map[string]BlockFunc[*doc]{
				"content": func(_ *doc, next Next) (string, error) {
					base, err := next()
					if err != nil {
						return "", err
					}
					return base + "+leaf", nil
				},
			},
		},
	)

	out, err := set.Render("leaf", &doc{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "|base+mid+leaf|" {
		t.Errorf("Render() = %q, want %q", out, "|base+mid+leaf|")
	}
}

func TestRender_NextAtRootIsEmpty(t *testing.T) {
	set := MustNewSet(&Template[*doc]{
		Name: "page",
		Body: pageBody,
		Blocks: map[string]BlockFunc[*doc]{
			"content": func(_ *doc, next Next) (string, error) {
				base, err := next()
				if err != nil {
					return "", err
				}
				return "[" + base + "]", nil
			},
		},
	})

	out, err := set.Render("page", &doc{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "|[]|" {
		t.Errorf("Render() = %q, want %q", out, "|[]|")
	}
}

func TestRender_RequiredBlockWithoutOverride(t *testing.T) {
	set := MustNewSet(
		&Template[*doc]{
			Name:     "page",
			Required: []string{"content"},
			Body:     pageBody,
		},
		&Template[*doc]{Name: "child", Parent: "page"},
	)

	_, err := set.Render("child", &doc{})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Render() error = %v, want *ResolutionError", err)
	}
	if resErr.Block != "content" || resErr.Reason != "has no override" {
		t.Errorf("error = %+v, want missing override for content", resErr)
	}
}

func TestRender_RequiredBlockWhitespaceOutput(t *testing.T) {
	set := MustNewSet(
		&Template[*doc]{
			Name:     "page",
			Required: []string{"content"},
			Body:     pageBody,
		},
		&Template[*doc]{
			Name:   "child",
			Parent: "page",
			Blocks: map[string]BlockFunc[*doc]{"content": static("  \n")},
		},
	)

	_, err := set.Render("child", &doc{})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Render() error = %v, want *ResolutionError", err)
	}
	if resErr.Block != "content" || resErr.Reason != "produced no output" {
		t.Errorf("error = %+v, want empty output for content", resErr)
	}
}

func TestRender_RequirementBindsDescendants(t *testing.T) {
	// The requirement is declared in the middle of the chain; the leaf
	// must still satisfy it.
	set := MustNewSet(
		&Template[*doc]{Name: "page", Body: pageBody},
		&Template[*doc]{Name: "mid", Parent: "page", Required: []string{"header"}},
		&Template[*doc]{Name: "leaf", Parent: "mid"},
	)

	if _, err := set.Render("leaf", &doc{}); err == nil {
		t.Error("Render() = nil error, want required-block failure")
	}

	filled := MustNewSet(
		&Template[*doc]{Name: "page", Body: pageBody},
		&Template[*doc]{Name: "mid", Parent: "page", Required: []string{"header"}},
		&Template[*doc]{
			Name:   "leaf",
			Parent: "mid",
			Blocks: map[string]BlockFunc[*doc]{"header": static("h")},
		},
	)
	if _, err := filled.Render("leaf", &doc{}); err != nil {
		t.Errorf("Render() error = %v, want nil", err)
	}
}

func TestRender_RootWithoutBody(t *testing.T) {
	set := MustNewSet(&Template[*doc]{Name: "page"})

	_, err := set.Render("page", &doc{})
	if err == nil || !strings.Contains(err.Error(), "no body") {
		t.Errorf("Render() error = %v, want missing-body failure", err)
	}
}

func TestNewSet_Errors(t *testing.T) {
	if _, err := NewSet(&Template[*doc]{Name: "a", Parent: "missing"}); err == nil {
		t.Error("NewSet() with unknown parent: want error")
	}

	if _, err := NewSet(
		&Template[*doc]{Name: "a", Parent: "b"},
		&Template[*doc]{Name: "b", Parent: "a"},
	); err == nil {
		t.Error("NewSet() with a parent loop: want error")
	}

	if _, err := NewSet(
		&Template[*doc]{Name: "a"},
		&Template[*doc]{Name: "a"},
	); err == nil {
		t.Error("NewSet() with duplicate names: want error")
	}
}

func TestRender_BlockErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	set := MustNewSet(&Template[*doc]{
		Name: "page",
		Body: pageBody,
		Blocks: map[string]BlockFunc[*doc]{
			"content": func(_ *doc, _ Next) (string, error) { return "", boom },
		},
	})

	_, err := set.Render("page", &doc{})
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want %v", err, boom)
	}
}
