package i18n

import "fmt"

// Role says how a translated value is applied to an element.
type Role int

const (
	RoleText Role = iota
	// RoleHTML values are markdown and go through the Renderer.
	RoleHTML
	// RoleInput values become an input's placeholder.
	RoleInput
	// RoleHeading values are split into breathing characters.
	RoleHeading
)

func (r Role) String() string {
	switch r {
	case RoleHTML:
		return "html"
	case RoleInput:
		return "input"
	case RoleHeading:
		return "heading"
	default:
		return "text"
	}
}

// Element binds a TUI element to a translation key.
type Element struct {
	ID   string
	Role Role
	Key  string
}

// Registry is the fixed set of translatable elements, in registration order.
type Registry struct {
	elements []Element
	byID     map[string]int
}

func NewRegistry(elements ...Element) (*Registry, error) {
	r := &Registry{byID: make(map[string]int, len(elements))}
	for _, e := range elements {
		if e.ID == "" || e.Key == "" {
			return nil, fmt.Errorf("register element %+v: id and key required", e)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("register element %q: duplicate id", e.ID)
		}
		r.byID[e.ID] = len(r.elements)
		r.elements = append(r.elements, e)
	}
	return r, nil
}

func (r *Registry) Elements() []Element { return r.elements }

func (r *Registry) Element(id string) (Element, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Element{}, false
	}
	return r.elements[i], true
}

// DefaultElements lists every translatable element the TUI renders. Element
// IDs match their keys.
func DefaultElements() []Element {
	var out []Element
	add := func(role Role, keys ...string) {
		for _, k := range keys {
			out = append(out, Element{ID: k, Role: role, Key: k})
		}
	}

	add(RoleText, "nav.about", "nav.contact", "nav.work", "nav.news", "ui.close", "ui.open", "ui.select", "ui.language")

	add(RoleHeading, "about.heading")
	add(RoleText, "about.subheading", "about.para1", "about.para2")
	add(RoleHTML, "about.para3")
	add(RoleText, "about.para4", "about.para5", "about.para6",
		"about.hobby1", "about.hobby2", "about.hobby3", "about.hobby4", "about.hobby5")

	add(RoleHeading, "news.heading")
	add(RoleText, "news.subheading", "news.description")

	add(RoleHeading, "work.heading")
	add(RoleText, "work.projects", "work.models",
		"repos.loading", "repos.no_description", "repos.code", "repos.retry", "repos.copied", "repos.copy", "repos.empty")
	add(RoleInput, "repos.filter")

	add(RoleHeading, "contact.heading")
	add(RoleText, "contact.email", "contact.social", "contact.location",
		"contact.academic", "contact.personal", "contact.city", "contact.suburb")
	return out
}
