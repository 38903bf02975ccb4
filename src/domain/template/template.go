package template

// Template is a reusable message body. Templates are immutable after creation;
// the creator can always read them, everyone else only when Public is set.
type Template struct {
	ID        uint64
	Name      string
	Content   string
	Creator   string
	CreatedAt uint64
	Public    bool
}

// ITemplateService defines the template registry operations.
type ITemplateService interface {
	CreateTemplate(creator, name, content string, public bool) (*Template, error)
}

// ReadableBy reports whether the given identity may use the template body.
func (t *Template) ReadableBy(identity string) bool {
	return t.Public || t.Creator == identity
}
