package plugin

import (
	"context"

	"github.com/rotisserie/eris"
)

var (
	// ErrUnknownPlugin indicates no plugin is registered for the requested type.
	ErrUnknownPlugin = eris.New("unknown plugin type")
	// ErrPlaceholderNotFound indicates the requested placeholder slot does not exist.
	ErrPlaceholderNotFound = eris.New("placeholder not found")
	// ErrInstanceNotFound indicates the requested plugin instance does not exist.
	ErrInstanceNotFound = eris.New("plugin instance not found")
)

// InstanceKey is the context key under which plugins expose their record.
const InstanceKey = "instance"

// Placeholder is a named slot within a page layout where plugins attach content.
type Placeholder struct {
	ID   uint
	Slot string
}

// Instance is a plugin attached to a placeholder. PlaceholderID is zero for
// records created outside of any page structure.
type Instance struct {
	ID            uint
	PlaceholderID uint
	PluginType    string
	Language      string
	Position      int
}

// Context is the rendering context handed to plugin templates.
type Context map[string]any

// Clone returns a shallow copy of the context.
func (c Context) Clone() Context {
	cloned := make(Context, len(c)+1)
	for key, value := range c {
		cloned[key] = value
	}
	return cloned
}

// Plugin adapts a stored record into a template rendering context.
type Plugin interface {
	// Type is the stable identifier stored with each instance.
	Type() string
	// Name is the human readable label shown to editors.
	Name() string
	// Template names the template that renders the returned context.
	Template() string
	Render(ctx context.Context, renderCtx Context, instance Instance) (Context, error)
}

// Repository defines persistence operations for placeholders and plugin instances.
type Repository interface {
	GetOrCreatePlaceholder(ctx context.Context, slot string) (*Placeholder, error)
	GetPlaceholder(ctx context.Context, slot string) (*Placeholder, error)
	GetInstance(ctx context.Context, id uint) (*Instance, error)
	ListInstances(ctx context.Context, placeholderID uint, language string) ([]Instance, error)
}
