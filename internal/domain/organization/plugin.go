package organization

import (
	"context"

	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/content"
	"bannercms/app/internal/domain/plugin"
)

const (
	PluginType   = "OrganizationPlugin"
	TemplateName = "organization_glimpse"
)

// Plugin renders organization glimpses.
type Plugin struct {
	repo Repository
}

var _ plugin.Plugin = (*Plugin)(nil)

// NewPlugin constructs the organization glimpse render adapter.
func NewPlugin(repo Repository) (*Plugin, error) {
	if repo == nil {
		return nil, eris.New("organization repository is required")
	}
	return &Plugin{repo: repo}, nil
}

func (p *Plugin) Type() string     { return PluginType }
func (p *Plugin) Name() string     { return "Organization" }
func (p *Plugin) Template() string { return TemplateName }

func (p *Plugin) Render(ctx context.Context, renderCtx plugin.Context, instance plugin.Instance) (plugin.Context, error) {
	glimpse, err := p.repo.GetGlimpseByPluginID(ctx, instance.ID)
	if err != nil {
		return nil, eris.Wrapf(err, "loading organization glimpse for plugin %d", instance.ID)
	}
	if glimpse == nil || glimpse.Organization == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading organization glimpse for plugin %d", instance.ID)
	}

	out := renderCtx.Clone()
	out[plugin.InstanceKey] = glimpse
	out["organization"] = glimpse.Organization
	out["description_html"] = content.Markdown(glimpse.Organization.Description)
	return out, nil
}
