package banner

import (
	"context"

	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/plugin"
)

const (
	// PluginType identifies large banner instances in the plugin table.
	PluginType = "LargeBannerPlugin"
	// TemplateName is the template rendering large banners.
	TemplateName = "large_banner"
)

// Plugin renders large banner instances.
type Plugin struct {
	repo Repository
}

var _ plugin.Plugin = (*Plugin)(nil)

// NewPlugin constructs the large banner render adapter.
func NewPlugin(repo Repository) (*Plugin, error) {
	if repo == nil {
		return nil, eris.New("large banner repository is required")
	}
	return &Plugin{repo: repo}, nil
}

func (p *Plugin) Type() string     { return PluginType }
func (p *Plugin) Name() string     { return "Large Banner" }
func (p *Plugin) Template() string { return TemplateName }

// Render loads the banner attached to instance and exposes it under the
// instance key. Every other key of renderCtx is passed through unchanged.
func (p *Plugin) Render(ctx context.Context, renderCtx plugin.Context, instance plugin.Instance) (plugin.Context, error) {
	banner, err := p.repo.GetByPluginID(ctx, instance.ID)
	if err != nil {
		return nil, eris.Wrapf(err, "loading large banner for plugin %d", instance.ID)
	}
	if banner == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading large banner for plugin %d", instance.ID)
	}

	return Context(renderCtx, banner), nil
}

// Context builds the rendering context for banner.
func Context(renderCtx plugin.Context, banner *LargeBanner) plugin.Context {
	out := renderCtx.Clone()
	out[plugin.InstanceKey] = banner
	return out
}
