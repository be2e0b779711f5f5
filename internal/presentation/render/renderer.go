// Package render turns plugin instances into HTML.
package render

import (
	"bytes"
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"bannercms/app/internal/domain/plugin"
	applog "bannercms/app/internal/platform/log"
	"bannercms/app/internal/presentation/templates"
)

// Options configures the content renderer.
type Options struct {
	Pool         *plugin.Pool
	Placeholders plugin.Repository
	Templates    *templates.Set
	Logger       *logrus.Logger
}

// ContentRenderer renders single plugins and whole placeholders.
type ContentRenderer struct {
	pool         *plugin.Pool
	placeholders plugin.Repository
	templates    *templates.Set
	logger       *logrus.Entry
}

// NewContentRenderer validates opts and builds a renderer.
func NewContentRenderer(opts Options) (*ContentRenderer, error) {
	if opts.Pool == nil {
		return nil, eris.New("plugin pool is required")
	}
	if opts.Placeholders == nil {
		return nil, eris.New("placeholder repository is required")
	}
	if opts.Templates == nil {
		return nil, eris.New("template set is required")
	}

	for _, pluginType := range opts.Pool.Types() {
		p, err := opts.Pool.Get(pluginType)
		if err != nil {
			return nil, err
		}
		if !opts.Templates.Has(p.Template()) {
			return nil, eris.Errorf("plugin %s uses undefined template %s", pluginType, p.Template())
		}
	}

	return &ContentRenderer{
		pool:         opts.Pool,
		placeholders: opts.Placeholders,
		templates:    opts.Templates,
		logger:       applog.Component(opts.Logger, "content.renderer"),
	}, nil
}

// RenderPlugin resolves the plugin for instance, builds its context from
// renderCtx and returns the rendered template.
func (r *ContentRenderer) RenderPlugin(ctx context.Context, instance plugin.Instance, renderCtx plugin.Context) (string, error) {
	p, err := r.pool.Get(instance.PluginType)
	if err != nil {
		return "", err
	}

	if renderCtx == nil {
		renderCtx = plugin.Context{}
	}

	pluginCtx, err := p.Render(ctx, renderCtx, instance)
	if err != nil {
		return "", eris.Wrapf(err, "building context for %s %d", instance.PluginType, instance.ID)
	}

	var buf bytes.Buffer
	if err := r.templates.Component(p.Template(), pluginCtx).Render(ctx, &buf); err != nil {
		return "", eris.Wrapf(err, "rendering %s %d", instance.PluginType, instance.ID)
	}

	return buf.String(), nil
}

// RenderInstance renders the stored plugin instance with id.
func (r *ContentRenderer) RenderInstance(ctx context.Context, id uint, renderCtx plugin.Context) (string, error) {
	instance, err := r.placeholders.GetInstance(ctx, id)
	if err != nil {
		return "", eris.Wrapf(err, "loading plugin instance %d", id)
	}
	if instance == nil {
		return "", eris.Wrapf(plugin.ErrInstanceNotFound, "loading plugin instance %d", id)
	}

	return r.RenderPlugin(ctx, *instance, renderCtx)
}

// RenderPlaceholder renders every plugin of slot in the given language, in
// position order. An empty language renders all languages.
func (r *ContentRenderer) RenderPlaceholder(ctx context.Context, slot, language string, renderCtx plugin.Context) (string, error) {
	trimmed := strings.TrimSpace(slot)
	placeholder, err := r.placeholders.GetPlaceholder(ctx, trimmed)
	if err != nil {
		return "", eris.Wrapf(err, "loading placeholder %s", trimmed)
	}
	if placeholder == nil {
		return "", eris.Wrapf(plugin.ErrPlaceholderNotFound, "loading placeholder %s", trimmed)
	}

	instances, err := r.placeholders.ListInstances(ctx, placeholder.ID, language)
	if err != nil {
		return "", eris.Wrapf(err, "listing plugins of placeholder %s", trimmed)
	}

	rendered := make([]string, 0, len(instances))
	for _, instance := range instances {
		html, err := r.RenderPlugin(ctx, instance, renderCtx)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"slot":        trimmed,
				"plugin_id":   instance.ID,
				"plugin_type": instance.PluginType,
				"error":       err.Error(),
			}).Error("rendering plugin failed")
			return "", err
		}
		rendered = append(rendered, html)
	}

	return strings.Join(rendered, "\n"), nil
}

// PluginTypes lists the plugin types this renderer can render.
func (r *ContentRenderer) PluginTypes() []string {
	return r.pool.Types()
}
