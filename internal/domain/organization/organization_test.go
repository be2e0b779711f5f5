package organization

import (
	"context"
	"html/template"
	"strings"
	"sync"
	"testing"

	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/plugin"
	applog "bannercms/app/internal/platform/log"
)

type memoryRepository struct {
	mu            sync.Mutex
	organizations map[uint]*Organization
	glimpses      map[uint]*Glimpse
	slots         []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{organizations: map[uint]*Organization{}, glimpses: map[uint]*Glimpse{}}
}

func (m *memoryRepository) Create(_ context.Context, organization *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	organization.ID = uint(len(m.organizations) + 1)
	m.organizations[organization.ID] = organization
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uint) (*Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.organizations[id], nil
}

func (m *memoryRepository) CreateGlimpseInPlaceholder(_ context.Context, slot, language string, glimpse *Glimpse) (*plugin.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	placeholderID := uint(0)
	for i, existing := range m.slots {
		if existing == slot {
			placeholderID = uint(i + 1)
		}
	}
	if placeholderID == 0 {
		m.slots = append(m.slots, slot)
		placeholderID = uint(len(m.slots))
	}

	id := uint(len(m.glimpses) + 1)
	glimpse.ID = id
	glimpse.PluginID = id
	m.glimpses[id] = glimpse
	return &plugin.Instance{ID: id, PlaceholderID: placeholderID, PluginType: PluginType, Language: language}, nil
}

func (m *memoryRepository) GetGlimpseByPluginID(_ context.Context, pluginID uint) (*Glimpse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.glimpses[pluginID], nil
}

func strPtr(value string) *string {
	return &value
}

func TestVariantsDefaultChoice(t *testing.T) {
	t.Parallel()

	variants, err := NewVariants()
	if err != nil {
		t.Fatalf("NewVariants returned error: %v", err)
	}

	choices := variants.Choices()
	if len(choices) != 1 || choices[0] != (Choice{Value: "", Label: "Default"}) {
		t.Fatalf("expected only the default choice, got %+v", choices)
	}

	normalised, err := variants.Normalise(strPtr("  "))
	if err != nil || normalised != nil {
		t.Fatalf("expected blank variant to map to nil, got %v, %v", normalised, err)
	}

	if _, err := variants.Normalise(strPtr("compact")); !eris.Is(err, ErrInvalidVariant) {
		t.Fatalf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestVariantsConfiguredChoices(t *testing.T) {
	t.Parallel()

	variants, err := NewVariants("compact", " wide-logo ", "compact", "")
	if err != nil {
		t.Fatalf("NewVariants returned error: %v", err)
	}

	want := []Choice{
		{Value: "", Label: "Default"},
		{Value: "compact", Label: "Compact"},
		{Value: "wide-logo", Label: "Wide Logo"},
	}
	got := variants.Choices()
	if len(got) != len(want) {
		t.Fatalf("expected %d choices, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %+v at %d, got %+v", want[i], i, got[i])
		}
	}

	normalised, err := variants.Normalise(strPtr(" wide-logo "))
	if err != nil {
		t.Fatalf("Normalise returned error: %v", err)
	}
	if normalised == nil || *normalised != "wide-logo" {
		t.Fatalf("expected trimmed variant, got %v", normalised)
	}
}

func TestVariantsRejectOverlongValues(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", VariantMaxLength+1)
	if _, err := NewVariants(long); err == nil {
		t.Fatalf("expected overlong configured variant to be rejected")
	}

	variants, err := NewVariants()
	if err != nil {
		t.Fatalf("NewVariants returned error: %v", err)
	}
	if _, err := variants.Normalise(&long); !eris.Is(err, ErrInvalidVariant) {
		t.Fatalf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestVariantsCountCharactersNotBytes(t *testing.T) {
	t.Parallel()

	accented := strings.Repeat("é", 30)
	atLimit := strings.Repeat("ü", VariantMaxLength)

	variants, err := NewVariants(accented, atLimit)
	if err != nil {
		t.Fatalf("NewVariants returned error for multibyte variants: %v", err)
	}

	for _, value := range []string{accented, atLimit} {
		normalised, err := variants.Normalise(strPtr(value))
		if err != nil {
			t.Fatalf("Normalise(%q) returned error: %v", value, err)
		}
		if normalised == nil || *normalised != value {
			t.Fatalf("expected %q to be kept, got %v", value, normalised)
		}
	}

	overlong := strings.Repeat("ü", VariantMaxLength+1)
	if _, err := NewVariants(overlong); err == nil {
		t.Fatalf("expected %d character variant to be rejected", VariantMaxLength+1)
	}
}

func TestServiceAddGlimpseAndRender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemoryRepository()

	variants, err := NewVariants("compact")
	if err != nil {
		t.Fatalf("NewVariants returned error: %v", err)
	}

	service, err := NewService(repo, variants, applog.Discard(), nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	organization := &Organization{Title: "  Acme <Corp>  ", Description: "We build **rockets**."}
	if err := service.Create(ctx, organization); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if organization.Title != "Acme <Corp>" {
		t.Fatalf("expected trimmed title with markup characters kept, got %q", organization.Title)
	}

	if _, _, err := service.AddGlimpse(ctx, "partners", "en", organization.ID, strPtr("huge")); !eris.Is(err, ErrInvalidVariant) {
		t.Fatalf("expected ErrInvalidVariant, got %v", err)
	}
	if _, _, err := service.AddGlimpse(ctx, "partners", "en", 99, nil); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.slots) != 0 {
		t.Fatalf("rejected glimpses must not register a placeholder, got %v", repo.slots)
	}

	glimpse, instance, err := service.AddGlimpse(ctx, "partners", "en", organization.ID, strPtr("compact"))
	if err != nil {
		t.Fatalf("AddGlimpse returned error: %v", err)
	}
	if glimpse.VariantValue() != "compact" || instance.PluginType != PluginType || instance.PlaceholderID != 1 {
		t.Fatalf("unexpected glimpse %+v / instance %+v", glimpse, instance)
	}

	p, err := NewPlugin(repo)
	if err != nil {
		t.Fatalf("NewPlugin returned error: %v", err)
	}

	rendered, err := p.Render(ctx, plugin.Context{"language": "en"}, *instance)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if rendered[plugin.InstanceKey] != glimpse || rendered["organization"] != organization {
		t.Fatalf("unexpected render context %v", rendered)
	}

	html, ok := rendered["description_html"].(template.HTML)
	if !ok {
		t.Fatalf("expected template.HTML description, got %T", rendered["description_html"])
	}
	if !strings.Contains(string(html), "<strong>rockets</strong>") {
		t.Fatalf("expected markdown to be rendered, got %q", html)
	}
}

func TestPluginRenderMissingGlimpse(t *testing.T) {
	t.Parallel()

	p, err := NewPlugin(newMemoryRepository())
	if err != nil {
		t.Fatalf("NewPlugin returned error: %v", err)
	}

	if _, err := p.Render(context.Background(), plugin.Context{}, plugin.Instance{ID: 1}); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
