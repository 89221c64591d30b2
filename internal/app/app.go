package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/lazydash/lazydash/internal/api"
	"github.com/lazydash/lazydash/internal/config"
	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/history"
	"github.com/lazydash/lazydash/internal/layout"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/savedfilters"
	"github.com/lazydash/lazydash/internal/session"
	"github.com/lazydash/lazydash/internal/ui/components"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// Deps are the long-lived services the application model runs against.
// History and Saved are optional; the features degrade gracefully without
// them.
type Deps struct {
	Config  *config.Config
	Client  *api.Client
	Session *session.Manager
	History *history.Store
	Saved   *savedfilters.Manager
	Logger  *zap.Logger
}

// App is the main application model
type App struct {
	state models.AppState
	cfg   *config.Config

	theme     theme.Theme
	baseTheme theme.Theme

	client  *api.Client
	session *session.Manager
	history *history.Store
	saved   *savedfilters.Manager
	logger  *zap.Logger

	// filters is the per-target store the filter builder and dropdowns
	// publish into and data loads read from.
	filters *filter.Store

	branding      *models.Branding
	user          models.User
	loginRequired bool

	navItems []*models.NavigationItem
	navView  *components.NavView

	// Current page: layout document, parsed tree, and fetched data keyed
	// by target (objectCode__viewContentCode).
	doc      *models.LayoutDocument
	tree     *layout.Node
	results  map[string]*models.PagedResult
	selected map[string]string

	// gen counts data requests per target so late completions of
	// superseded requests are dropped instead of clobbering the page.
	gen      map[string]int
	inflight int

	tableView     *components.TableView
	detailView    *components.DetailView
	pagination    *components.Pagination
	formView      *components.FormView
	filterBuilder *components.FilterBuilder
	rawViewer     *components.RawViewer
	loading       components.LoadingOverlay
	errToast      *components.ErrorToast

	dropdowns    map[string]*components.Dropdown
	dropdownKeys []string
	dropdownIdx  int

	detailRow models.Row

	confirmingDelete bool
	pendingDelete    string

	pickerOpen   bool
	pickerIndex  int
	pickerItems  []savedfilters.SavedFilter
	pickerNaming bool
	pickerInput  textinput.Model

	loginEmail    textinput.Model
	loginPassword textinput.Model
	loginFocus    int
	loginBusy     bool
	loginNotice   string

	statusText string
}

// New creates the application model.
func New(deps Deps) *App {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}

	themeName := "default"
	if cfg.UI.Theme != "" {
		themeName = cfg.UI.Theme
	}
	th := theme.GetTheme(themeName)

	scope := models.Scope{
		TenantCode:      cfg.Scope.Tenant,
		ProductCode:     cfg.Scope.Product,
		ObjectCode:      cfg.Scope.Object,
		ViewContentCode: cfg.Scope.ViewContent,
	}
	state := models.NewAppState(scope)
	if cfg.UI.NavWidthRatio > 0 && cfg.UI.NavWidthRatio < 100 {
		state.NavWidth = cfg.UI.NavWidthRatio
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	password.EchoMode = textinput.EchoPassword

	a := &App{
		state:     state,
		cfg:       cfg,
		theme:     th,
		baseTheme: th,
		client:    deps.Client,
		session:   deps.Session,
		history:   deps.History,
		saved:     deps.Saved,
		logger:    logger,
		filters:   filter.NewStore(),

		results:  map[string]*models.PagedResult{},
		selected: map[string]string{},
		gen:      map[string]int{},

		navView:    components.NewNavView(nil, th),
		tableView:  components.NewTableView(th),
		detailView: components.NewDetailView(th),
		pagination: components.NewPagination(th, scope.Target()),
		loading:    components.LoadingOverlay{Theme: th},
		dropdowns:  map[string]*components.Dropdown{},

		loginEmail:    email,
		loginPassword: password,
	}
	if cfg.UI.ViewportWidth > 0 {
		a.tableView.ViewportWidth = cfg.UI.ViewportWidth
	}
	a.detailView.TruncateDate = cfg.Data.DateTruncated
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadSession, a.loadBranding(), a.spinTick())
}

func textinputNew(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 30
	ti.Focus()
	return ti
}

// setTheme rethreads a theme change through every live component.
func (a *App) setTheme(th theme.Theme) {
	a.theme = th
	a.navView.Theme = th
	a.tableView.Theme = th
	a.detailView.Theme = th
	a.pagination.Theme = th
	a.loading.Theme = th
	for _, dd := range a.dropdowns {
		dd.Theme = th
	}
}

// target is the pub/sub key of the current route.
func (a *App) target() string {
	return a.state.Scope.Target()
}
