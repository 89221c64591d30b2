package app

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lazydash/lazydash/internal/api"
	"github.com/lazydash/lazydash/internal/export"
	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/history"
	"github.com/lazydash/lazydash/internal/layout"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/components"
)

func (a *App) requestContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(a.cfg.Backend.RequestTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (a *App) spinTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinTickMsg(t)
	})
}

func (a *App) loadSession() tea.Msg {
	if a.session == nil {
		return SessionLoadedMsg{}
	}
	s, err := a.session.Load()
	return SessionLoadedMsg{Session: s, Err: err}
}

func (a *App) loadBranding() tea.Cmd {
	scope := a.state.Scope
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		tenant, err := a.client.TenantConfig(ctx, scope.TenantCode)
		if err != nil {
			return BrandingLoadedMsg{Err: err}
		}
		product, err := a.client.ProductConfig(ctx, scope.TenantCode, scope.ProductCode)
		if err != nil {
			return BrandingLoadedMsg{Tenant: tenant, Err: err}
		}
		return BrandingLoadedMsg{Tenant: tenant, Product: product}
	}
}

func (a *App) loadNavigation() tea.Cmd {
	scope := a.state.Scope
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		items, err := a.client.Navigation(ctx, scope)
		return NavigationLoadedMsg{Items: items, Err: err}
	}
}

func (a *App) loadRecord(scope models.Scope) tea.Cmd {
	a.inflight++
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		doc, err := a.client.Record(ctx, scope)
		if err != nil {
			return RecordLoadedMsg{Scope: scope, Err: err}
		}
		tree, err := layout.Parse(doc.Layout)
		if err != nil {
			return RecordLoadedMsg{Scope: scope, Doc: doc, Err: err}
		}
		return RecordLoadedMsg{Scope: scope, Doc: doc, Tree: tree}
	}
}

// loadData fetches one page for a target scope. The generation counter
// bumps immediately so any response from an earlier request for the same
// target is discarded on arrival.
func (a *App) loadData(scope models.Scope, page int) tea.Cmd {
	target := scope.Target()
	a.gen[target]++
	gen := a.gen[target]
	a.inflight++

	req := api.DataRequest{Page: page, PageSize: a.cfg.Data.PageSize}
	set := a.filters.Get(target)
	filterJSON := ""
	if !set.IsEmpty() {
		req.Filters = []*filter.Group{set.Root()}
		if b, err := json.Marshal(set); err == nil {
			filterJSON = string(b)
		}
	}

	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		start := time.Now()
		result, err := a.client.Data(ctx, scope, req)
		a.recordVisit(scope, filterJSON, page, result, time.Since(start), err)
		return DataLoadedMsg{Target: target, Gen: gen, Page: page, Result: result, Err: err}
	}
}

func (a *App) recordVisit(scope models.Scope, filterJSON string, page int,
	result *models.PagedResult, elapsed time.Duration, err error) {

	if a.history == nil || !a.cfg.History.Enabled {
		return
	}
	entry := history.Entry{
		TenantCode:      scope.TenantCode,
		ProductCode:     scope.ProductCode,
		ObjectCode:      scope.ObjectCode,
		ViewContentCode: scope.ViewContentCode,
		FilterJSON:      filterJSON,
		Page:            page,
		Duration:        elapsed,
		Success:         err == nil,
	}
	if result != nil {
		entry.RowCount = len(result.Items)
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	if addErr := a.history.Add(entry); addErr != nil {
		a.logger.Warn("failed to record visit", zap.Error(addErr))
		return
	}
	if a.cfg.History.MaxEntries > 0 {
		if pruneErr := a.history.Prune(a.cfg.History.MaxEntries); pruneErr != nil {
			a.logger.Warn("failed to prune history", zap.Error(pruneErr))
		}
	}
}

func (a *App) loadDetail(serial string) tea.Cmd {
	scope := a.state.Scope
	a.inflight++
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		row, err := a.client.Detail(ctx, scope, serial, api.DataRequest{})
		return DetailLoadedMsg{Serial: serial, Row: row, Err: err}
	}
}

// loadForeignOptions looks up candidate records of a referenced object for a
// select field. Matching is a contains filter on the name column; the label
// is the record's name and the stored value its serial.
func (a *App) loadForeignOptions(msg components.ForeignSearchMsg) tea.Cmd {
	scope := a.state.Scope
	scope.ObjectCode = msg.ForeignTable

	req := api.DataRequest{Fields: []string{"name", "serial"}, PageSize: 20}
	if msg.Query != "" {
		set := filter.NewSet()
		if err := set.AddField(nil, "name", nil); err == nil {
			_ = set.UpdateLeaf(filter.Path{"name"}, filter.LeafOperator, string(filter.OpContains))
			_ = set.UpdateLeaf(filter.Path{"name"}, filter.LeafValue, msg.Query)
			req.Filters = []*filter.Group{set.Root()}
		}
	}

	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		result, err := a.client.ObjectData(ctx, scope, req)
		if err != nil {
			return ForeignOptionsMsg{FieldCode: msg.FieldCode, Err: err}
		}
		options := make([]components.SelectOption, 0, len(result.Items))
		for _, row := range result.Items {
			options = append(options, components.SelectOption{
				Label: row["name"].Display(),
				Value: row.Serial(),
			})
		}
		return ForeignOptionsMsg{FieldCode: msg.FieldCode, Options: options}
	}
}

func (a *App) submitForm(msg components.SubmitFormMsg) tea.Cmd {
	scope := a.state.Scope
	a.inflight++
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		var err error
		if msg.Serial == "" {
			err = a.client.Create(ctx, scope, msg.Values)
		} else {
			err = a.client.Update(ctx, scope, msg.Serial, msg.Values)
		}
		return SubmitDoneMsg{Created: msg.Serial == "", Err: err}
	}
}

func (a *App) deleteRecord(serial string) tea.Cmd {
	scope := a.state.Scope
	a.inflight++
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		err := a.client.Delete(ctx, scope, serial)
		return DeleteDoneMsg{Serial: serial, Err: err}
	}
}

// exportServer asks the backend to build the export file for the current
// query and writes the decoded payload to the export directory.
func (a *App) exportServer() tea.Cmd {
	scope := a.state.Scope
	dir := a.cfg.Data.ExportDir
	req := api.DataRequest{}
	set := a.filters.Get(scope.Target())
	if !set.IsEmpty() {
		req.Filters = []*filter.Group{set.Root()}
	}
	a.inflight++
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		result, err := a.client.Export(ctx, scope, req)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.WriteServerExport(result, dir)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// exportLocal writes the currently loaded page to a file without another
// round trip.
func (a *App) exportLocal() tea.Cmd {
	if a.doc == nil {
		return nil
	}
	result := a.results[a.target()]
	if result == nil || len(result.Items) == 0 {
		return nil
	}

	fields := a.doc.Fields
	rows := result.Items
	format := a.cfg.Data.ExportFormat
	path := export.LocalExportPath(a.cfg.Data.ExportDir, a.state.Scope.ObjectCode, format)

	return func() tea.Msg {
		var err error
		if format == "json" {
			err = export.ExportPageToJSON(fields, rows, path)
		} else {
			err = export.ExportPageToCSV(fields, rows, path)
		}
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func (a *App) login(email, password string) tea.Cmd {
	scope := a.state.Scope
	a.inflight++
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		s, err := a.client.Login(ctx, scope.TenantCode, scope.ProductCode, email, password)
		return LoginDoneMsg{Session: s, Err: err}
	}
}

func (a *App) validateUser() tea.Cmd {
	scope := a.state.Scope
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		user, err := a.client.CurrentUser(ctx, scope.TenantCode, scope.ProductCode)
		return UserValidatedMsg{User: user, Err: err}
	}
}

// loadPage fetches everything the current route needs: the layout record and
// its first page of data. Dropdown and card-list sources load once the tree
// is known.
func (a *App) loadPage() tea.Cmd {
	return tea.Batch(a.loadRecord(a.state.Scope), a.loadData(a.state.Scope, 1))
}

// loadAuxSources fires data loads for every dropdown and card list in the
// freshly parsed tree.
func (a *App) loadAuxSources(tree *layout.Node) []tea.Cmd {
	var cmds []tea.Cmd
	seen := map[string]bool{a.target(): true}

	a.dropdowns = map[string]*components.Dropdown{}
	a.dropdownKeys = nil
	for _, n := range tree.FindAll(layout.KindDropdown) {
		spec := layout.DropdownSpecFrom(n)
		if spec.ObjectCode == "" || spec.ViewContentCode == "" {
			continue
		}
		dd := components.NewDropdown(spec, a.theme)
		source := dd.SourceTarget()
		a.dropdowns[source] = dd
		a.dropdownKeys = append(a.dropdownKeys, source)
		if !seen[source] {
			seen[source] = true
			cmds = append(cmds, a.loadData(a.state.Scope.WithObject(spec.ObjectCode, spec.ViewContentCode), 1))
		}
	}
	a.dropdownIdx = 0

	for _, n := range tree.FindAll(layout.KindCardList) {
		target := layout.CardListTarget(n)
		obj := n.PropString("objectCode")
		view := n.PropString("viewContentCode")
		if obj == "" || view == "" || seen[target] {
			continue
		}
		seen[target] = true
		cmds = append(cmds, a.loadData(a.state.Scope.WithObject(obj, view), 1))
	}
	return cmds
}
