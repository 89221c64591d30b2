package app

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lazydash/lazydash/internal/api"
	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/layout"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/rawjson"
	"github.com/lazydash/lazydash/internal/ui/components"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		return a, nil

	case spinTickMsg:
		if a.inflight > 0 {
			a.loading.Tick()
		}
		return a, a.spinTick()

	case tea.KeyMsg:
		return a.handleKey(msg)

	case SessionLoadedMsg:
		if msg.Err != nil {
			a.logger.Warn("failed to restore session", zap.Error(msg.Err))
			return a, nil
		}
		if msg.Session.Valid() {
			a.user = msg.Session.User
			return a, a.validateUser()
		}
		return a, nil

	case UserValidatedMsg:
		if msg.Err != nil {
			a.user = nil
			if a.session != nil {
				_ = a.session.Clear()
			}
			if a.loginRequired {
				a.state.ViewMode = models.LoginMode
			}
			return a, nil
		}
		a.user = msg.User
		return a, nil

	case BrandingLoadedMsg:
		return a.handleBranding(msg)

	case NavigationLoadedMsg:
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.navItems = msg.Items
		a.navView.SetItems(msg.Items)
		if a.state.Scope.ObjectCode == "" || a.state.Scope.ViewContentCode == "" {
			if scope, ok := a.firstRoute(msg.Items); ok {
				return a, a.switchRoute(scope)
			}
		}
		a.navView.SetCursorToCode(a.state.Scope.ObjectCode)
		return a, nil

	case RecordLoadedMsg:
		a.endRequest()
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		if msg.Scope.Target() != a.target() {
			return a, nil
		}
		a.doc = msg.Doc
		a.tree = msg.Tree
		if result := a.results[a.target()]; result != nil {
			a.tableView.SetData(a.doc.Fields, result, a.showMetadata())
		}
		return a, tea.Batch(a.loadAuxSources(msg.Tree)...)

	case DataLoadedMsg:
		a.endRequest()
		if msg.Gen != a.gen[msg.Target] {
			return a, nil
		}
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.results[msg.Target] = msg.Result
		if dd, ok := a.dropdowns[msg.Target]; ok {
			dd.SetData(msg.Result)
		}
		if msg.Target == a.target() {
			if a.doc != nil {
				a.tableView.SetData(a.doc.Fields, msg.Result, a.showMetadata())
			}
			a.pagination.SetResult(msg.Result)
		}
		return a, nil

	case DetailLoadedMsg:
		a.endRequest()
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.detailRow = msg.Row
		if a.doc != nil {
			a.detailView.SetRecord(a.doc.Fields, msg.Row, a.showMetadata())
		}
		a.state.ViewMode = models.DetailMode
		return a, nil

	case ForeignOptionsMsg:
		if msg.Err != nil {
			a.logger.Warn("foreign option lookup failed",
				zap.String("field", msg.FieldCode), zap.Error(msg.Err))
			return a, nil
		}
		if a.formView != nil {
			a.formView.SetOptions(msg.FieldCode, msg.Options)
		}
		return a, nil

	case SubmitDoneMsg:
		a.endRequest()
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.formView = nil
		a.state.ViewMode = models.BrowseMode
		if msg.Created {
			a.statusText = "Record created"
		} else {
			a.statusText = "Record updated"
		}
		return a, a.loadData(a.state.Scope, a.pagination.Page)

	case DeleteDoneMsg:
		a.endRequest()
		a.pendingDelete = ""
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.statusText = "Record deleted"
		if a.state.ViewMode == models.DetailMode {
			a.state.ViewMode = models.BrowseMode
			a.detailRow = nil
		}
		return a, a.loadData(a.state.Scope, a.pagination.Page)

	case ExportDoneMsg:
		a.endRequest()
		if msg.Err != nil {
			return a.fail(msg.Err)
		}
		a.statusText = "Exported to " + msg.Path
		return a, nil

	case LoginDoneMsg:
		a.endRequest()
		a.loginBusy = false
		if msg.Err != nil {
			a.loginNotice = msg.Err.Error()
			return a, nil
		}
		a.user = msg.Session.User
		if a.session != nil {
			if err := a.session.Save(msg.Session); err != nil {
				a.logger.Warn("failed to persist session", zap.Error(err))
			}
		}
		a.loginPassword.SetValue("")
		a.state.ViewMode = models.BrowseMode
		return a, a.startBrowse()

	case components.NavSelectedMsg:
		scope, ok := a.routeFor(msg.Item)
		if !ok {
			return a, nil
		}
		a.navView.ActiveCode = msg.Item.Code
		a.state.Focus = models.FocusContent
		return a, a.switchRoute(scope)

	case components.PageRequestMsg:
		if msg.Target == a.target() {
			return a, a.loadData(a.state.Scope, msg.Page)
		}
		return a, nil

	case components.ApplyFilterMsg:
		a.filterBuilder = nil
		a.state.Focus = models.FocusContent
		if msg.Target == a.target() {
			return a, a.loadData(a.state.Scope, 1)
		}
		return a, nil

	case components.CloseFilterBuilderMsg:
		a.filterBuilder = nil
		a.state.Focus = models.FocusContent
		return a, nil

	case components.DropdownChangedMsg:
		return a, a.applyDropdown(msg)

	case components.SubmitFormMsg:
		return a, a.submitForm(msg)

	case components.CloseFormMsg:
		a.formView = nil
		a.state.ViewMode = models.BrowseMode
		return a, nil

	case components.ForeignSearchMsg:
		return a, a.loadForeignOptions(msg)

	case components.CloseRawViewerMsg:
		a.rawViewer = nil
		return a, nil
	}

	return a, nil
}

func (a *App) endRequest() {
	if a.inflight > 0 {
		a.inflight--
	}
}

func (a *App) handleBranding(msg BrandingLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return a.fail(msg.Err)
	}
	branding := msg.Tenant.Branding
	if msg.Product != nil {
		branding = msg.Product.Branding
	}
	a.branding = &branding
	a.loginRequired = branding.IsLoginRequired
	if a.cfg.UI.UseBrandingTheme {
		a.setTheme(theme.FromBranding(a.baseTheme, branding))
	}
	if a.loginRequired && a.user == nil && (a.session == nil || a.session.Token() == "") {
		a.state.ViewMode = models.LoginMode
		return a, nil
	}
	return a, a.startBrowse()
}

func (a *App) startBrowse() tea.Cmd {
	cmds := []tea.Cmd{a.loadNavigation()}
	if a.state.Scope.ObjectCode != "" && a.state.Scope.ViewContentCode != "" {
		cmds = append(cmds, a.loadPage())
	}
	return tea.Batch(cmds...)
}

func (a *App) switchRoute(scope models.Scope) tea.Cmd {
	a.state.Scope = scope
	a.state.ViewMode = models.BrowseMode
	a.doc = nil
	a.tree = nil
	a.detailRow = nil
	a.pagination = components.NewPagination(a.theme, scope.Target())
	return a.loadPage()
}

// firstRoute finds the first leaf entry of the menu, depth-first.
func (a *App) firstRoute(items []*models.NavigationItem) (models.Scope, bool) {
	for _, item := range items {
		if len(item.Children) == 0 {
			if scope, ok := a.routeFor(item); ok {
				return scope, true
			}
			continue
		}
		if scope, ok := a.firstRoute(item.Children); ok {
			return scope, true
		}
	}
	return models.Scope{}, false
}

func (a *App) routeFor(item *models.NavigationItem) (models.Scope, bool) {
	obj, view := parseRoute(item.Path)
	if obj == "" {
		obj, view = parseRoute(item.URL)
	}
	if obj == "" {
		obj = item.Code
	}
	if obj == "" {
		return models.Scope{}, false
	}
	if view == "" {
		view = "default"
	}
	return a.state.Scope.WithObject(obj, view), true
}

// parseRoute pulls the object and view codes out of a backend-authored menu
// URL of the form .../o/{object}/view/{view}.
func parseRoute(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	var obj, view string
	for i := 0; i < len(parts)-1; i++ {
		switch parts[i] {
		case "o":
			obj = parts[i+1]
		case "view":
			view = parts[i+1]
		}
	}
	return obj, view
}

func (a *App) showMetadata() bool {
	if a.tree == nil {
		return false
	}
	if n := a.tree.FindFirst(layout.KindTable); n != nil {
		return n.ShowsMetadataColumns()
	}
	return false
}

func (a *App) fail(err error) (tea.Model, tea.Cmd) {
	a.logger.Warn("request failed", zap.Error(err))
	a.errToast = components.NewErrorToast(err, a.theme)
	return a, nil
}

func (a *App) applyDropdown(msg components.DropdownChangedMsg) tea.Cmd {
	if msg.Field == "" || msg.Target == "" {
		return nil
	}
	set := a.filters.Get(msg.Target)
	if err := set.AddField(nil, msg.Field, nil); err != nil && !errors.Is(err, filter.ErrDuplicateField) {
		a.logger.Warn("dropdown filter rejected", zap.Error(err))
		return nil
	}
	_ = set.UpdateLeaf(filter.Path{msg.Field}, filter.LeafOperator, string(filter.OpEqual))
	_ = set.UpdateLeaf(filter.Path{msg.Field}, filter.LeafValue, msg.Value)

	// Card lists on the target view highlight by serial.
	a.selected[msg.Target] = msg.Value

	if msg.Target == a.target() {
		return a.loadData(a.state.Scope, 1)
	}
	if obj, view, ok := splitTarget(msg.Target); ok {
		return a.loadData(a.state.Scope.WithObject(obj, view), 1)
	}
	return nil
}

func splitTarget(target string) (string, string, bool) {
	parts := strings.SplitN(target, "__", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	a.statusText = ""

	if a.errToast != nil {
		switch key {
		case "esc", "enter":
			a.errToast = nil
		case "q", "ctrl+c":
			return a, tea.Quit
		case "r":
			a.errToast = nil
			return a, a.loadPage()
		case "l":
			if api.IsAuth(a.errToast.Err) {
				a.errToast = nil
				a.state.ViewMode = models.LoginMode
			}
		}
		return a, nil
	}

	if a.rawViewer != nil {
		var cmd tea.Cmd
		a.rawViewer, cmd = a.rawViewer.Update(msg)
		return a, cmd
	}

	if a.confirmingDelete {
		switch key {
		case "y", "Y", "enter":
			a.confirmingDelete = false
			return a, a.deleteRecord(a.pendingDelete)
		case "n", "N", "esc":
			a.confirmingDelete = false
			a.pendingDelete = ""
		}
		return a, nil
	}

	if a.pickerOpen {
		return a.handlePickerKey(msg)
	}

	if a.filterBuilder != nil {
		var cmd tea.Cmd
		a.filterBuilder, cmd = a.filterBuilder.Update(msg)
		return a, cmd
	}

	if a.state.ViewMode == models.LoginMode {
		return a.handleLoginKey(msg)
	}

	if a.formView != nil {
		var cmd tea.Cmd
		a.formView, cmd = a.formView.Update(msg)
		return a, cmd
	}

	switch key {
	case "q", "ctrl+c":
		if a.state.ViewMode == models.HelpMode {
			a.state.ViewMode = models.BrowseMode
			return a, nil
		}
		return a, tea.Quit
	case "?":
		if a.state.ViewMode == models.HelpMode {
			a.state.ViewMode = models.BrowseMode
		} else {
			a.state.ViewMode = models.HelpMode
		}
		return a, nil
	case "ctrl+j":
		a.openRawViewer()
		return a, nil
	}

	if a.state.ViewMode == models.HelpMode {
		if key == "esc" {
			a.state.ViewMode = models.BrowseMode
		}
		return a, nil
	}

	if a.state.ViewMode == models.DetailMode {
		return a.handleDetailKey(key)
	}

	switch key {
	case "tab":
		a.cycleFocus(1)
		return a, nil
	case "shift+tab":
		a.cycleFocus(-1)
		return a, nil
	case "L":
		return a, a.logout()
	case "r", "f5":
		return a, a.loadPage()
	}

	switch a.state.Focus {
	case models.FocusNav:
		var cmd tea.Cmd
		a.navView, cmd = a.navView.Update(msg)
		return a, cmd
	case models.FocusFilter:
		return a.handleDropdownKey(msg)
	default:
		return a.handleContentKey(msg)
	}
}

func (a *App) cycleFocus(delta int) {
	order := []models.FocusArea{models.FocusNav, models.FocusContent}
	if len(a.dropdownKeys) > 0 {
		order = append(order, models.FocusFilter)
	}
	current := 0
	for i, f := range order {
		if f == a.state.Focus {
			current = i
			break
		}
	}
	a.state.Focus = order[(current+delta+len(order))%len(order)]
}

func (a *App) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "backspace":
		a.state.ViewMode = models.BrowseMode
		a.detailRow = nil
	case "e":
		if a.detailRow != nil && a.doc != nil {
			return a, a.openForm(a.detailRow)
		}
	case "d":
		if a.detailRow != nil {
			return a.requestDelete(a.detailRow.Serial())
		}
	}
	return a, nil
}

func (a *App) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "left", "[":
		if cmd := a.pagination.Prev(); cmd != nil {
			return a, cmd
		}
	case "right", "]":
		if cmd := a.pagination.Next(); cmd != nil {
			return a, cmd
		}
	case "enter":
		if row := a.tableView.SelectedRecord(); row != nil {
			return a, a.loadDetail(row.Serial())
		}
	case "f":
		if a.doc != nil {
			fb := components.NewFilterBuilder(a.theme, a.target(), a.filters.Get(a.target()))
			fb.SetFields(a.doc.Fields)
			a.filterBuilder = fb
		}
	case "F":
		a.openPicker()
	case "ctrl+r":
		a.filters.Reset(a.target())
		return a, a.loadData(a.state.Scope, 1)
	case "n":
		if a.doc != nil {
			return a, a.openForm(nil)
		}
	case "e":
		if row := a.tableView.SelectedRecord(); row != nil && a.doc != nil {
			return a, a.openForm(row)
		}
	case "d":
		if row := a.tableView.SelectedRecord(); row != nil {
			return a.requestDelete(row.Serial())
		}
	case "c":
		a.copyCell()
	case "C":
		a.copyRow()
	case "x":
		return a, a.exportServer()
	case "ctrl+x":
		if cmd := a.exportLocal(); cmd != nil {
			a.inflight++
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) requestDelete(serial string) (tea.Model, tea.Cmd) {
	if serial == "" {
		return a, nil
	}
	if a.cfg.UI.ConfirmDeletes {
		a.confirmingDelete = true
		a.pendingDelete = serial
		return a, nil
	}
	return a, a.deleteRecord(serial)
}

func (a *App) openForm(row models.Row) tea.Cmd {
	fv := components.NewFormView(a.theme, a.doc.Fields, row)
	a.formView = fv
	a.state.ViewMode = models.FormMode

	var cmds []tea.Cmd
	for _, ff := range fv.Fields {
		if ff.Kind == components.InputSelect {
			cmds = append(cmds, a.loadForeignOptions(components.ForeignSearchMsg{
				FieldCode:    ff.Descriptor.FieldCode,
				ForeignTable: ff.Descriptor.ForeignTableName,
			}))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) openRawViewer() {
	result := a.results[a.target()]
	if result == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	viewer := components.NewRawViewer(a.state.Scope.ObjectCode+" response", payload, a.theme)
	viewer.Width = a.state.Width - 4
	viewer.Height = a.state.Height - 4
	a.rawViewer = viewer
}

func (a *App) copyCell() {
	row := a.tableView.SelectedRecord()
	if row == nil {
		return
	}
	columns := a.tableView.Columns()
	if len(columns) == 0 {
		return
	}
	value := row[columns[0].Field.FieldCode].Display()
	if err := clipboard.WriteAll(value); err != nil {
		a.logger.Warn("clipboard write failed", zap.Error(err))
		a.statusText = "Copy failed"
		return
	}
	a.statusText = "Copied cell"
}

func (a *App) copyRow() {
	row := a.tableView.SelectedRecord()
	if row == nil {
		return
	}
	record := make(map[string]any, len(row))
	for code, item := range row {
		record[code] = item.Value
	}
	text, err := rawjson.Compact(record)
	if err != nil {
		a.statusText = "Copy failed"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.logger.Warn("clipboard write failed", zap.Error(err))
		a.statusText = "Copy failed"
		return
	}
	a.statusText = "Copied row"
}

func (a *App) logout() tea.Cmd {
	if a.session != nil {
		if err := a.session.Clear(); err != nil {
			a.logger.Warn("failed to clear session", zap.Error(err))
		}
	}
	a.user = nil
	a.statusText = "Logged out"
	if a.loginRequired {
		a.state.ViewMode = models.LoginMode
	}
	return nil
}

func (a *App) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(a.dropdownKeys) == 0 {
		a.state.Focus = models.FocusContent
		return a, nil
	}
	if a.dropdownIdx >= len(a.dropdownKeys) {
		a.dropdownIdx = 0
	}
	dd := a.dropdowns[a.dropdownKeys[a.dropdownIdx]]

	if !dd.Open {
		switch msg.String() {
		case "left", "h":
			if a.dropdownIdx > 0 {
				a.dropdownIdx--
			}
			return a, nil
		case "right", "l":
			if a.dropdownIdx < len(a.dropdownKeys)-1 {
				a.dropdownIdx++
			}
			return a, nil
		}
	}

	_, cmd := dd.Update(msg)
	if opt, ok := dd.Selected(); ok {
		a.selected[dd.SourceTarget()] = opt.Label
	}
	return a, cmd
}

func (a *App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		if !a.loginRequired {
			a.state.ViewMode = models.BrowseMode
		}
		return a, nil
	case "tab", "down":
		a.setLoginFocus((a.loginFocus + 1) % 2)
		return a, nil
	case "shift+tab", "up":
		a.setLoginFocus((a.loginFocus + 1) % 2)
		return a, nil
	case "enter":
		if a.loginFocus == 0 {
			a.setLoginFocus(1)
			return a, nil
		}
		email := strings.TrimSpace(a.loginEmail.Value())
		password := a.loginPassword.Value()
		if email == "" || password == "" {
			a.loginNotice = "Email and password are required"
			return a, nil
		}
		if a.loginBusy {
			return a, nil
		}
		a.loginBusy = true
		a.loginNotice = ""
		return a, a.login(email, password)
	}

	var cmd tea.Cmd
	if a.loginFocus == 0 {
		a.loginEmail, cmd = a.loginEmail.Update(msg)
	} else {
		a.loginPassword, cmd = a.loginPassword.Update(msg)
	}
	return a, cmd
}

func (a *App) setLoginFocus(i int) {
	a.loginFocus = i
	if i == 0 {
		a.loginEmail.Focus()
		a.loginPassword.Blur()
	} else {
		a.loginEmail.Blur()
		a.loginPassword.Focus()
	}
}

func (a *App) openPicker() {
	if a.saved == nil {
		a.statusText = "Saved filters unavailable"
		return
	}
	a.pickerItems = a.saved.GetForTarget(a.target())
	a.pickerIndex = 0
	a.pickerNaming = false
	a.pickerOpen = true
}

func (a *App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.pickerNaming {
		switch key {
		case "esc":
			a.pickerNaming = false
		case "enter":
			name := strings.TrimSpace(a.pickerInput.Value())
			set := a.filters.Get(a.target())
			if _, err := a.saved.Add(name, a.target(), set); err != nil {
				a.statusText = err.Error()
			} else {
				a.statusText = "Filter saved"
				a.pickerItems = a.saved.GetForTarget(a.target())
			}
			a.pickerNaming = false
		default:
			var cmd tea.Cmd
			a.pickerInput, cmd = a.pickerInput.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	switch key {
	case "esc", "F":
		a.pickerOpen = false
	case "up", "k":
		if a.pickerIndex > 0 {
			a.pickerIndex--
		}
	case "down", "j":
		if a.pickerIndex < len(a.pickerItems)-1 {
			a.pickerIndex++
		}
	case "s":
		ti := textinputNew("filter name")
		a.pickerInput = ti
		a.pickerNaming = true
	case "d", "x":
		if a.pickerIndex < len(a.pickerItems) {
			if err := a.saved.Delete(a.pickerItems[a.pickerIndex].ID); err != nil {
				a.statusText = err.Error()
			}
			a.pickerItems = a.saved.GetForTarget(a.target())
			if a.pickerIndex >= len(a.pickerItems) && a.pickerIndex > 0 {
				a.pickerIndex--
			}
		}
	case "enter":
		if a.pickerIndex < len(a.pickerItems) {
			item := a.pickerItems[a.pickerIndex]
			set, err := item.Set()
			if err != nil {
				a.statusText = "Saved filter is corrupt"
				return a, nil
			}
			a.filters.Put(a.target(), set)
			_ = a.saved.RecordUsage(item.ID)
			a.pickerOpen = false
			return a, a.loadData(a.state.Scope, 1)
		}
	}
	return a, nil
}
