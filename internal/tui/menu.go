package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// LoadTimeout bounds one table load from the menu.
var LoadTimeout = 30 * time.Second

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one menu line. It opens Submenu, runs Action, or both are nil
// for an informational line.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

// Menu is one level of the table picker.
type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

// linkParents wires Parent pointers and points every "Back" item at its
// parent menu.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

// BuildMenu lists every registered table under its group.
func BuildMenu(opts Options) *Menu {
	root := &Menu{Title: "Tables"}

	for _, group := range core.Groups() {
		sub := &Menu{Title: group}
		for _, def := range core.ByGroup(group) {
			sub.Items = append(sub.Items, MenuItem{
				Label:  def.Info.Label,
				Action: func() tea.Cmd { return LoadTable(def, opts) },
			})
		}
		sub.Items = append(sub.Items, MenuItem{Label: "Back"})
		root.Items = append(root.Items, MenuItem{Label: group + " ->", Submenu: sub})
	}

	if len(root.Items) == 0 {
		root.Items = append(root.Items, MenuItem{Label: "No tables are registered"})
	}

	linkParents(root, nil)
	return root
}

/* ----------------------------------------
	LOADING
---------------------------------------- */

// Options are the table settings applied to every table opened in the
// viewer.
type Options struct {
	PageSize    int
	MaxRows     int
	SelectScope table.SelectScope
}

// LoadTable returns a command that loads def's records and builds its table.
func LoadTable(def core.TableDefinition, opts Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
		defer cancel()

		records, err := def.Source.Load(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrMsg{Err: fmt.Errorf("load %s timed out after %v", def.Info.Key, LoadTimeout)}
			}
			return ErrMsg{Err: fmt.Errorf("load %s: %w", def.Info.Key, err)}
		}

		cols, err := def.ColumnSet()
		if err != nil {
			return ErrMsg{Err: err}
		}

		pageSize := opts.PageSize
		if def.PageSize > 0 {
			pageSize = def.PageSize
		}
		if pageSize <= 0 {
			pageSize = table.DefaultPageSize
		}

		maxRows := opts.MaxRows
		if maxRows <= 0 {
			maxRows = table.DefaultMaxRows
		}

		tbl, err := table.NewTable(records, cols, def.KeyField,
			table.WithPageSize(pageSize),
			table.WithMaxRows(maxRows),
			table.WithSelectScope(opts.SelectScope),
			table.WithInitialSort(def.DefaultSort),
		)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("load %s: %w", def.Info.Key, err)}
		}
		return LoadedMsg{Title: def.Info.Label, Table: tbl}
	}
}
