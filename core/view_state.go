package core

import (
	"net/url"
	"strings"
)

// Overlay is the one piece of landing-page chrome that may be open at a time.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayMenu
	OverlaySearch
	OverlayDrawer
	OverlaySignIn
)

var overlayNames = map[Overlay]string{
	OverlayNone:   "",
	OverlayMenu:   "menu",
	OverlaySearch: "search",
	OverlayDrawer: "drawer",
	OverlaySignIn: "signin",
}

func (o Overlay) String() string { return overlayNames[o] }

// ViewState is the landing page's UI state. Overlays are mutually exclusive;
// Menu is set only while OverlayMenu is open.
type ViewState struct {
	Overlay Overlay
	Menu    string
}

// ParseViewState reads ?view=<overlay>&menu=<id>. Unknown menus and overlays close everything.
func ParseViewState(q url.Values, cat *Catalog) ViewState {
	view := strings.ToLower(strings.TrimSpace(q.Get("view")))
	menu := strings.TrimSpace(q.Get("menu"))
	if view == "" && menu != "" {
		view = overlayNames[OverlayMenu]
	}
	switch view {
	case "menu":
		if cat == nil || cat.Menu(menu) == nil {
			return ViewState{}
		}
		return ViewState{Overlay: OverlayMenu, Menu: menu}
	case "search":
		return ViewState{Overlay: OverlaySearch}
	case "drawer":
		return ViewState{Overlay: OverlayDrawer}
	case "signin":
		return ViewState{Overlay: OverlaySignIn}
	default:
		return ViewState{}
	}
}

// Toggle opens o, or closes it when it is already open. Opening one overlay closes any other.
// Mega-menus need an id and go through ToggleMenu; Toggle(OverlayMenu) closes everything.
func (v ViewState) Toggle(o Overlay) ViewState {
	if o == OverlayMenu || o == OverlayNone || v.Overlay == o {
		return ViewState{}
	}
	return ViewState{Overlay: o}
}

// ToggleMenu opens the named mega-menu, or closes it when it is the one already open.
func (v ViewState) ToggleMenu(id string) ViewState {
	if id == "" || (v.Overlay == OverlayMenu && v.Menu == id) {
		return ViewState{}
	}
	return ViewState{Overlay: OverlayMenu, Menu: id}
}

// Close returns the state with nothing open.
func (v ViewState) Close() ViewState { return ViewState{} }

func (v ViewState) IsOpen(o Overlay) bool { return v.Overlay == o }

// MenuOpen reports whether the mega-menu id is the open one.
func (v ViewState) MenuOpen(id string) bool {
	return v.Overlay == OverlayMenu && v.Menu == id
}

// Query encodes the state as the query string that reproduces it.
func (v ViewState) Query() string {
	q := url.Values{}
	switch v.Overlay {
	case OverlayNone:
		return ""
	case OverlayMenu:
		q.Set("menu", v.Menu)
	default:
		q.Set("view", v.Overlay.String())
	}
	return "?" + q.Encode()
}

// ToggleHref is the link that toggles o from the current state.
func (v ViewState) ToggleHref(o Overlay) string {
	return "/" + v.Toggle(o).Query()
}

// MenuHref is the link that toggles mega-menu id from the current state.
func (v ViewState) MenuHref(id string) string {
	return "/" + v.ToggleMenu(id).Query()
}
