// Package navigation holds the desk's view state: which top-level view is
// shown and, for each order list, which item (if any) is drilled into.
//
// State is a value. Every transition returns a new State and leaves the
// receiver untouched, so the host can keep it in its model and replace it
// wholesale on each event.
package navigation

import (
	"fmt"
	"strings"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

// TopView is the top-level section of the desk.
type TopView int

const (
	StockView   TopView = iota // Donated stock (outside this module)
	OrdersView                 // Active orders
	HistoryView                // Completed and cancelled orders
)

// TopViews lists the views in tab order.
var TopViews = []TopView{StockView, OrdersView, HistoryView}

func (v TopView) String() string {
	switch v {
	case StockView:
		return "stock"
	case OrdersView:
		return "orders"
	case HistoryView:
		return "history"
	}
	return fmt.Sprintf("TopView(%d)", int(v))
}

// Next returns the tab after v, wrapping around.
func (v TopView) Next() TopView {
	return TopViews[(int(v)+1)%len(TopViews)]
}

// ParseTopView parses a view name as printed by String.
func ParseTopView(s string) (TopView, error) {
	for _, v := range TopViews {
		if strings.EqualFold(strings.TrimSpace(s), v.String()) {
			return v, nil
		}
	}
	return StockView, fmt.Errorf("unknown view %q", s)
}

// List identifies one of the two order lists that own a selection slot.
type List int

const (
	OrdersList List = iota
	HistoryList
)

func (l List) String() string {
	if l == HistoryList {
		return "history"
	}
	return "orders"
}

// View returns the top view that renders l.
func (l List) View() TopView {
	if l == HistoryList {
		return HistoryView
	}
	return OrdersView
}

// ListFor returns the list rendered by a top view. Stock has none.
func ListFor(v TopView) (List, bool) {
	switch v {
	case OrdersView:
		return OrdersList, true
	case HistoryView:
		return HistoryList, true
	}
	return OrdersList, false
}

// State is the navigation state. The two selection slots are independent and
// survive top-view switches.
type State struct {
	Top             TopView
	ordersSelected  *orders.OrderView
	historySelected *orders.OrderView
}

// Initial returns the state the desk starts in.
func Initial() State {
	return State{Top: StockView}
}

// SelectTopView switches the visible section without touching selections.
func (s State) SelectTopView(v TopView) State {
	logging.NavigationDebug("top view %s -> %s", s.Top, v)
	s.Top = v
	return s
}

// OpenDetail records item as the selection of list, replacing any previous one.
func (s State) OpenDetail(list List, item orders.OrderView) State {
	logging.NavigationDebug("open %s detail %s", list, item.ID)
	sel := item
	if list == HistoryList {
		s.historySelected = &sel
	} else {
		s.ordersSelected = &sel
	}
	return s
}

// CloseDetail clears the selection of list. Closing an empty slot is a no-op.
func (s State) CloseDetail(list List) State {
	logging.NavigationDebug("close %s detail", list)
	if list == HistoryList {
		s.historySelected = nil
	} else {
		s.ordersSelected = nil
	}
	return s
}

// Selected returns the item held by list's slot.
func (s State) Selected(list List) (orders.OrderView, bool) {
	p := s.ordersSelected
	if list == HistoryList {
		p = s.historySelected
	}
	if p == nil {
		return orders.OrderView{}, false
	}
	return *p, true
}

// ShowingDetail reports whether list renders its detail instead of the list.
func (s State) ShowingDetail(list List) bool {
	_, ok := s.Selected(list)
	return ok
}

// Mode says whether a list section shows the list or a single detail.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "detail"
	}
	return "list"
}

// Visible describes what is on screen.
type Visible struct {
	Top  TopView
	Mode Mode
	Item *orders.OrderView // non-nil iff Mode == ModeDetail
}

// Visible resolves the state to exactly one rendered surface. For the stock
// view Mode is always ModeList.
func (s State) Visible() Visible {
	out := Visible{Top: s.Top, Mode: ModeList}
	list, ok := ListFor(s.Top)
	if !ok {
		return out
	}
	if item, ok := s.Selected(list); ok {
		out.Mode = ModeDetail
		out.Item = &item
	}
	return out
}
