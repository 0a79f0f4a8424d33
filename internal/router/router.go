package router

import (
	"errors"
	"fmt"
)

type View string

const (
	ViewHome       View = "home"
	ViewBooking    View = "booking"
	ViewPayments   View = "payments"
	ViewIncentives View = "incentives"
	ViewMonitoring View = "monitoring"
	ViewFacilities View = "facilities"
	ViewTraining   View = "training"
	ViewAdmin      View = "admin"
)

var ErrUnknownView = errors.New("unknown view")

// Route - вид и секции, которые нужно перерисовать при переходе на него
type Route struct {
	View   View
	Redraw []string
}

// DefaultRoutes: переход на monitoring перерисовывает график
func DefaultRoutes() []Route {
	return []Route{
		{View: ViewHome},
		{View: ViewBooking},
		{View: ViewPayments},
		{View: ViewIncentives},
		{View: ViewMonitoring, Redraw: []string{"chart"}},
		{View: ViewFacilities},
		{View: ViewTraining},
		{View: ViewAdmin},
	}
}

type Router struct {
	routes  []Route
	current View
}

// New создает роутер в состоянии home. Без admin вид admin недоступен.
func New(admin bool, routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	r := &Router{current: ViewHome}
	for _, route := range routes {
		if route.View == ViewAdmin && !admin {
			continue
		}
		r.routes = append(r.routes, route)
	}
	return r
}

func (r *Router) Current() View {
	return r.current
}

// Switch делает видимым только view и возвращает секции для перерисовки
func (r *Router) Switch(view View) ([]string, error) {
	for _, route := range r.routes {
		if route.View == view {
			r.current = view
			return route.Redraw, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", view, ErrUnknownView)
}

// Visibility - признак видимости для каждого вида
func (r *Router) Visibility() map[View]bool {
	out := make(map[View]bool, len(r.routes))
	for _, route := range r.routes {
		out[route.View] = route.View == r.current
	}
	return out
}
