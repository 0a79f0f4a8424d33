package render

import (
	"context"

	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
)

// геометрия графика
const (
	ChartBars      = 10
	chartBaseline  = 150.0
	chartMaxHeight = 120.0
	chartStartX    = 40.0
	chartBarWidth  = 20.0
	chartGap       = 10.0
	chartAxisX     = 30.0
	chartAxisTop   = 10.0
	chartAxisRight = 320.0
)

type Bar struct {
	Kg     float64 `json:"kg"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ChartView struct {
	Scale float64 `json:"scale"`
	Bars  []Bar   `json:"bars"`
	// оси
	AxisX     float64 `json:"axisX"`
	AxisTop   float64 `json:"axisTop"`
	AxisRight float64 `json:"axisRight"`
	Baseline  float64 `json:"baseline"`
}

// Chart - столбцы по последним 10 сборам пользователя, высота пропорциональна максимуму окна
func Chart(ctx context.Context, store *db.Store, user model.User) ChartView {
	data := lastN(userCaptures(ctx, store, user.ID), ChartBars)

	scale := 1.0
	for _, c := range data {
		if c.Kg > scale {
			scale = c.Kg
		}
	}

	view := ChartView{
		Scale:     scale,
		Bars:      make([]Bar, 0, len(data)),
		AxisX:     chartAxisX,
		AxisTop:   chartAxisTop,
		AxisRight: chartAxisRight,
		Baseline:  chartBaseline,
	}
	x := chartStartX
	for _, c := range data {
		h := c.Kg / scale * chartMaxHeight
		view.Bars = append(view.Bars, Bar{
			Kg:     c.Kg,
			X:      x,
			Y:      chartBaseline - h,
			Width:  chartBarWidth,
			Height: h,
		})
		x += chartBarWidth + chartGap
	}
	return view
}
