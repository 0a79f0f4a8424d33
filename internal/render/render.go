package render

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
)

type Section string

const (
	SectionKPI           Section = "kpi"
	SectionProfile       Section = "profile"
	SectionNotifications Section = "notifications"
	SectionBookings      Section = "bookings"
	SectionTransactions  Section = "transactions"
	SectionIncentives    Section = "incentives"
	SectionCaptures      Section = "captures"
	SectionChart         Section = "chart"
	SectionFacilities    Section = "facilities"
	SectionTraining      Section = "training"
	SectionAdmin         Section = "admin"
)

// Порядок секций при полной перерисовке
var Sections = []Section{
	SectionKPI,
	SectionProfile,
	SectionNotifications,
	SectionBookings,
	SectionTransactions,
	SectionIncentives,
	SectionCaptures,
	SectionChart,
	SectionFacilities,
	SectionTraining,
	SectionAdmin,
}

var ErrUnknownSection = fmt.Errorf("unknown section %w", model.ErrNotFound)

const (
	notificationsLimit = 8
	kpiTxWindow        = 30
	placeholder        = "—"
)

func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownSection)
}

// Render - модель одной секции
func Render(ctx context.Context, store *db.Store, user model.User, now time.Time, section Section) (any, error) {
	switch section {
	case SectionKPI:
		return KPI(ctx, store, user, now), nil
	case SectionProfile:
		return Profile(user), nil
	case SectionNotifications:
		return Notifications(ctx, store, user, now), nil
	case SectionBookings:
		return Bookings(ctx, store, user), nil
	case SectionTransactions:
		return Transactions(ctx, store, user, now), nil
	case SectionIncentives:
		return Incentives(ctx, store, user, now), nil
	case SectionCaptures:
		return Captures(ctx, store, user), nil
	case SectionChart:
		return Chart(ctx, store, user), nil
	case SectionFacilities:
		return Facilities(ctx, store, user, now), nil
	case SectionTraining:
		return Training(ctx, store), nil
	case SectionAdmin:
		return Admin(ctx, store, user), nil
	}
	return nil, fmt.Errorf("%q: %w", section, ErrUnknownSection)
}

// All - все секции пользователя
func All(ctx context.Context, store *db.Store, user model.User, now time.Time) map[Section]any {
	views := make(map[Section]any, len(Sections))
	for _, s := range Sections {
		v, _ := Render(ctx, store, user, now, s)
		views[s] = v
	}
	return views
}

type KPIView struct {
	Upcoming     int    `json:"upcoming"`
	NextDate     string `json:"nextDate"`
	Rewards      int    `json:"rewards"`
	Transactions int    `json:"transactions"`
	Fines        int    `json:"fines"`
	FinesLabel   string `json:"finesLabel"`
}

func KPI(ctx context.Context, store *db.Store, user model.User, now time.Time) KPIView {
	bookings := userBookings(ctx, store, user.ID)
	tx := userTransactions(ctx, store, user.ID)

	today := startOfDay(now)
	var upcoming []time.Time
	for _, b := range bookings {
		d, err := time.ParseInLocation(model.DateLayout, b.Date, now.Location())
		if err != nil {
			continue
		}
		if !d.Before(today) {
			upcoming = append(upcoming, d)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Before(upcoming[j]) })

	view := KPIView{
		Upcoming:     len(upcoming),
		NextDate:     placeholder,
		Rewards:      user.Rewards,
		Transactions: min(len(tx), kpiTxWindow),
		Fines:        finesTotal(tx),
	}
	if len(upcoming) > 0 {
		view.NextDate = formatDate(upcoming[0])
	}
	view.FinesLabel = "No fines"
	if view.Fines > 0 {
		view.FinesLabel = rupees(view.Fines) + " in fines"
	}
	return view
}

type ProfileView struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
	Rewards int        `json:"rewards"`
}

func Profile(user model.User) ProfileView {
	return ProfileView{user.Name, user.Email, user.Role, user.Rewards}
}

type NotificationItem struct {
	Text string `json:"text"`
	When string `json:"when"`
}

type NotificationsView struct {
	Items []NotificationItem `json:"items"`
}

// Notifications - последние 8 уведомлений пользователя, новые сверху
func Notifications(ctx context.Context, store *db.Store, user model.User, now time.Time) NotificationsView {
	all := db.Read(ctx, store, model.KeyNotifications, []model.Notification{})
	var own []model.Notification
	for _, n := range all {
		if n.UID == user.ID {
			own = append(own, n)
		}
	}
	own = lastN(own, notificationsLimit)

	view := NotificationsView{Items: make([]NotificationItem, 0, len(own))}
	for i := len(own) - 1; i >= 0; i-- {
		view.Items = append(view.Items, NotificationItem{own[i].Text, formatTS(own[i].TS, now)})
	}
	return view
}

type BookingRow struct {
	Date   string `json:"date"`
	Type   string `json:"type"`
	Freq   string `json:"freq"`
	Addr   string `json:"addr"`
	Status string `json:"status"`
}

type BookingsView struct {
	Rows []BookingRow `json:"rows"`
}

func Bookings(ctx context.Context, store *db.Store, user model.User) BookingsView {
	list := userBookings(ctx, store, user.ID)
	view := BookingsView{Rows: make([]BookingRow, 0, len(list))}
	for i := len(list) - 1; i >= 0; i-- {
		b := list[i]
		view.Rows = append(view.Rows, BookingRow{formatDateString(b.Date), b.Type, b.Freq, b.Addr, b.Status})
	}
	return view
}

type TransactionRow struct {
	When    string `json:"when"`
	Purpose string `json:"purpose"`
	Amount  string `json:"amount"`
}

type TransactionsView struct {
	Rows []TransactionRow `json:"rows"`
}

func Transactions(ctx context.Context, store *db.Store, user model.User, now time.Time) TransactionsView {
	list := userTransactions(ctx, store, user.ID)
	view := TransactionsView{Rows: make([]TransactionRow, 0, len(list))}
	for i := len(list) - 1; i >= 0; i-- {
		t := list[i]
		view.Rows = append(view.Rows, TransactionRow{formatTS(t.TS, now), t.Purpose, rupees(t.Amount)})
	}
	return view
}

type FineRow struct {
	When   string `json:"when"`
	Amount string `json:"amount"`
}

type IncentivesView struct {
	Fines  []FineRow `json:"fines"`
	Points int       `json:"points"`
}

func Incentives(ctx context.Context, store *db.Store, user model.User, now time.Time) IncentivesView {
	view := IncentivesView{Fines: []FineRow{}, Points: user.Rewards}
	for _, t := range userTransactions(ctx, store, user.ID) {
		if t.Purpose == model.PurposeFine {
			view.Fines = append(view.Fines, FineRow{formatTS(t.TS, now), rupees(t.Amount)})
		}
	}
	return view
}

type CaptureRow struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Kg   string `json:"kg"`
}

type CapturesView struct {
	Rows []CaptureRow `json:"rows"`
}

func Captures(ctx context.Context, store *db.Store, user model.User) CapturesView {
	list := userCaptures(ctx, store, user.ID)
	view := CapturesView{Rows: make([]CaptureRow, 0, len(list))}
	for i := len(list) - 1; i >= 0; i-- {
		c := list[i]
		view.Rows = append(view.Rows, CaptureRow{formatDateString(c.Date), c.Type, formatKg(c.Kg) + " kg"})
	}
	return view
}

type TicketRow struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	When string `json:"when"`
}

type FacilitiesView struct {
	Facilities []model.Facility `json:"facilities"`
	Tickets    []TicketRow      `json:"tickets"`
}

func Facilities(ctx context.Context, store *db.Store, user model.User, now time.Time) FacilitiesView {
	view := FacilitiesView{
		Facilities: db.Read(ctx, store, model.KeyFacilities, []model.Facility{}),
		Tickets:    []TicketRow{},
	}
	tickets := db.Read(ctx, store, model.KeyTickets, []model.Ticket{})
	for i := len(tickets) - 1; i >= 0; i-- {
		t := tickets[i]
		if t.UID == user.ID {
			view.Tickets = append(view.Tickets, TicketRow{t.ID, t.Text, formatTS(t.TS, now)})
		}
	}
	return view
}

type ModuleRow struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Mins   int    `json:"mins"`
	Done   bool   `json:"done"`
	Action string `json:"action"`
}

type TrainingView struct {
	Modules      []ModuleRow `json:"modules"`
	Certificates []string    `json:"certificates"`
}

func Training(ctx context.Context, store *db.Store) TrainingView {
	list := db.Read(ctx, store, model.KeyTraining, []model.TrainingModule{})
	view := TrainingView{Modules: make([]ModuleRow, 0, len(list)), Certificates: []string{}}
	for _, m := range list {
		action := "Start"
		if m.Done {
			action = "Completed"
			view.Certificates = append(view.Certificates, m.Title+".pdf")
		}
		view.Modules = append(view.Modules, ModuleRow{m.ID, m.Title, m.Mins, m.Done, action})
	}
	return view
}

type UserRow struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
	Rewards int        `json:"rewards"`
}

type AdminView struct {
	Allowed     bool      `json:"allowed"`
	Message     string    `json:"message,omitempty"`
	Users       []UserRow `json:"users,omitempty"`
	TotalUsers  int       `json:"totalUsers"`
	Bookings    int       `json:"bookings"`
	Collections int       `json:"collections"`
	Payments    int       `json:"payments"`
	Reports     []string  `json:"reports,omitempty"`
}

// Admin - сводка по всем пользователям, только для роли admin
func Admin(ctx context.Context, store *db.Store, user model.User) AdminView {
	if user.Role != model.RoleAdmin {
		return AdminView{Message: "Login as Admin to see analytics."}
	}
	users := db.Read(ctx, store, model.KeyUsers, []model.User{})
	view := AdminView{
		Allowed:     true,
		Users:       make([]UserRow, 0, len(users)),
		TotalUsers:  len(users),
		Bookings:    len(db.Read(ctx, store, model.KeyBookings, []model.Booking{})),
		Collections: len(db.Read(ctx, store, model.KeyCaptures, []model.Capture{})),
		Reports:     []string{"Reports exported (mock)", "Community drives: 4", "Ward coverage: 91%"},
	}
	for _, u := range users {
		view.Users = append(view.Users, UserRow{u.Name, u.Email, u.Role, u.Rewards})
	}
	for _, t := range db.Read(ctx, store, model.KeyTransactions, []model.Transaction{}) {
		view.Payments += t.Amount
	}
	return view
}

func userBookings(ctx context.Context, store *db.Store, uid int64) []model.Booking {
	var out []model.Booking
	for _, b := range db.Read(ctx, store, model.KeyBookings, []model.Booking{}) {
		if b.UID == uid {
			out = append(out, b)
		}
	}
	return out
}

func userTransactions(ctx context.Context, store *db.Store, uid int64) []model.Transaction {
	var out []model.Transaction
	for _, t := range db.Read(ctx, store, model.KeyTransactions, []model.Transaction{}) {
		if t.UID == uid {
			out = append(out, t)
		}
	}
	return out
}

func userCaptures(ctx context.Context, store *db.Store, uid int64) []model.Capture {
	var out []model.Capture
	for _, c := range db.Read(ctx, store, model.KeyCaptures, []model.Capture{}) {
		if c.UID == uid {
			out = append(out, c)
		}
	}
	return out
}

func finesTotal(tx []model.Transaction) int {
	var total int
	for _, t := range tx {
		if t.Purpose == model.PurposeFine {
			total += t.Amount
		}
	}
	return total
}

func lastN[T any](list []T, n int) []T {
	if len(list) > n {
		return list[len(list)-n:]
	}
	return list
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatDateString форматирует дату YYYY-MM-DD; нераспознанную возвращает как есть
func FormatDateString(s string) string {
	return formatDateString(s)
}

func formatDateString(s string) string {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return s
	}
	return formatDate(d)
}

func formatTS(ms int64, now time.Time) string {
	return time.UnixMilli(ms).In(now.Location()).Format("02 Jan 2006 15:04")
}

func formatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}

func rupees(amount int) string {
	return "₹" + strconv.Itoa(amount)
}
