package waste

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
	interf "github.com/Anit-Biswas/Waste-management-website/internal/interfaces"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/Anit-Biswas/Waste-management-website/internal/render"
	"github.com/Anit-Biswas/Waste-management-website/internal/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// 1 балл за каждые 100 оплаты, кроме штрафов
const rewardRate = 100

type WasteService struct {
	mu     sync.Mutex // операции read-modify-write не пересекаются
	store  *db.Store
	events interf.EventPublisher
	ids    *IDGenerator
	now    func() time.Time
	logger *zap.Logger
	tracer trace.Tracer
}

type Option func(*WasteService)

// WithClock подменяет часы (тесты)
func WithClock(now func() time.Time) Option {
	return func(s *WasteService) {
		s.now = now
		s.ids = NewIDGenerator(now)
	}
}

func NewWasteService(store *db.Store, events interf.EventPublisher, logger *zap.Logger, opts ...Option) *WasteService {
	s := &WasteService{
		store:  store,
		events: events,
		ids:    NewIDGenerator(time.Now),
		now:    time.Now,
		logger: logger,
		tracer: otel.Tracer("waste"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type LoginResult struct {
	User      model.User
	AdminMenu bool
	View      router.View
	Redraw    []render.Section
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, msg)
}

func (s *WasteService) Store() *db.Store {
	return s.store
}

func (s *WasteService) Now() time.Time {
	return s.now()
}

// log
func (s *WasteService) Log(op string, err error) {
	s.logger.Error("Waste service",
		zap.String("service", op),
		zap.Error(err),
	)
}

func (s *WasteService) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, op)
}

// finish: метрики, трейс, лог неожиданных ошибок
func (s *WasteService) finish(op string, span trace.Span, err error) {
	observe(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, model.Message(err))
		switch {
		case errors.Is(err, model.ErrValidation),
			errors.Is(err, model.ErrEmailExists),
			errors.Is(err, model.ErrInvalidCredentials),
			errors.Is(err, model.ErrUnauthenticated):
		default:
			s.Log(op, err)
		}
	}
	span.End()
}

// Регистрация
func (s *WasteService) Register(ctx context.Context, name, email, role, secret string) (user model.User, err error) {
	ctx, span := s.start(ctx, "Register")
	defer func() { s.finish("Register", span, err) }()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || secret == "" {
		return user, invalid("Fill all fields")
	}
	r := model.Role(role)
	switch r {
	case "":
		r = model.RoleUser
	case model.RoleUser, model.RoleAdmin:
	default:
		return user, invalid("Choose a role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := db.Read(ctx, s.store, model.KeyUsers, []model.User{})
	for _, u := range users {
		if u.Email == email {
			return user, model.ErrEmailExists
		}
	}
	user = model.User{
		ID:    s.ids.Next(),
		Name:  name,
		Email: email,
		Role:  r,
		Pass:  secret,
	}
	users = append(users, user)
	err = s.store.Write(ctx, model.KeyUsers, users)
	if err != nil {
		return model.User{}, err
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, nil
}

// Вход: точное совпадение email и пароля
func (s *WasteService) Login(ctx context.Context, sess *Session, email, secret string) (result LoginResult, err error) {
	ctx, span := s.start(ctx, "Login")
	defer func() { s.finish("Login", span, err) }()

	email = strings.TrimSpace(email)
	secret = strings.TrimSpace(secret)

	s.mu.Lock()
	defer s.mu.Unlock()

	users := db.Read(ctx, s.store, model.KeyUsers, []model.User{})
	for _, u := range users {
		if u.Email == email && u.Pass == secret {
			sess.SetUser(&u)
			return LoginResult{
				User:      u,
				AdminMenu: u.Role == model.RoleAdmin,
				View:      router.ViewHome,
				Redraw:    render.Sections,
			}, nil
		}
	}
	return result, model.ErrInvalidCredentials
}

func (s *WasteService) Logout(sess *Session) {
	sess.SetUser(nil)
}

// Заявка на вывоз
func (s *WasteService) AddBooking(ctx context.Context, sess *Session, date, wasteType, freq, addr string) (redraw []render.Section, err error) {
	ctx, span := s.start(ctx, "AddBooking")
	defer func() { s.finish("AddBooking", span, err) }()

	user, err := sess.principal()
	if err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	addr = strings.TrimSpace(addr)
	if date == "" || addr == "" {
		return nil, invalid("Select date and enter address")
	}
	if _, perr := time.Parse(model.DateLayout, date); perr != nil {
		return nil, invalid("Select a valid date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookings := db.Read(ctx, s.store, model.KeyBookings, []model.Booking{})
	bookings = append(bookings, model.Booking{
		ID:     s.ids.Next(),
		UID:    user.ID,
		Date:   date,
		Type:   wasteType,
		Freq:   freq,
		Addr:   addr,
		Status: model.StatusConfirmed,
	})
	err = s.store.Write(ctx, model.KeyBookings, bookings)
	if err != nil {
		return nil, err
	}
	err = s.notify(ctx, user.ID, fmt.Sprintf("Booking confirmed for %s on %s", wasteType, render.FormatDateString(date)))
	if err != nil {
		return nil, err
	}
	return []render.Section{render.SectionBookings, render.SectionKPI, render.SectionNotifications}, nil
}

// Оплата. Баллы начисляются за все, кроме штрафов.
func (s *WasteService) Pay(ctx context.Context, sess *Session, purpose string, amount string) (redraw []render.Section, err error) {
	ctx, span := s.start(ctx, "Pay")
	defer func() { s.finish("Pay", span, err) }()

	user, err := sess.principal()
	if err != nil {
		return nil, err
	}
	value, perr := strconv.Atoi(strings.TrimSpace(amount))
	if perr != nil || value <= 0 {
		return nil, invalid("Enter amount")
	}
	span.SetAttributes(attribute.String("purpose", purpose), attribute.Int("amount", value))

	s.mu.Lock()
	defer s.mu.Unlock()

	users := db.Read(ctx, s.store, model.KeyUsers, []model.User{})
	idx := -1
	for i := range users {
		if users[i].ID == user.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("user %d %w", user.ID, model.ErrNotFound)
	}

	now := s.now()
	tx := db.Read(ctx, s.store, model.KeyTransactions, []model.Transaction{})
	tx = append(tx, model.Transaction{
		ID:      s.ids.Next(),
		UID:     user.ID,
		Purpose: purpose,
		Amount:  value,
		TS:      now.UnixMilli(),
	})

	// сначала баллы, затем транзакция; при ошибке баллы откатываются
	credit := purpose != model.PurposeFine
	points := value / rewardRate
	if credit {
		prev := users[idx].Rewards
		users[idx].Rewards += points
		err = s.store.Write(ctx, model.KeyUsers, users)
		if err != nil {
			return nil, err
		}
		err = s.store.Write(ctx, model.KeyTransactions, tx)
		if err != nil {
			users[idx].Rewards = prev
			if rerr := s.store.Write(ctx, model.KeyUsers, users); rerr != nil {
				err = errors.Join(err, fmt.Errorf("restore rewards: %w", rerr))
			}
			return nil, err
		}
	} else {
		err = s.store.Write(ctx, model.KeyTransactions, tx)
		if err != nil {
			return nil, err
		}
	}
	paymentsAmountTotal.WithLabelValues(purpose).Add(float64(value))

	var text string
	if credit {
		rewardPointsTotal.Add(float64(points))
		sess.SetUser(&users[idx])
		text = fmt.Sprintf("Payment ₹%d successful. Rewards updated: %d pts", value, users[idx].Rewards)
	} else {
		text = fmt.Sprintf("Fine of ₹%d paid.", value)
	}
	err = s.notify(ctx, user.ID, text)
	if err != nil {
		return nil, err
	}
	return []render.Section{
		render.SectionTransactions,
		render.SectionKPI,
		render.SectionIncentives,
		render.SectionProfile,
		render.SectionNotifications,
	}, nil
}

// Запись о сборе
func (s *WasteService) Capture(ctx context.Context, sess *Session, date, wasteType, kg string) (redraw []render.Section, err error) {
	ctx, span := s.start(ctx, "Capture")
	defer func() { s.finish("Capture", span, err) }()

	user, err := sess.principal()
	if err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	weight, perr := strconv.ParseFloat(strings.TrimSpace(kg), 64)
	if date == "" || perr != nil || weight <= 0 || math.IsInf(weight, 0) || math.IsNaN(weight) {
		return nil, invalid("Enter date and weight")
	}
	if _, perr := time.Parse(model.DateLayout, date); perr != nil {
		return nil, invalid("Select a valid date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caps := db.Read(ctx, s.store, model.KeyCaptures, []model.Capture{})
	caps = append(caps, model.Capture{
		ID:   s.ids.Next(),
		UID:  user.ID,
		Date: date,
		Type: wasteType,
		Kg:   weight,
	})
	err = s.store.Write(ctx, model.KeyCaptures, caps)
	if err != nil {
		return nil, err
	}
	capturedKgTotal.Add(weight)

	text := fmt.Sprintf("Pickup recorded: %s %skg on %s",
		wasteType, strconv.FormatFloat(weight, 'f', -1, 64), render.FormatDateString(date))
	err = s.notify(ctx, user.ID, text)
	if err != nil {
		return nil, err
	}
	return []render.Section{render.SectionCaptures, render.SectionChart, render.SectionNotifications}, nil
}

// Обращение в поддержку
func (s *WasteService) RaiseTicket(ctx context.Context, sess *Session, text string) (redraw []render.Section, err error) {
	ctx, span := s.start(ctx, "RaiseTicket")
	defer func() { s.finish("RaiseTicket", span, err) }()

	user, err := sess.principal()
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Enter a message")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := model.Ticket{
		ID:   s.ids.Next(),
		UID:  user.ID,
		Text: text,
		TS:   s.now().UnixMilli(),
	}
	tickets := db.Read(ctx, s.store, model.KeyTickets, []model.Ticket{})
	tickets = append(tickets, ticket)
	err = s.store.Write(ctx, model.KeyTickets, tickets)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, model.Event{Kind: model.EventTicket, ID: ticket.ID, UID: user.ID, Text: text, TS: ticket.TS})

	err = s.notify(ctx, user.ID, "Support ticket raised")
	if err != nil {
		return nil, err
	}
	return []render.Section{render.SectionFacilities, render.SectionNotifications}, nil
}

// Завершение модуля: флаг ставится всегда, уведомление на каждый вызов
func (s *WasteService) CompleteModule(ctx context.Context, sess *Session, id int64) (redraw []render.Section, err error) {
	ctx, span := s.start(ctx, "CompleteModule")
	defer func() { s.finish("CompleteModule", span, err) }()

	user, err := sess.principal()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := db.Read(ctx, s.store, model.KeyTraining, []model.TrainingModule{})
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("training module %d %w", id, model.ErrNotFound)
	}
	list[idx].Done = true
	err = s.store.Write(ctx, model.KeyTraining, list)
	if err != nil {
		return nil, err
	}
	err = s.notify(ctx, user.ID, "Training completed: "+list[idx].Title)
	if err != nil {
		return nil, err
	}
	return []render.Section{render.SectionTraining, render.SectionNotifications}, nil
}

// Render - модели представления для секций текущего пользователя
func (s *WasteService) Render(ctx context.Context, sess *Session, sections ...render.Section) (map[render.Section]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := sess.principal()
	if err != nil {
		return nil, err
	}
	now := s.now()
	if len(sections) == 0 {
		return render.All(ctx, s.store, user, now), nil
	}
	views := make(map[render.Section]any, len(sections))
	for _, section := range sections {
		v, err := render.Render(ctx, s.store, user, now, section)
		if err != nil {
			return nil, err
		}
		views[section] = v
	}
	return views, nil
}

// ReadCollection - коллекция целиком; отсутствующая отдается как []
func (s *WasteService) ReadCollection(ctx context.Context, sess *Session, key string) (json.RawMessage, error) {
	if _, err := sess.principal(); err != nil {
		return nil, err
	}
	if !model.IsCollection(key) {
		return nil, fmt.Errorf("collection %q %w", key, model.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.store.ReadRaw(ctx, key)
	if !ok {
		return json.RawMessage("[]"), nil
	}
	return raw, nil
}

// WriteCollection заменяет коллекцию целиком, только для admin
func (s *WasteService) WriteCollection(ctx context.Context, sess *Session, key string, raw json.RawMessage) (err error) {
	ctx, span := s.start(ctx, "WriteCollection")
	defer func() { s.finish("WriteCollection", span, err) }()

	user, err := sess.principal()
	if err != nil {
		return err
	}
	if user.Role != model.RoleAdmin {
		return model.ErrUnauthenticated
	}
	if !model.IsCollection(key) {
		return fmt.Errorf("collection %q %w", key, model.ErrNotFound)
	}
	if !json.Valid(raw) {
		return invalid("Collection is not valid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Write(ctx, key, raw)
}

// notify вызывается под s.mu
func (s *WasteService) notify(ctx context.Context, uid int64, text string) error {
	n := model.Notification{
		ID:   s.ids.Next(),
		UID:  uid,
		Text: text,
		TS:   s.now().UnixMilli(),
	}
	list := db.Read(ctx, s.store, model.KeyNotifications, []model.Notification{})
	list = append(list, n)
	err := s.store.Write(ctx, model.KeyNotifications, list)
	if err != nil {
		return err
	}
	s.publish(ctx, model.Event{Kind: model.EventNotification, ID: n.ID, UID: uid, Text: text, TS: n.TS})
	return nil
}

// publish: ошибки внешних получателей только логируются
func (s *WasteService) publish(ctx context.Context, event model.Event) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, event)
	if err != nil {
		s.logger.Warn("publish event",
			zap.String("kind", event.Kind),
			zap.Int64("id", event.ID),
			zap.Error(err),
		)
	}
}
