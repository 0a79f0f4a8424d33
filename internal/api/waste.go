package waste

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/Anit-Biswas/Waste-management-website/internal/render"
	"github.com/Anit-Biswas/Waste-management-website/internal/router"
	service "github.com/Anit-Biswas/Waste-management-website/internal/services"
	"github.com/Anit-Biswas/Waste-management-website/internal/validate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxBody = 1 << 20

type WasteHandler struct {
	router   *mux.Router
	serv     *service.WasteService
	sessions *Sessions
	logger   *zap.Logger
}

// Header - шапка страницы для текущего пользователя
type Header struct {
	Name    string     `json:"name"`
	Role    model.Role `json:"role"`
	Rewards int        `json:"rewards"`
}

type Response struct {
	Message   string               `json:"message,omitempty"`
	Header    *Header              `json:"header,omitempty"`
	AdminMenu bool                 `json:"adminMenu,omitempty"`
	View      router.View          `json:"view,omitempty"`
	Views     map[router.View]bool `json:"views,omitempty"`
	Sections  map[string]string    `json:"sections,omitempty"`
	Data      map[string]any       `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BookingRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Freq string `json:"freq"`
	Addr string `json:"addr"`
}

type PaymentRequest struct {
	Purpose string `json:"purpose"`
	Amount  string `json:"amount"`
}

type CaptureRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Kg   string `json:"kg"`
}

type TicketRequest struct {
	Text string `json:"text"`
}

func NewHandler(serv *service.WasteService, sessions *Sessions, logger *zap.Logger) *WasteHandler {
	router := mux.NewRouter()
	handler := &WasteHandler{router, serv, sessions, logger}
	router.Use(MiddlewareLog())
	router.HandleFunc("/register", handler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/login", handler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/logout", handler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/view/{id}", handler.ViewHandler).Methods(http.MethodPost)
	router.HandleFunc("/sections", handler.SectionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/sections/{name}", handler.SectionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/bookings", handler.BookingHandler).Methods(http.MethodPost)
	router.HandleFunc("/payments", handler.PaymentHandler).Methods(http.MethodPost)
	router.HandleFunc("/captures", handler.CaptureHandler).Methods(http.MethodPost)
	router.HandleFunc("/tickets", handler.TicketHandler).Methods(http.MethodPost)
	router.HandleFunc("/training/{id}/complete", handler.TrainingHandler).Methods(http.MethodPost)
	router.HandleFunc("/validate/registration", handler.ValidateHandler).Methods(http.MethodPost)
	router.HandleFunc("/store/{key}", handler.GetCollectionHandler).Methods(http.MethodGet)
	router.HandleFunc("/store/{key}", handler.SetCollectionHandler).Methods(http.MethodPut)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return handler
}

func (r *WasteHandler) ServeHTTP(w http.ResponseWriter, res *http.Request) {
	r.router.ServeHTTP(w, res)
}

func (r *WasteHandler) Log(msg string, service string, err error) {
	r.logger.Error(msg,
		zap.String("service", service),
		zap.Error(err),
	)
}

// Регистрация
func (r *WasteHandler) RegisterHandler(w http.ResponseWriter, req *http.Request) {
	var body RegisterRequest
	if !r.decode(w, req, &body, "RegisterHandler") {
		return
	}
	_, err := r.serv.Register(req.Context(), body.Name, body.Email, body.Role, body.Password)
	if err != nil {
		r.fail(w, err, "RegisterHandler")
		return
	}
	writeJSON(w, http.StatusCreated, Response{Message: "Registered! You can login now."})
}

// Вход: роутер пересоздается с учетом роли, перерисовываются все секции
func (r *WasteHandler) LoginHandler(w http.ResponseWriter, req *http.Request) {
	var body LoginRequest
	if !r.decode(w, req, &body, "LoginHandler") {
		return
	}
	cl, known := r.sessions.Get(req)
	if !known {
		cl = newClient()
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	result, err := r.serv.Login(req.Context(), cl.session, body.Email, body.Password)
	if err != nil {
		r.fail(w, err, "LoginHandler")
		return
	}
	cl.router = router.New(result.AdminMenu)
	if !known {
		r.sessions.Add(w, cl)
	}

	sections, err := r.sections(req.Context(), cl, result.Redraw)
	if err != nil {
		r.fail(w, err, "LoginHandler")
		return
	}
	resp := r.response(cl, sections)
	resp.AdminMenu = result.AdminMenu
	writeJSON(w, http.StatusOK, resp)
}

func (r *WasteHandler) LogoutHandler(w http.ResponseWriter, req *http.Request) {
	if cl, ok := r.sessions.Get(req); ok {
		cl.mu.Lock()
		r.serv.Logout(cl.session)
		cl.mu.Unlock()
		r.sessions.Drop(w, req)
	}
	writeJSON(w, http.StatusOK, Response{Message: "Logged out"})
}

// Переключение вида
func (r *WasteHandler) ViewHandler(w http.ResponseWriter, req *http.Request) {
	view := router.View(mux.Vars(req)["id"])
	cl, ok := r.client(w, req, "ViewHandler")
	if !ok {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if !cl.session.Authenticated() {
		r.fail(w, model.ErrUnauthenticated, "ViewHandler")
		return
	}
	redraw, err := cl.router.Switch(view)
	if err != nil {
		r.fail(w, err, "ViewHandler")
		return
	}
	list := make([]render.Section, 0, len(redraw))
	for _, name := range redraw {
		section, err := render.ParseSection(name)
		if err != nil {
			r.fail(w, err, "ViewHandler")
			return
		}
		list = append(list, section)
	}
	sections, err := r.sections(req.Context(), cl, list)
	if err != nil {
		r.fail(w, err, "ViewHandler")
		return
	}
	writeJSON(w, http.StatusOK, r.response(cl, sections))
}

// Секции: все или одна; ?format=json отдает модели вместо HTML
func (r *WasteHandler) SectionsHandler(w http.ResponseWriter, req *http.Request) {
	list := render.Sections
	if name, ok := mux.Vars(req)["name"]; ok {
		section, err := render.ParseSection(name)
		if err != nil {
			r.fail(w, err, "SectionsHandler")
			return
		}
		list = []render.Section{section}
	}

	cl, ok := r.client(w, req, "SectionsHandler")
	if !ok {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if req.URL.Query().Get("format") == "json" {
		views, err := r.serv.Render(req.Context(), cl.session, list...)
		if err != nil {
			r.fail(w, err, "SectionsHandler")
			return
		}
		data := make(map[string]any, len(views))
		for s, v := range views {
			data[string(s)] = v
		}
		resp := r.response(cl, nil)
		resp.Data = data
		writeJSON(w, http.StatusOK, resp)
		return
	}

	sections, err := r.sections(req.Context(), cl, list)
	if err != nil {
		r.fail(w, err, "SectionsHandler")
		return
	}
	writeJSON(w, http.StatusOK, r.response(cl, sections))
}

func (r *WasteHandler) BookingHandler(w http.ResponseWriter, req *http.Request) {
	var body BookingRequest
	if !r.decode(w, req, &body, "BookingHandler") {
		return
	}
	r.action(w, req, "BookingHandler", func(ctx context.Context, sess *service.Session) ([]render.Section, error) {
		return r.serv.AddBooking(ctx, sess, body.Date, body.Type, body.Freq, body.Addr)
	})
}

func (r *WasteHandler) PaymentHandler(w http.ResponseWriter, req *http.Request) {
	var body PaymentRequest
	if !r.decode(w, req, &body, "PaymentHandler") {
		return
	}
	r.action(w, req, "PaymentHandler", func(ctx context.Context, sess *service.Session) ([]render.Section, error) {
		return r.serv.Pay(ctx, sess, body.Purpose, body.Amount)
	})
}

func (r *WasteHandler) CaptureHandler(w http.ResponseWriter, req *http.Request) {
	var body CaptureRequest
	if !r.decode(w, req, &body, "CaptureHandler") {
		return
	}
	r.action(w, req, "CaptureHandler", func(ctx context.Context, sess *service.Session) ([]render.Section, error) {
		return r.serv.Capture(ctx, sess, body.Date, body.Type, body.Kg)
	})
}

func (r *WasteHandler) TicketHandler(w http.ResponseWriter, req *http.Request) {
	var body TicketRequest
	if !r.decode(w, req, &body, "TicketHandler") {
		return
	}
	r.action(w, req, "TicketHandler", func(ctx context.Context, sess *service.Session) ([]render.Section, error) {
		return r.serv.RaiseTicket(ctx, sess, body.Text)
	})
}

func (r *WasteHandler) TrainingHandler(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		r.fail(w, model.ErrNotFound, "TrainingHandler")
		return
	}
	r.action(w, req, "TrainingHandler", func(ctx context.Context, sess *service.Session) ([]render.Section, error) {
		return r.serv.CompleteModule(ctx, sess, id)
	})
}

// Проверка формы регистрации по полям
func (r *WasteHandler) ValidateHandler(w http.ResponseWriter, req *http.Request) {
	var body RegisterRequest
	if !r.decode(w, req, &body, "ValidateHandler") {
		return
	}
	writeJSON(w, http.StatusOK, validate.Registration(body.Name, body.Email, body.Password, body.Role))
}

// Коллекция целиком
func (r *WasteHandler) GetCollectionHandler(w http.ResponseWriter, req *http.Request) {
	cl, ok := r.client(w, req, "GetCollectionHandler")
	if !ok {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	raw, err := r.serv.ReadCollection(req.Context(), cl.session, mux.Vars(req)["key"])
	if err != nil {
		r.fail(w, err, "GetCollectionHandler")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (r *WasteHandler) SetCollectionHandler(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBody))
	if err != nil {
		r.Log("Get request body", "SetCollectionHandler", err)
		writeError(w, http.StatusBadRequest, "Body is not correct")
		return
	}
	defer req.Body.Close()

	cl, ok := r.client(w, req, "SetCollectionHandler")
	if !ok {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	err = r.serv.WriteCollection(req.Context(), cl.session, mux.Vars(req)["key"], body)
	if err != nil {
		r.fail(w, err, "SetCollectionHandler")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// action выполняет операцию пользователя и перерисовывает затронутые секции
func (r *WasteHandler) action(w http.ResponseWriter, req *http.Request, name string,
	op func(ctx context.Context, sess *service.Session) ([]render.Section, error)) {
	cl, ok := r.client(w, req, name)
	if !ok {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	redraw, err := op(req.Context(), cl.session)
	if err != nil {
		r.fail(w, err, name)
		return
	}
	sections, err := r.sections(req.Context(), cl, redraw)
	if err != nil {
		r.fail(w, err, name)
		return
	}
	writeJSON(w, http.StatusOK, r.response(cl, sections))
}

// client - сессия по cookie; без входа отвечает 401
func (r *WasteHandler) client(w http.ResponseWriter, req *http.Request, service string) (*client, bool) {
	cl, ok := r.sessions.Get(req)
	if !ok {
		r.fail(w, model.ErrUnauthenticated, service)
	}
	return cl, ok
}

func (r *WasteHandler) sections(ctx context.Context, cl *client, list []render.Section) (map[string]string, error) {
	out := make(map[string]string, len(list))
	if len(list) == 0 {
		return out, nil
	}
	views, err := r.serv.Render(ctx, cl.session, list...)
	if err != nil {
		return nil, err
	}
	for section, view := range views {
		html, err := render.HTML(section, view)
		if err != nil {
			return nil, err
		}
		out[string(section)] = html
	}
	return out, nil
}

func (r *WasteHandler) response(cl *client, sections map[string]string) Response {
	resp := Response{
		View:     cl.router.Current(),
		Views:    cl.router.Visibility(),
		Sections: sections,
	}
	if cl.header != nil {
		resp.Header = &Header{cl.header.Name, cl.header.Role, cl.header.Rewards}
	}
	return resp
}

func (r *WasteHandler) decode(w http.ResponseWriter, req *http.Request, v any, service string) bool {
	defer req.Body.Close()
	err := json.NewDecoder(io.LimitReader(req.Body, maxBody)).Decode(v)
	if err != nil {
		r.Log("Unmarshal", service, err)
		writeError(w, http.StatusBadRequest, "Body is not correct")
		return false
	}
	return true
}

// fail переводит ошибку домена в HTTP статус
func (r *WasteHandler) fail(w http.ResponseWriter, err error, service string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, model.Message(err))
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrNotFound), errors.Is(err, router.ErrUnknownView):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		r.Log("Request failed", service, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	j, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(j)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{msg})
}
