package waste

import (
	"net/http"
	"sync"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/Anit-Biswas/Waste-management-website/internal/router"
	service "github.com/Anit-Biswas/Waste-management-website/internal/services"
	"github.com/google/uuid"
)

const cookieName = "waste_session"

// client - состояние одной страницы: сессия, роутер и последняя шапка
type client struct {
	mu      sync.Mutex
	session *service.Session
	router  *router.Router
	header  *model.User
}

func newClient() *client {
	c := &client{router: router.New(false)}
	c.session = service.NewSession(func(user *model.User) {
		c.header = user
	})
	return c
}

type Sessions struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewSessions() *Sessions {
	return &Sessions{clients: make(map[string]*client)}
}

// Get находит клиента по cookie, новых не заводит
func (s *Sessions) Get(req *http.Request) (*client, bool) {
	c, err := req.Cookie(cookieName)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cl, ok := s.clients[c.Value]
	return cl, ok
}

// Add регистрирует клиента после успешного входа и выдает cookie
func (s *Sessions) Add(w http.ResponseWriter, cl *client) {
	token := uuid.NewString()
	s.mu.Lock()
	s.clients[token] = cl
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Drop забывает клиента (выход)
func (s *Sessions) Drop(w http.ResponseWriter, req *http.Request) {
	c, err := req.Cookie(cookieName)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.clients, c.Value)
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:   cookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
