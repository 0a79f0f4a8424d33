package waste

import (
	"sync"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
)

// Session - текущий пользователь на время жизни страницы.
// Хранит копию, а не ссылку на запись в хранилище.
type Session struct {
	mu       sync.RWMutex
	user     *model.User
	onChange func(user *model.User)
}

func NewSession(onChange func(user *model.User)) *Session {
	return &Session{onChange: onChange}
}

// SetUser заменяет снимок и синхронно обновляет шапку. nil - выход.
func (s *Session) SetUser(user *model.User) {
	s.mu.Lock()
	if user == nil {
		s.user = nil
	} else {
		u := *user
		s.user = &u
	}
	snapshot := s.user
	s.mu.Unlock()

	if s.onChange != nil {
		if snapshot != nil {
			u := *snapshot
			s.onChange(&u)
		} else {
			s.onChange(nil)
		}
	}
}

func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Session) principal() (model.User, error) {
	user, ok := s.User()
	if !ok {
		return model.User{}, model.ErrUnauthenticated
	}
	return user, nil
}
