// Package auth owns user registration and login: the process-wide
// gate key check and the username-to-user-record table (spec §4.1,
// "RegisterUser"/"Login" rows). Passwords here are the opaque
// server-generated strings handed out at registration, compared
// directly at login time — distinct from channel passwords, which
// are user-chosen and Argon2id-hashed (see pkg/cryptoutil).
package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/darkrelay/darkrelay/pkg/cryptoutil"
	"github.com/darkrelay/darkrelay/pkg/model"
)

// ErrEmptyUsername is returned by Register for a blank (after
// trimming) or over-length username.
var ErrEmptyUsername = errors.New("auth: username cannot be empty")

// ErrUsernameTaken is returned by Register when the trimmed username
// already belongs to another user.
var ErrUsernameTaken = errors.New("auth: username already exists")

// ErrUserNotFound is returned by Login for an unknown username.
var ErrUserNotFound = errors.New("auth: user not found")

// ErrInvalidPassword is returned by Login when the password does not
// match the record on file.
var ErrInvalidPassword = errors.New("auth: invalid password")

type record struct {
	user     model.User
	password string
}

// Service owns the user table for the server's lifetime. There is no
// persistence: every record is lost on restart (spec §6).
type Service struct {
	mu         sync.RWMutex
	byName     map[string]*record
	nextUserID uint64
}

// New creates an empty user directory.
func New() *Service {
	return &Service{byName: make(map[string]*record), nextUserID: 1}
}

// VerifySpecialKey compares the gate key in constant time.
func VerifySpecialKey(expected, candidate string) bool {
	return cryptoutil.ConstantTimeEquals(candidate, expected)
}

// Register mints a new user for the given (trimmed) username and
// returns the user along with the server-generated opaque password.
func (s *Service) Register(username string) (model.User, string, error) {
	trimmed, ok := model.ValidateUsername(username)
	if !ok {
		return model.User{}, "", ErrEmptyUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[trimmed]; exists {
		return model.User{}, "", ErrUsernameTaken
	}

	user := model.User{
		ID:       s.nextUserID,
		Username: trimmed,
		JoinedAt: time.Now().UTC(),
	}
	s.nextUserID++

	password := cryptoutil.GenerateRegistrationPassword(time.Now(), user.ID)
	s.byName[trimmed] = &record{user: user, password: password}

	return user, password, nil
}

// Login verifies a username/password pair and returns the matching
// user record.
func (s *Service) Login(username, password string) (model.User, error) {
	trimmed := strings.TrimSpace(username)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byName[trimmed]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	if !cryptoutil.ConstantTimeEquals(password, rec.password) {
		return model.User{}, ErrInvalidPassword
	}
	return rec.user, nil
}

// Username returns the username for a known user id, used to label
// log entries and admin listings.
func (s *Service) Username(userID uint64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.byName {
		if rec.user.ID == userID {
			return rec.user.Username, true
		}
	}
	return "", false
}

// UserIDByUsername resolves a username to its user id, used by admin
// verbs that target a user by name (e.g. BanUser, PromoteUser).
func (s *Service) UserIDByUsername(username string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byName[username]
	if !ok {
		return 0, false
	}
	return rec.user.ID, true
}

// AllUsernames returns a snapshot of every registered user id mapped
// to its username, used to resolve ListAdmins entries.
func (s *Service) AllUsernames() map[uint64]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint64]string, len(s.byName))
	for _, rec := range s.byName {
		out[rec.user.ID] = rec.user.Username
	}
	return out
}
