package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidUser is returned when a user id is not part of users.yaml.
var ErrInvalidUser = errors.New("invalid user")

// Me stands for the current user wherever a user id is accepted.
const Me = "me"

// User is one entry of users.yaml.
type User struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Users represents the contents of .gitissues/users.yaml.
type Users struct {
	Users []User `yaml:"users"`
}

// LoadUsers reads users.yaml from path.
func LoadUsers(path string) (Users, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Users{}, err
	}
	var u Users
	if err := yaml.Unmarshal(data, &u); err != nil {
		return Users{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	seen := make(map[string]bool, len(u.Users))
	for _, user := range u.Users {
		if user.ID == "" {
			return Users{}, fmt.Errorf("%s: user with empty id", path)
		}
		if seen[user.ID] {
			return Users{}, fmt.Errorf("%s: user %q listed twice", path, user.ID)
		}
		seen[user.ID] = true
	}
	return u, nil
}

// Identity resolves user ids against the roster and the current user.
type Identity struct {
	users   Users
	current string
}

// NewIdentity returns an Identity for the given roster and current user id.
func NewIdentity(users Users, current string) *Identity {
	return &Identity{users: users, current: current}
}

// Valid reports whether id may be stored as reporter or assignee.
// The empty id is always valid.
func (i *Identity) Valid(id string) bool {
	if id == "" {
		return true
	}
	for _, u := range i.users.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Current returns the configured current user id, possibly empty.
func (i *Identity) Current() string {
	return i.current
}

// ResolveMe returns the current user id. It fails when settings.yaml names a
// user that is not part of users.yaml.
func (i *Identity) ResolveMe() (string, error) {
	if !i.Valid(i.current) {
		return "", fmt.Errorf("%w: settings.yaml:user %q must be part of users.yaml:users or empty", ErrInvalidUser, i.current)
	}
	return i.current, nil
}

// Resolve replaces the literal "me" with the current user id and checks the
// result against the roster.
func (i *Identity) Resolve(value string) (string, error) {
	if value == Me {
		return i.ResolveMe()
	}
	if !i.Valid(value) {
		return "", fmt.Errorf("%w: %q is not part of users.yaml:users", ErrInvalidUser, value)
	}
	return value, nil
}
