package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oxygenixlabs/storefront/pkg/config"
	"github.com/oxygenixlabs/storefront/pkg/security"
)

// User is the public account profile.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type account struct {
	user         User
	passwordHash string
}

// DemoPassword is the password of the seeded accounts.
const DemoPassword = "password123"

// directory is the in-memory account list. Signups are lost on restart.
type directory struct {
	mu       sync.RWMutex
	accounts map[string]*account
	pwCfg    config.PasswordConfig
}

func newDirectory(pwCfg config.PasswordConfig) (*directory, error) {
	d := &directory{accounts: map[string]*account{}, pwCfg: pwCfg}
	seeds := []User{
		{
			ID:        "user_1",
			Email:     "demo@oxygenixlabs.com",
			Name:      "Demo User",
			Phone:     "+91 98765 43210",
			CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "user_2",
			Email:     "test@example.com",
			Name:      "Test User",
			CreatedAt: time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC),
		},
	}
	for _, u := range seeds {
		hash, err := security.HashPassword(DemoPassword, pwCfg)
		if err != nil {
			return nil, err
		}
		d.accounts[normalizeEmail(u.Email)] = &account{user: u, passwordHash: hash}
	}
	return d, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *directory) find(email string) (account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.accounts[normalizeEmail(email)]
	if !ok {
		return account{}, false
	}
	return *acc, true
}

// insert adds a new account; false when the email is taken.
func (d *directory) insert(user User, password string) (bool, error) {
	hash, err := security.HashPassword(password, d.pwCfg)
	if err != nil {
		return false, err
	}
	key := normalizeEmail(user.Email)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[key]; exists {
		return false, nil
	}
	d.accounts[key] = &account{user: user, passwordHash: hash}
	return true, nil
}

func (d *directory) setPassword(email, password string) (bool, error) {
	hash, err := security.HashPassword(password, d.pwCfg)
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	acc, ok := d.accounts[normalizeEmail(email)]
	if !ok {
		return false, nil
	}
	acc.passwordHash = hash
	return true, nil
}

func (d *directory) updateProfile(id string, fn func(*User)) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, acc := range d.accounts {
		if acc.user.ID == id {
			fn(&acc.user)
			return acc.user, true
		}
	}
	return User{}, false
}

func newUserID() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
