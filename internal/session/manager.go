// Package session manages accounts and the ownership of the active storage
// namespace. Accounts live as a single JSON array in the backend, and the
// current-user marker decides which namespace the library activates on start.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"librismundis/internal/entities"
	"librismundis/internal/ident"
	"librismundis/internal/library"
	"librismundis/internal/storage"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Manager owns the account registry and the login state. It drives the
// library's namespace switches so data never leaks between accounts.
type Manager struct {
	mu      sync.Mutex
	backend storage.Backend
	lib     *library.Library
	current *entities.Account
}

func NewManager(backend storage.Backend, lib *library.Library) *Manager {
	return &Manager{backend: backend, lib: lib}
}

// Activate restores the persisted login state on startup: if the marker
// names a known account that account's namespace is loaded, otherwise the
// guest namespace is.
func (m *Manager) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, found, err := m.backend.Get(storage.CurrentUserKey)
	if err != nil {
		log.Printf("Error reading current user marker: %v", err)
	}
	if found && id != "" {
		accounts := m.loadAccounts()
		for i := range accounts {
			if accounts[i].ID == id {
				m.current = &accounts[i]
				m.lib.Activate(storage.UserNamespace(id))
				return
			}
		}
		// Stale marker, drop it and fall through to guest.
		if err := m.backend.Remove(storage.CurrentUserKey); err != nil {
			log.Printf("Error clearing stale user marker: %v", err)
		}
	}

	m.current = nil
	m.lib.Activate(storage.GuestNamespace)
}

// Register creates an account and logs it in. Guest data accumulated before
// registration is migrated into the new account's namespace.
func (m *Manager) Register(name, email, password string) (entities.PublicAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := m.loadAccounts()
	for _, a := range accounts {
		if a.Email == email {
			return entities.PublicAccount{}, ErrDuplicateEmail
		}
	}

	account := entities.Account{
		ID:        ident.New(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().UnixMilli(),
	}
	accounts = append(accounts, account)
	if err := m.saveAccounts(accounts); err != nil {
		return entities.PublicAccount{}, fmt.Errorf("save accounts: %w", err)
	}

	if err := m.migrateGuestData(account.ID); err != nil {
		log.Printf("Error migrating guest data: %v", err)
	}

	m.current = &account
	if err := m.backend.Set(storage.CurrentUserKey, account.ID); err != nil {
		log.Printf("Error writing current user marker: %v", err)
	}
	m.lib.Activate(storage.UserNamespace(account.ID))

	return account.Public(), nil
}

// Login checks credentials and switches the library to the account's
// namespace. The error is the same for an unknown email and a wrong
// password.
func (m *Manager) Login(email, password string) (entities.PublicAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.loadAccounts() {
		if a.Email == email && a.Password == password {
			account := a
			m.current = &account
			if err := m.backend.Set(storage.CurrentUserKey, account.ID); err != nil {
				log.Printf("Error writing current user marker: %v", err)
			}
			m.lib.Activate(storage.UserNamespace(account.ID))
			return account.Public(), nil
		}
	}
	return entities.PublicAccount{}, ErrInvalidCredentials
}

// Logout flushes the active namespace, clears the marker and drops back to
// guest. Logging out while already a guest is a no-op apart from the flush.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lib.Flush()
	m.current = nil
	if err := m.backend.Remove(storage.CurrentUserKey); err != nil {
		log.Printf("Error clearing current user marker: %v", err)
	}
	m.lib.Activate(storage.GuestNamespace)
}

// Current returns the logged-in account, if any.
func (m *Manager) Current() (entities.PublicAccount, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return entities.PublicAccount{}, false
	}
	return m.current.Public(), true
}

// migrateGuestData copies each non-empty guest blob verbatim into the user's
// namespace, then clears the guest blobs. Raw copies keep the migration
// independent of the JSON shapes involved.
func (m *Manager) migrateGuestData(userID string) error {
	pairs := [][2]string{
		{storage.BooksKey(storage.GuestNamespace), storage.BooksKey(storage.UserNamespace(userID))},
		{storage.VocabularyKey(storage.GuestNamespace), storage.VocabularyKey(storage.UserNamespace(userID))},
		{storage.StatsKey(storage.GuestNamespace), storage.StatsKey(storage.UserNamespace(userID))},
	}
	for _, p := range pairs {
		value, found, err := m.backend.Get(p[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", p[0], err)
		}
		if !found || value == "" || value == "[]" {
			continue
		}
		if err := m.backend.Set(p[1], value); err != nil {
			return fmt.Errorf("write %s: %w", p[1], err)
		}
	}
	for _, p := range pairs {
		if err := m.backend.Remove(p[0]); err != nil {
			return fmt.Errorf("clear %s: %w", p[0], err)
		}
	}
	return nil
}

func (m *Manager) loadAccounts() []entities.Account {
	value, found, err := m.backend.Get(storage.UsersKey)
	if err != nil {
		log.Printf("Error reading accounts: %v", err)
		return []entities.Account{}
	}
	if !found {
		return []entities.Account{}
	}
	var accounts []entities.Account
	if err := json.Unmarshal([]byte(value), &accounts); err != nil {
		log.Printf("Corrupt account registry, treating as empty: %v", err)
		return []entities.Account{}
	}
	return accounts
}

func (m *Manager) saveAccounts(accounts []entities.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return m.backend.Set(storage.UsersKey, string(data))
}
