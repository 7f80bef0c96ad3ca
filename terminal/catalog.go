package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/realtime"
)

// Catalog is the terminal's local copy of the server-owned menu and settings.
// It is refreshed on demand and patched by realtime events; while the
// connection is down the terminal keeps operating on this (possibly stale)
// state without blocking the operator.
type Catalog struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	mu         sync.RWMutex
	items      map[uint]models.Item
	categories []models.Category
	settings   models.Settings
	stale      bool
}

func NewCatalog(baseURL, token string) *Catalog {
	return &Catalog{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    http.DefaultClient,
		items:   make(map[uint]models.Item),
	}
}

// Refresh re-fetches items, categories and settings from the server. This is
// the recovery path after a reconnect, since missed events are not replayed.
func (cat *Catalog) Refresh(ctx context.Context) error {
	var items []models.Item
	if err := cat.get(ctx, "/api/items", &items); err != nil {
		return fmt.Errorf("refresh items: %w", err)
	}

	var categories []models.Category
	if err := cat.get(ctx, "/api/categories", &categories); err != nil {
		return fmt.Errorf("refresh categories: %w", err)
	}

	var settings models.Settings
	if err := cat.get(ctx, "/api/settings", &settings); err != nil {
		return fmt.Errorf("refresh settings: %w", err)
	}

	cat.mu.Lock()
	cat.items = make(map[uint]models.Item, len(items))
	for _, it := range items {
		cat.items[it.ID] = it
	}
	cat.categories = categories
	cat.settings = settings
	cat.stale = false
	cat.mu.Unlock()

	return nil
}

// Items returns the cached items ordered by id.
func (cat *Catalog) Items() []models.Item {
	cat.mu.RLock()
	defer cat.mu.RUnlock()

	out := make([]models.Item, 0, len(cat.items))
	for _, it := range cat.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (cat *Catalog) Item(id uint) (models.Item, bool) {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	it, ok := cat.items[id]
	return it, ok
}

func (cat *Catalog) Categories() []models.Category {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	out := make([]models.Category, len(cat.categories))
	copy(out, cat.categories)
	return out
}

func (cat *Catalog) Settings() models.Settings {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	return cat.settings
}

// Stale reports whether the local snapshot may be behind the server. It is a
// prompt to refresh, never a block on cart actions.
func (cat *Catalog) Stale() bool {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	return cat.stale
}

func (cat *Catalog) MarkStale() {
	cat.mu.Lock()
	cat.stale = true
	cat.mu.Unlock()
}

// ApplyItemUpdate merges an item pushed by another terminal into the cache.
func (cat *Catalog) ApplyItemUpdate(item models.Item) {
	cat.mu.Lock()
	cat.items[item.ID] = item
	cat.mu.Unlock()
}

// ApplySettingsUpdate replaces the cached settings record.
func (cat *Catalog) ApplySettingsUpdate(settings models.Settings) {
	cat.mu.Lock()
	cat.settings = settings
	cat.mu.Unlock()
}

// BindListener wires the realtime events into the cache: item and settings
// payloads are merged directly, and orders from other terminals only flag the
// dashboard-ish views as stale.
func (cat *Catalog) BindListener(l *Listener) {
	l.Handle(realtime.EventItemUpdated, func(data json.RawMessage) {
		var item models.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return
		}
		cat.ApplyItemUpdate(item)
	})
	l.Handle(realtime.EventSettingsUpdated, func(data json.RawMessage) {
		var settings models.Settings
		if err := json.Unmarshal(data, &settings); err != nil {
			return
		}
		cat.ApplySettingsUpdate(settings)
	})
	l.Handle(realtime.EventOrderCreated, func(json.RawMessage) {
		cat.MarkStale()
	})
}

func (cat *Catalog) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cat.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cat.Token)

	resp, err := cat.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}

	var envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}
