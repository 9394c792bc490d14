// Package pagination keeps forward page cursors over the live, filtered
// quotation set. Cursors are scoped to one filter signature; changing
// any part of the filter throws the whole cursor map away.
package pagination

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
)

type Subscription interface {
	Close()
}

type Source interface {
	QuotationPage(ctx context.Context, filter types.QuotationFilter, after *types.PageKey, limit uint64) ([]*types.Quotation, error)
	Subscribe(ctx context.Context) (Subscription, error)
}

// Page is one fetched page after the client-side search post-filter.
// HasNextPage reflects the underlying set, so a searched page can carry
// fewer than pageSize rows while more pages still exist.
type Page struct {
	Items       []*types.Quotation `json:"items"`
	HasNextPage bool               `json:"hasNextPage"`
}

type Manager struct {
	source   Source
	pageSize int
	logger   *logrus.Logger

	// watchCtx bounds the lifetime of the subscription held per filter
	// signature; it is the app context, not a request context.
	watchCtx context.Context

	mu        sync.Mutex
	signature string
	cursors   map[int]types.PageKey
	sub       Subscription
}

func NewManager(watchCtx context.Context, source Source, pageSize int, logger *logrus.Logger) *Manager {
	if pageSize <= 0 {
		pageSize = 10
	}

	return &Manager{
		source:   source,
		pageSize: pageSize,
		logger:   logger,
		watchCtx: watchCtx,
		cursors:  make(map[int]types.PageKey),
	}
}

// FetchPage returns the requested page for the filter. The underlying
// set is live: a fetch after a concurrent write may overlap or gap with
// an earlier fetch of the same page number. That weak consistency is
// accepted; no snapshot isolation is attempted across page turns.
func (m *Manager) FetchPage(ctx context.Context, filter types.QuotationFilter, pageNumber int) (*Page, error) {

	if pageNumber < 1 {
		pageNumber = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sig := filterSignature(filter); sig != m.signature {
		m.resetLocked(sig)
	}

	var after *types.PageKey
	if pageNumber > 1 {
		cursor, ok := m.cursors[pageNumber-1]
		if !ok {
			// Caller skipped ahead or the cursor map was cleared;
			// rebuild cursors by walking from page 1.
			if err := m.walkToLocked(ctx, filter, pageNumber-1); err != nil {
				return nil, err
			}
			cursor, ok = m.cursors[pageNumber-1]
			if !ok {
				return &Page{Items: []*types.Quotation{}}, nil
			}
		}
		after = &cursor
	}

	items, hasNext, err := m.fetchLocked(ctx, filter, after, pageNumber)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:       postFilter(items, filter.Search),
		HasNextPage: hasNext,
	}, nil
}

// Close releases the subscription held for the current filter.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked("")
}

// fetchLocked pulls one page (pageSize+1 probe) and records the cursor
// for pageNumber.
func (m *Manager) fetchLocked(ctx context.Context, filter types.QuotationFilter, after *types.PageKey, pageNumber int) ([]*types.Quotation, bool, error) {

	items, err := m.source.QuotationPage(ctx, filter, after, uint64(m.pageSize)+1)
	if err != nil {
		return nil, false, err
	}

	hasNext := len(items) > m.pageSize
	if hasNext {
		items = items[:m.pageSize]
	}

	if len(items) > 0 {
		last := items[len(items)-1]
		m.cursors[pageNumber] = types.PageKey{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return items, hasNext, nil
}

// walkToLocked re-derives cursors from page 1 up to and including
// target. A missing intermediate cursor never fails the request.
func (m *Manager) walkToLocked(ctx context.Context, filter types.QuotationFilter, target int) error {

	for page := 1; page <= target; page++ {
		if _, ok := m.cursors[page]; ok {
			continue
		}

		var before *types.PageKey
		if page > 1 {
			cursor, ok := m.cursors[page-1]
			if !ok {
				return fmt.Errorf("cursor walk lost page %d", page-1)
			}
			before = &cursor
		}

		items, _, err := m.fetchLocked(ctx, filter, before, page)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
	}

	return nil
}

// resetLocked clears all cursors and swaps the live subscription over
// to the new filter signature.
func (m *Manager) resetLocked(signature string) {

	m.signature = signature
	m.cursors = make(map[int]types.PageKey)

	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}

	if signature == "" {
		return
	}

	sub, err := m.source.Subscribe(m.watchCtx)
	if err != nil {
		// Page fetches re-query the store anyway; losing the
		// subscription only costs change notifications.
		m.logger.WithError(err).Warn("failed to subscribe to quotation changes")
		return
	}

	m.sub = sub
}

// postFilter applies the text search on top of the already-paginated
// page. Callers must not read a short page as "no more pages".
func postFilter(items []*types.Quotation, search string) []*types.Quotation {

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return items
	}

	filtered := make([]*types.Quotation, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), search) ||
			strings.Contains(strings.ToLower(item.ID), search) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

func filterSignature(filter types.QuotationFilter) string {
	return fmt.Sprintf("%s|%s|%s", filter.OrgID, filter.Status, strings.ToLower(strings.TrimSpace(filter.Search)))
}
