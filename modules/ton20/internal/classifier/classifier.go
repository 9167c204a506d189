// Package classifier caches account classifications for the lifetime of the process.
package classifier

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultConcurrency = 16

// Memo is an append-only cache in front of the account classification table.
// Classifications never change once an account is known.
type Memo struct {
	accountDg   datagateway.AccountReaderDataGateway
	concurrency int

	mu     sync.RWMutex
	cache  map[types.Address]bool
	flight singleflight.Group
}

func New(accountDg datagateway.AccountReaderDataGateway, concurrency int) *Memo {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Memo{
		accountDg:   accountDg,
		concurrency: concurrency,
		cache:       make(map[types.Address]bool),
	}
}

func (m *Memo) lookup(addr types.Address) (isWallet, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	isWallet, ok = m.cache[addr]
	return isWallet, ok
}

func (m *Memo) insert(addr types.Address, isWallet bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[addr] = isWallet
}

// IsWallet reports whether addr is a non-blacklisted wallet contract.
// An address missing from the classification table is an errs.NotFound error.
func (m *Memo) IsWallet(ctx context.Context, addr types.Address) (bool, error) {
	if isWallet, ok := m.lookup(addr); ok {
		return isWallet, nil
	}
	v, err, _ := m.flight.Do(addr.String(), func() (interface{}, error) {
		if isWallet, ok := m.lookup(addr); ok {
			return isWallet, nil
		}
		account, err := m.accountDg.GetAccount(ctx, addr)
		if err != nil {
			return false, errors.Wrapf(err, "failed to get account %s", addr)
		}
		isWallet := account.IsWallet()
		m.insert(addr, isWallet)
		return isWallet, nil
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return v.(bool), nil
}

// Prefetch classifies the addresses concurrently so that later IsWallet calls hit the cache.
// Lookup failures are not reported; IsWallet surfaces them when the result is actually needed.
func (m *Memo) Prefetch(ctx context.Context, addrs []types.Address) {
	missing := lo.Filter(lo.Uniq(addrs), func(addr types.Address, _ int) bool {
		_, ok := m.lookup(addr)
		return !ok
	})
	if len(missing) == 0 {
		return
	}

	group, groupctx := errgroup.WithContext(ctx)
	group.SetLimit(m.concurrency)
	for _, addr := range missing {
		addr := addr
		group.Go(func() error {
			if _, err := m.IsWallet(groupctx, addr); err != nil {
				logger.DebugContext(groupctx, "account prefetch failed", slogx.Stringer("address", addr), slogx.Error(err))
			}
			return nil
		})
	}
	_ = group.Wait()
}

func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
