// Package ledger holds the in-memory TON-20 ledger and tracks which entries
// changed since the last flush. It enforces arithmetic bounds but no protocol rules.
package ledger

import (
	"bytes"
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/holiman/uint256"
)

// Sink receives ledger changes.
type Sink interface {
	DeleteWallets(ctx context.Context, keys []entity.WalletKey) error
	UpsertTicks(ctx context.Context, ticks []*entity.Tick) error
	UpsertWallets(ctx context.Context, wallets []*entity.Wallet) error
}

type Store struct {
	ticks   map[string]*entity.Tick
	wallets map[string]map[types.Address]*entity.Wallet

	dirtyTicks     map[string]struct{}
	dirtyWallets   map[entity.WalletKey]struct{}
	deletedWallets map[entity.WalletKey]struct{}
}

func New() *Store {
	return &Store{
		ticks:          make(map[string]*entity.Tick),
		wallets:        make(map[string]map[types.Address]*entity.Wallet),
		dirtyTicks:     make(map[string]struct{}),
		dirtyWallets:   make(map[entity.WalletKey]struct{}),
		deletedWallets: make(map[entity.WalletKey]struct{}),
	}
}

// Tick returns the tick entry. The returned value must not be modified.
func (s *Store) Tick(tick string) (*entity.Tick, bool) {
	t, ok := s.ticks[tick]
	return t, ok
}

// Wallet returns the wallet entry. The returned value must not be modified.
func (s *Store) Wallet(tick string, addr types.Address) (*entity.Wallet, bool) {
	w, ok := s.wallets[tick][addr]
	return w, ok
}

func (s *Store) TickCount() int {
	return len(s.ticks)
}

// Ticks returns every tick sorted by symbol.
func (s *Store) Ticks() []*entity.Tick {
	ticks := make([]*entity.Tick, 0, len(s.ticks))
	for _, t := range s.ticks {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Tick < ticks[j].Tick })
	return ticks
}

// Wallets returns the wallets of a tick sorted by address.
func (s *Store) Wallets(tick string) []*entity.Wallet {
	wallets := make([]*entity.Wallet, 0, len(s.wallets[tick]))
	for _, w := range s.wallets[tick] {
		wallets = append(wallets, w)
	}
	sortWallets(wallets)
	return wallets
}

func (s *Store) Deploy(t *entity.Tick) error {
	if _, ok := s.ticks[t.Tick]; ok {
		return errors.Wrapf(errs.ConflictSetting, "tick %q already deployed", t.Tick)
	}
	if t.Rest.Gt(&t.Max) {
		return errors.Wrapf(errs.InvalidArgument, "tick %q rest exceeds max", t.Tick)
	}
	s.ticks[t.Tick] = t.Clone()
	s.wallets[t.Tick] = make(map[types.Address]*entity.Wallet)
	s.dirtyTicks[t.Tick] = struct{}{}
	return nil
}

// Mint credits amt to the wallet and takes it from the tick's remaining supply.
// Nothing changes on error.
func (s *Store) Mint(tick string, to types.Address, amt *uint256.Int, txHash types.Hash) error {
	t, ok := s.ticks[tick]
	if !ok {
		return errors.Wrapf(errs.NotFound, "tick %q", tick)
	}
	var rest uint256.Int
	if _, underflow := rest.SubOverflow(&t.Rest, amt); underflow {
		return errors.Wrapf(errs.Overflow, "mint of %s exceeds remaining supply of %q", amt.Dec(), tick)
	}
	var balance uint256.Int
	if w, ok := s.wallets[tick][to]; ok {
		balance = w.Amount
	}
	if _, overflow := balance.AddOverflow(&balance, amt); overflow {
		return errors.Wrapf(errs.Overflow, "balance of %s in %q overflows", to, tick)
	}

	t.Rest = rest
	s.dirtyTicks[tick] = struct{}{}
	s.credit(tick, to, &balance, txHash)
	return nil
}

// Transfer moves amt between two wallets of a tick. A sender wallet drained
// to zero is removed. Nothing changes on error.
func (s *Store) Transfer(tick string, from, to types.Address, amt *uint256.Int, txHash types.Hash) error {
	wallets, ok := s.wallets[tick]
	if !ok {
		return errors.Wrapf(errs.NotFound, "tick %q", tick)
	}
	src, ok := wallets[from]
	if !ok {
		return errors.Wrapf(errs.NotFound, "wallet %s of %q", from, tick)
	}
	var srcBalance uint256.Int
	if _, underflow := srcBalance.SubOverflow(&src.Amount, amt); underflow {
		return errors.Wrapf(errs.Overflow, "balance of %s in %q is less than %s", from, tick, amt.Dec())
	}
	var dstBalance uint256.Int
	if from == to {
		dstBalance = srcBalance
	} else if dst, ok := wallets[to]; ok {
		dstBalance = dst.Amount
	}
	if _, overflow := dstBalance.AddOverflow(&dstBalance, amt); overflow {
		return errors.Wrapf(errs.Overflow, "balance of %s in %q overflows", to, tick)
	}

	if srcBalance.IsZero() {
		key := entity.WalletKey{Tick: tick, Address: from}
		delete(wallets, from)
		delete(s.dirtyWallets, key)
		s.deletedWallets[key] = struct{}{}
	} else {
		src.Amount = srcBalance
		src.LastTxHash = txHash
		s.dirtyWallets[src.Key()] = struct{}{}
	}
	s.credit(tick, to, &dstBalance, txHash)
	return nil
}

func (s *Store) credit(tick string, addr types.Address, balance *uint256.Int, txHash types.Hash) {
	key := entity.WalletKey{Tick: tick, Address: addr}
	w, ok := s.wallets[tick][addr]
	if !ok {
		delete(s.deletedWallets, key)
		w = &entity.Wallet{Tick: tick, Address: addr}
		s.wallets[tick][addr] = w
	}
	w.Amount = *balance
	w.LastTxHash = txHash
	s.dirtyWallets[key] = struct{}{}
}

// Import replaces the whole ledger. Change tracking is reset.
func (s *Store) Import(ticks []*entity.Tick, wallets []*entity.Wallet) error {
	fresh := New()
	for _, t := range ticks {
		if err := fresh.Deploy(t); err != nil {
			return errors.WithStack(err)
		}
	}
	for _, w := range wallets {
		byAddr, ok := fresh.wallets[w.Tick]
		if !ok {
			return errors.Wrapf(errs.NotFound, "wallet %s refers to unknown tick %q", w.Address, w.Tick)
		}
		if w.Amount.IsZero() {
			return errors.Wrapf(errs.InvalidArgument, "wallet %s of %q has zero balance", w.Address, w.Tick)
		}
		if _, ok := byAddr[w.Address]; ok {
			return errors.Wrapf(errs.ConflictSetting, "duplicate wallet %s of %q", w.Address, w.Tick)
		}
		byAddr[w.Address] = w.Clone()
	}
	fresh.ClearChanges()
	*s = *fresh
	return nil
}

// MarkAllDirty schedules every entry for the next flush.
func (s *Store) MarkAllDirty() {
	for tick, byAddr := range s.wallets {
		s.dirtyTicks[tick] = struct{}{}
		for addr := range byAddr {
			s.dirtyWallets[entity.WalletKey{Tick: tick, Address: addr}] = struct{}{}
		}
	}
}

func (s *Store) HasChanges() bool {
	return len(s.dirtyTicks) > 0 || len(s.dirtyWallets) > 0 || len(s.deletedWallets) > 0
}

// Changes returns copies of every pending change in deterministic order.
func (s *Store) Changes() ChangeSet {
	cs := ChangeSet{
		DeletedWallets: make([]entity.WalletKey, 0, len(s.deletedWallets)),
		Ticks:          make([]*entity.Tick, 0, len(s.dirtyTicks)),
		Wallets:        make([]*entity.Wallet, 0, len(s.dirtyWallets)),
	}
	for key := range s.deletedWallets {
		cs.DeletedWallets = append(cs.DeletedWallets, key)
	}
	sort.Slice(cs.DeletedWallets, func(i, j int) bool {
		return compareKeys(cs.DeletedWallets[i], cs.DeletedWallets[j]) < 0
	})
	for tick := range s.dirtyTicks {
		cs.Ticks = append(cs.Ticks, s.ticks[tick].Clone())
	}
	sort.Slice(cs.Ticks, func(i, j int) bool { return cs.Ticks[i].Tick < cs.Ticks[j].Tick })
	for key := range s.dirtyWallets {
		cs.Wallets = append(cs.Wallets, s.wallets[key.Tick][key.Address].Clone())
	}
	sortWallets(cs.Wallets)
	return cs
}

func (s *Store) ClearChanges() {
	clear(s.dirtyTicks)
	clear(s.dirtyWallets)
	clear(s.deletedWallets)
}

// Flush sends pending changes to the sink and forgets them once the sink accepted all of them.
func (s *Store) Flush(ctx context.Context, sink Sink) error {
	if !s.HasChanges() {
		return nil
	}
	if err := s.Changes().Apply(ctx, sink); err != nil {
		return errors.WithStack(err)
	}
	s.ClearChanges()
	return nil
}

type ChangeSet struct {
	DeletedWallets []entity.WalletKey
	Ticks          []*entity.Tick
	Wallets        []*entity.Wallet
}

func (c ChangeSet) IsEmpty() bool {
	return len(c.DeletedWallets) == 0 && len(c.Ticks) == 0 && len(c.Wallets) == 0
}

// Apply writes deletions first, then ticks, then wallets.
func (c ChangeSet) Apply(ctx context.Context, sink Sink) error {
	if len(c.DeletedWallets) > 0 {
		if err := sink.DeleteWallets(ctx, c.DeletedWallets); err != nil {
			return errors.Wrap(err, "failed to delete wallets")
		}
	}
	if len(c.Ticks) > 0 {
		if err := sink.UpsertTicks(ctx, c.Ticks); err != nil {
			return errors.Wrap(err, "failed to upsert ticks")
		}
	}
	if len(c.Wallets) > 0 {
		if err := sink.UpsertWallets(ctx, c.Wallets); err != nil {
			return errors.Wrap(err, "failed to upsert wallets")
		}
	}
	return nil
}

func compareAddresses(a, b types.Address) int {
	switch {
	case a.Workchain < b.Workchain:
		return -1
	case a.Workchain > b.Workchain:
		return 1
	}
	return bytes.Compare(a.Account[:], b.Account[:])
}

func compareKeys(a, b entity.WalletKey) int {
	switch {
	case a.Tick < b.Tick:
		return -1
	case a.Tick > b.Tick:
		return 1
	}
	return compareAddresses(a.Address, b.Address)
}

func sortWallets(wallets []*entity.Wallet) {
	sort.Slice(wallets, func(i, j int) bool {
		return compareKeys(wallets[i].Key(), wallets[j].Key()) < 0
	})
}
