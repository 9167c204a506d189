package postgres

const (
	getLatestIndexerState = `SELECT client_version, db_version, snapshot_version, created_at
FROM ton20_indexer_states ORDER BY created_at DESC, id DESC LIMIT 1`

	createIndexerState = `INSERT INTO ton20_indexer_states (client_version, db_version, snapshot_version)
VALUES ($1, $2, $3)`

	getAccount = `SELECT address, is_contract_wallet, account_blacklist, smc_hash
FROM ton20_account_cache WHERE address = $1`

	getLatestSnapshot = `SELECT state_hash, lt, tx_hash, mc_ref_seqno, state_bytes, admission_state, created_at
FROM ton20_state_snapshots ORDER BY lt DESC, tx_hash DESC LIMIT 1`

	createSnapshot = `INSERT INTO ton20_state_snapshots (state_hash, lt, tx_hash, mc_ref_seqno, state_bytes, admission_state)
VALUES ($1, $2, $3, $4, $5, $6)`

	selectTicks = `SELECT tick, max, lim, rest, deploy_by, deploy_tx_hash FROM ton20_ticks`

	getTick = selectTicks + ` WHERE tick = $1`

	getAllTicks = selectTicks + ` ORDER BY tick`

	getTicksByTicks = selectTicks + ` WHERE tick = ANY($1::TEXT[]) ORDER BY tick`

	upsertTick = `INSERT INTO ton20_ticks (tick, max, lim, rest, deploy_by, deploy_tx_hash)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tick) DO UPDATE SET max = EXCLUDED.max, lim = EXCLUDED.lim, rest = EXCLUDED.rest,
	deploy_by = EXCLUDED.deploy_by, deploy_tx_hash = EXCLUDED.deploy_tx_hash`

	selectWallets = `SELECT tick, wallet, amount, last_tx_hash FROM ton20_wallets`

	getWallet = selectWallets + ` WHERE tick = $1 AND wallet = $2`

	getWalletsByAddress = selectWallets + ` WHERE wallet = $1 ORDER BY tick`

	getHoldersByTick = selectWallets + ` WHERE tick = $1 ORDER BY amount DESC, wallet LIMIT $2 OFFSET $3`

	countHoldersByTick = `SELECT COUNT(*) FROM ton20_wallets WHERE tick = $1`

	upsertWallet = `INSERT INTO ton20_wallets (tick, wallet, amount, last_tx_hash)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tick, wallet) DO UPDATE SET amount = EXCLUDED.amount, last_tx_hash = EXCLUDED.last_tx_hash`

	deleteWallet = `DELETE FROM ton20_wallets WHERE tick = $1 AND wallet = $2`

	resetWallets = `DELETE FROM ton20_wallets`

	resetTicks = `DELETE FROM ton20_ticks`

	selectTransactionStatuses = `SELECT tx_hash, success, fail_reason, lt, op_code, tick, initiator,
	mint_amount, transfer_amount, transfer_to, memo
FROM ton20_transaction_statuses`

	getTransactionStatus = selectTransactionStatuses + ` WHERE tx_hash = $1`

	// $2 success filter, $3 op_code filter; NULL disables the filter.
	getTransactionStatusesByInitiator = selectTransactionStatuses + `
WHERE initiator = $1
	AND ($2::BOOLEAN IS NULL OR success = $2)
	AND ($3::TEXT IS NULL OR op_code = $3)
ORDER BY lt DESC, tx_hash DESC LIMIT $4 OFFSET $5`

	getTransactionStatusesByTick = selectTransactionStatuses + `
WHERE tick = $1
	AND ($2::BOOLEAN IS NULL OR success = $2)
	AND ($3::TEXT IS NULL OR op_code = $3)
ORDER BY lt DESC, tx_hash DESC LIMIT $4 OFFSET $5`
)

var transactionStatusColumns = []string{
	"tx_hash", "success", "fail_reason", "lt", "op_code", "tick", "initiator",
	"mint_amount", "transfer_amount", "transfer_to", "memo",
}
