// Package ledger persists which handles an account has already processed,
// so repeated runs skip accounts that were followed or blocked before.
// Ledgers are stored as JSON under the per-OS user data directory and
// written atomically.
package ledger
