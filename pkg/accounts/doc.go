// Package accounts manages the candidate and target account files: the
// list of handles queued for following and the accounts whose followers
// are harvested to grow that list.
package accounts
