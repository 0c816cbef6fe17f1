// Package session persists the last list query of each admin session per
// screen in Redis, so a screen opened without query parameters comes back
// the way the admin left it.
//
// Keys have the form
//
//	shop-admin:session:<session id>:<screen>
//
// and expire after the configured TTL. Every Save refreshes the TTL.
package session
