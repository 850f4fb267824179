// Package clientstate holds small key/value entries persisted on behalf of
// a single client. Writes are last-write-wins and an absent key means the
// default.
package clientstate

import "errors"

const (
	KeySidebarCollapsed  = "devmart_sidebar_collapsed"
	KeyLastContactSubmit = "devmart_last_contact_submit"
)

var ErrClientUnknown = errors.New("client identity unknown")

type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}
