package config

import "strconv"

// UIConfig holds settings for the browser-facing layer.
type UIConfig interface {
	GetStoreCookieName() string
	GetStoreCookieMaxAge() int
}

const (
	storeCookieNameVar   = "STORE_COOKIE_NAME"
	storeCookieMaxAgeVar = "STORE_COOKIE_MAX_AGE"
)

type UI struct{}

var _ UIConfig = UI{}

// GetStoreCookieName is the cookie that ties a browser to its server-side
// key-value store (the browser-storage analog).
func (UI) GetStoreCookieName() string {
	return GetEnv(storeCookieNameVar, "store_id")
}

// GetStoreCookieMaxAge is the cookie lifetime in seconds. Defaults to 30 days.
func (UI) GetStoreCookieMaxAge() int {
	v := GetEnv(storeCookieMaxAgeVar, "2592000")
	maxAge, err := strconv.Atoi(v)
	if err != nil {
		return 2592000
	}
	return maxAge
}
