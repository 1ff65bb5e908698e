package student

import "time"

// SetNow replaces the registration clock until the returned func is called.
func SetNow(now func() time.Time) (reset func()) {
	nowFunc = now
	return func() { nowFunc = time.Now }
}
