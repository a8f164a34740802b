package ports

import "time"

// RealClock is the production Clock: time.Now(), nothing more.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }
