// Package testing flips the runtime into test mode before any package
// under test initializes, keeping the suite away from real Postgres and
// Redis. Import it blank from external test packages.
package testing

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("MERIDIAN_TEST_MODE") == "" {
			_ = os.Setenv("MERIDIAN_TEST_MODE", "1")
		}
	})
}
