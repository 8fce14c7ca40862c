//go:build integration

package testdb

import "os"

const (
	EnvTestDatabaseURL = "BOOKLIB_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// ciVariables are set by the common CI providers.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// URL returns the test database URL, or "" when none is configured.
func URL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsCI reports whether the tests run under a CI provider.
func IsCI() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
