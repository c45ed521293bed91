// Package version decides whether a schedule update is warranted by
// comparing the remote API version against the locally stored one.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/confsched/schedsync/internal/model"
)

// Result is the outcome of a version check.
type Result int

const (
	// NoUpdateRequired: the local schedule is current.
	NoUpdateRequired Result = iota
	// UpdateAvailable: the remote schedule is newer, or the local state
	// forces a sync (first run, pre-migration schema).
	UpdateAvailable
)

func (r Result) String() string {
	switch r {
	case NoUpdateRequired:
		return "no update required"
	case UpdateAvailable:
		return "update available"
	default:
		return "unknown"
	}
}

// parse splits a "major.minor" version string into its two integer
// components.
func parse(v string) (major, minor int, err error) {
	parts := strings.Split(v, ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("version %q wrong: expected major.minor", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("version %q wrong: %w", v, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("version %q wrong: %w", v, err)
	}
	return major, minor, nil
}

// Check compares the stored API version against the freshly fetched
// remote version. A malformed remote version is an error (check failed);
// a missing or malformed local version, or a schema version below the
// current milestone, forces UpdateAvailable unconditionally.
//
// Check never mutates anything; the caller persists the new version only
// after a successful sync.
func Check(localVersion string, localSchemaVersion int, remoteVersion string) (Result, error) {
	remoteMajor, remoteMinor, err := parse(remoteVersion)
	if err != nil {
		return NoUpdateRequired, err
	}

	// First run, or the cache predates the current schema: sync no matter
	// what the versions say.
	if localVersion == "" {
		return UpdateAvailable, nil
	}
	if localSchemaVersion < model.SchemaVersionCurrent {
		return UpdateAvailable, nil
	}

	localMajor, localMinor, err := parse(localVersion)
	if err != nil {
		// A corrupt stored version cannot be compared; resync.
		return UpdateAvailable, nil
	}

	if localMajor > remoteMajor {
		return NoUpdateRequired, nil
	}
	if localMajor < remoteMajor {
		return UpdateAvailable, nil
	}
	if localMinor < remoteMinor {
		return UpdateAvailable, nil
	}
	return NoUpdateRequired, nil
}
