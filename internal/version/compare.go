package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// CheckCompatibility checks whether a record written by recordVersion can be
// loaded by currentVersion.
//
// Rules:
//   - "main" on either side is a development build and skips the check
//   - major and minor versions must match
//   - patch versions may differ (1.2.0 reads records of 1.2.5)
func CheckCompatibility(currentVersion, recordVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	recordVersion = strings.TrimPrefix(recordVersion, "v")

	if currentVersion == "main" || recordVersion == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid current version '%s'", currentVersion)
	}

	record, err := semver.NewVersion(recordVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid record version '%s'", recordVersion)
	}

	if current.Major() != record.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: running %d.x.x but record was written by %d.x.x",
			current.Major(), record.Major())
	}

	if current.Minor() != record.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: running %d.%d.x but record was written by %d.%d.x",
			current.Major(), current.Minor(), record.Major(), record.Minor())
	}

	return nil
}
