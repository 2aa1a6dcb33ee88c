// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package role maps a storage policy bucket to a platform root directory and
// a backup/eviction policy. A role answers two questions for a file group:
// where do its files live, and should they survive backups and cache
// eviction.
package role

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrConfig marks configuration errors: an unresolvable well-known
// directory, an unknown role kind, or an invalid shared-container
// identifier. These indicate a build or deployment defect rather than a
// transient filesystem state, and are surfaced at group construction time.
var ErrConfig = errors.New("invalid storage configuration")

// Kind enumerates the supported policy buckets.
type Kind int

const (
	KindUnknown Kind = iota
	KindCache                // discardable derived data
	KindInternalData         // app-managed state, not user-visible
	KindExposedUserData      // user-visible documents
	KindAppGroup             // shared container, addressed by identifier
	KindTemporary            // scratch space, never backed up
)

// String returns the canonical config-file spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindCache:
		return "cache"
	case KindInternalData:
		return "internal-data"
	case KindExposedUserData:
		return "exposed-user-data"
	case KindAppGroup:
		return "app-group"
	case KindTemporary:
		return "temporary"
	default:
		return "unknown"
	}
}

// ParseKind parses the config-file spelling of a role kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cache":
		return KindCache, nil
	case "internal-data":
		return KindInternalData, nil
	case "exposed-user-data":
		return KindExposedUserData, nil
	case "app-group":
		return KindAppGroup, nil
	case "temporary":
		return KindTemporary, nil
	default:
		return KindUnknown, errors.Errorf("parsing role kind %q: %w", s, ErrConfig)
	}
}

// Role is a policy bucket plus its backup flag. Construct roles with the
// helpers below rather than filling in fields by hand.
type Role struct {
	Kind Kind

	// AppGroupID identifies the shared container for KindAppGroup roles.
	AppGroupID string

	// PreserveForBackup includes the role's files in system backups (and,
	// for caches, protects them from eviction). Temporary ignores it: scratch
	// files are never backed up.
	PreserveForBackup bool
}

// Cache returns a role for discardable derived data. Cache contents are
// excluded from backup unless preserve is set.
func Cache(preserve bool) Role {
	return Role{Kind: KindCache, PreserveForBackup: preserve}
}

// InternalData returns a role for app-managed state that is not shown to
// the user.
func InternalData(preserve bool) Role {
	return Role{Kind: KindInternalData, PreserveForBackup: preserve}
}

// ExposedUserData returns a role for user-visible documents.
func ExposedUserData(preserve bool) Role {
	return Role{Kind: KindExposedUserData, PreserveForBackup: preserve}
}

// AppGroup returns a role for a shared container addressed by identifier.
func AppGroup(id string, preserve bool) Role {
	return Role{Kind: KindAppGroup, AppGroupID: id, PreserveForBackup: preserve}
}

// Temporary returns a role for scratch files.
func Temporary() Role {
	return Role{Kind: KindTemporary}
}

// ShouldExcludeFromBackup reports whether files under this role carry the
// backup-exclusion attribute. Temporary is unconditionally excluded.
func (r Role) ShouldExcludeFromBackup() bool {
	if r.Kind == KindTemporary {
		return true
	}
	return !r.PreserveForBackup
}

// Resolve returns the absolute root directory for this role and whether the
// application identifier should be appended as a subfolder. Failures wrap
// ErrConfig: an unresolvable root is a configuration defect, not a
// recoverable runtime condition.
func (r Role) Resolve(loc Locator) (dir string, appendAppID bool, err error) {
	switch r.Kind {
	case KindCache:
		dir, err = loc.CacheDir()
		if err != nil {
			return "", false, errors.Errorf("resolving cache dir: %w: %w", err, ErrConfig)
		}
		return dir, true, nil
	case KindInternalData:
		dir, err = loc.AppSupportDir()
		if err != nil {
			return "", false, errors.Errorf("resolving app support dir: %w: %w", err, ErrConfig)
		}
		return dir, true, nil
	case KindExposedUserData:
		dir, err = loc.DocumentsDir()
		if err != nil {
			return "", false, errors.Errorf("resolving documents dir: %w: %w", err, ErrConfig)
		}
		return dir, false, nil
	case KindAppGroup:
		dir, err = loc.AppGroupDir(r.AppGroupID)
		if err != nil {
			return "", false, errors.Errorf("resolving app group %q: %w: %w", r.AppGroupID, err, ErrConfig)
		}
		return dir, false, nil
	case KindTemporary:
		return loc.TempDir(), false, nil
	default:
		return "", false, errors.Errorf("resolving role kind %d: %w", r.Kind, ErrConfig)
	}
}

// String returns a compact description for logging.
func (r Role) String() string {
	if r.Kind == KindAppGroup {
		return "app-group(" + r.AppGroupID + ")"
	}
	return r.Kind.String()
}
