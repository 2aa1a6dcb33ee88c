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

package role

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Locator resolves the well-known platform directories a role can target.
// The default locator follows platform conventions; tests inject one rooted
// in a temp directory.
type Locator interface {
	// CacheDir returns the user cache directory.
	CacheDir() (string, error)
	// AppSupportDir returns the directory for internal application data.
	AppSupportDir() (string, error)
	// DocumentsDir returns the user-visible documents directory.
	DocumentsDir() (string, error)
	// AppGroupDir returns the shared container directory for an identifier.
	AppGroupDir(id string) (string, error)
	// TempDir returns the scratch directory. It always resolves.
	TempDir() string
}

// platformLocator resolves roots via os conventions. Shared containers live
// under sharedRoot, one subdirectory per group identifier.
type platformLocator struct {
	sharedRoot string
}

// DefaultLocator returns the platform locator. Shared containers default to
// <user config dir>/stash-shared; override with NewPlatformLocator when the
// deployment provides a dedicated shared volume.
func DefaultLocator() Locator {
	return platformLocator{}
}

// NewPlatformLocator returns a platform locator with an explicit
// shared-container root.
func NewPlatformLocator(sharedRoot string) Locator {
	return platformLocator{sharedRoot: sharedRoot}
}

func (l platformLocator) CacheDir() (string, error) {
	return os.UserCacheDir()
}

func (l platformLocator) AppSupportDir() (string, error) {
	return os.UserConfigDir()
}

func (l platformLocator) DocumentsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Documents"), nil
}

func (l platformLocator) AppGroupDir(id string) (string, error) {
	if err := ValidateAppGroupID(id); err != nil {
		return "", err
	}
	root := l.sharedRoot
	if root == "" {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(cfg, "stash-shared")
	}
	return filepath.Join(root, id), nil
}

func (l platformLocator) TempDir() string {
	return os.TempDir()
}

// ValidateAppGroupID rejects identifiers that are empty or would escape the
// shared-container root.
func ValidateAppGroupID(id string) error {
	if id == "" {
		return errors.New("app group identifier is empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return errors.Errorf("app group identifier %q contains path separators", id)
	}
	return nil
}
