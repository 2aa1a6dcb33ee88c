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

//go:build linux || darwin

package attrs

import (
	"golang.org/x/sys/unix"
)

// xattrNoBackup marks a path as excluded from backups. The user namespace
// keeps the attribute writable without privileges.
const xattrNoBackup = "user.stash.nobackup"

func setBackupExclusion(path string, exclude bool) error {
	if exclude {
		err := unix.Setxattr(path, xattrNoBackup, []byte("1"), 0)
		if err == unix.ENOTSUP {
			// Filesystem without user xattrs keeps only the permission
			// half of the policy.
			return nil
		}
		return err
	}
	err := unix.Removexattr(path, xattrNoBackup)
	if err == nil || err == errNoAttr || err == unix.ENOTSUP {
		return nil
	}
	return err
}

func backupExclusion(path string) (bool, error) {
	_, err := unix.Getxattr(path, xattrNoBackup, nil)
	if err == nil {
		return true, nil
	}
	if err == errNoAttr || err == unix.ENOTSUP {
		return false, nil
	}
	return false, err
}
