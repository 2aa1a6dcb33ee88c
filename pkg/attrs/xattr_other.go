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

//go:build !linux && !darwin

package attrs

// Platforms without extended-attribute support keep only the permission
// half of the policy; the backup-exclusion flag reads back as unset.

func setBackupExclusion(path string, exclude bool) error {
	return nil
}

func backupExclusion(path string) (bool, error) {
	return false, nil
}
