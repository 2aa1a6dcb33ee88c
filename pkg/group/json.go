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

package group

import (
	"bytes"
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// LoadJSON reads the file and decodes it into v. Dates are expected in
// RFC 3339, which is what SaveJSON writes.
func (f File) LoadJSON(v any) error {
	data, err := f.LoadData()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Errorf("decoding %s: %w", f.Name(), err)
	}
	return nil
}

// SaveJSON encodes v and writes it via SaveData. The output is canonical:
// pretty-printed, keys sorted ascending, RFC 3339 dates, trailing newline.
// Saving equal values produces byte-identical files, so serialized state
// diffs cleanly across runs.
func (f File) SaveJSON(ctx context.Context, v any) error {
	data, err := marshalCanonical(v)
	if err != nil {
		return errors.Errorf("encoding %s: %w", f.Name(), err)
	}
	return f.SaveData(ctx, data)
}

// marshalCanonical produces deterministic JSON for any encodable value.
// Struct fields keep declaration order in encoding/json, so the value is
// round-tripped through a generic form first; maps always marshal with
// sorted keys. The intermediate decode keeps numbers as json.Number so
// integers past float64 precision survive the sort pass untouched.
func marshalCanonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
