// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/textlab/corpus-engine/pkg/types"
)

// Hash algorithms accepted by ContentHash.
const (
	HashMD5    = "md5"
	HashSHA256 = "sha256"
)

// ContentHash computes a hex digest of text normalized for hashing:
// lowercased with whitespace runs collapsed to single spaces. This
// normalization is narrower than the normtext pipeline and is never
// persisted. Unknown algorithms are a configuration error.
func ContentHash(text, algorithm string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	switch algorithm {
	case HashMD5:
		sum := md5.Sum([]byte(normalized))
		return hex.EncodeToString(sum[:]), nil
	case HashSHA256:
		sum := sha256.Sum256([]byte(normalized))
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("unknown hash algorithm: %q", algorithm)
	}
}

// RemoveExact drops records whose hashing-normalized text collides with an
// earlier (keep=first) or later (keep=last) record. The relative order of
// retained records is preserved, and len(result) + removed == len(col).
func RemoveExact(col types.Collection, keep types.KeepPolicy) (types.Collection, int, error) {
	if !keep.Valid() {
		return nil, 0, fmt.Errorf("invalid keep policy: %q", keep)
	}

	hashes := make([]string, len(col))
	chosen := make(map[string]int, len(col))
	for i, r := range col {
		h, err := ContentHash(r.Text, HashMD5)
		if err != nil {
			return nil, 0, err
		}
		hashes[i] = h
		if keep == types.KeepLast {
			chosen[h] = i
			continue
		}
		if _, ok := chosen[h]; !ok {
			chosen[h] = i
		}
	}

	out := make(types.Collection, 0, len(chosen))
	for i, r := range col {
		if chosen[hashes[i]] == i {
			out = append(out, r)
		}
	}

	return out, len(col) - len(out), nil
}
