// Package fork implements stateless fork detection over a document set:
// grouping by parent hash, fork record construction, and manual resolution
// primitives. No automatic resolution is ever performed here.
package fork

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// Info records that more than one document shares a parent hash.
type Info struct {
	ParentHash string   `json:"parent_hash"`
	IDs        []string `json:"ids"`
	DetectedAt uint64   `json:"detected_at"`
	Resolved   bool     `json:"resolved"`
	Resolution string   `json:"resolution,omitempty"`

	// correlationID is an in-memory-only token assigned to each entry by
	// Scan; it is never serialized or signed.
	correlationID string
}

// Scan groups docs by parent_hash and emits a fork entry for every group of
// size 2 or more. Entries are returned sorted by DetectedAt ascending.
func Scan(docs []*document.Document) []Info {
	groups := make(map[string][]*document.Document)
	for _, d := range docs {
		groups[d.ParentHash] = append(groups[d.ParentHash], d)
	}

	var forks []Info
	for parentHash, group := range groups {
		if len(group) < 2 {
			continue
		}

		ids := make([]string, 0, len(group))
		maxTime := uint64(0)
		for _, d := range group {
			ids = append(ids, d.ID)
			if d.LogicalTime > maxTime {
				maxTime = d.LogicalTime
			}
		}
		sort.Strings(ids)

		forks = append(forks, Info{
			ParentHash:    parentHash,
			IDs:           ids,
			DetectedAt:    maxTime,
			Resolved:      false,
			correlationID: uuid.NewString(),
		})
	}

	sort.Slice(forks, func(i, j int) bool {
		return forks[i].DetectedAt < forks[j].DetectedAt
	})
	return forks
}

// CreateMergeDocument returns a partial document of type "merge" referencing
// the conflicting document ids. It never marks itself as resolved — a merge
// document is a proposal, not an automatic resolution.
func CreateMergeDocument(conflictHashes []string, resolution map[string]interface{}) (*document.Builder, error) {
	if len(conflictHashes) < 2 {
		return nil, nzerr.Wrap(nzerr.ErrForkDetected, "at least two conflicting hashes are required to create a merge document")
	}

	b := document.NewBuilder().WithType("merge")
	b.AddField("conflicts", append([]string(nil), conflictHashes...))
	if resolution != nil {
		b.AddField("resolution_payload", resolution)
	}
	return b, nil
}

// IsForkActive reports whether more than one of the fork's branches still
// appears in, or is referenced as a parent by, the current document set.
func IsForkActive(f Info, currentDocs []*document.Document) bool {
	present := make(map[string]bool, len(f.IDs))
	for _, id := range f.IDs {
		present[id] = false
	}

	for _, d := range currentDocs {
		if _, ok := present[d.ID]; ok {
			present[d.ID] = true
		}
		if _, ok := present[d.ParentHash]; ok {
			present[d.ParentHash] = true
		}
	}

	count := 0
	for _, seen := range present {
		if seen {
			count++
		}
	}
	return count > 1
}

// ResolveFork returns a copy of f marked resolved, referencing
// resolutionDocID. This is the only way a fork transitions to resolved —
// the core never does this on its own.
func ResolveFork(f Info, resolutionDocID string) Info {
	resolved := f
	resolved.Resolved = true
	resolved.Resolution = resolutionDocID
	return resolved
}
