// Package chain implements the chain state manager: an append-only,
// hash-linked ordered log of documents, owning its own logical clock, with
// integrity verification and a cached, invalidate-on-append fork table.
package chain

import (
	"encoding/json"
	"sort"

	"github.com/nzcore-labs/nzcore/pkg/clock"
	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/fork"
	"github.com/nzcore-labs/nzcore/pkg/identity"
	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// State is the authoritative chain: documents, the last-hash pointer, the
// owned logical clock, and a fork cache invalidated on every append.
type State struct {
	chainID      string
	documents    map[string]*document.Document
	order        []string // insertion order, by id
	lastHash     string
	clock        *clock.Clock
	forkCache    []fork.Info
	forkCacheSet bool
}

// New constructs an empty chain state manager for chainID, with its clock
// starting at initialTime.
func New(chainID string, initialTime uint64) (*State, error) {
	c, err := clock.New(initialTime)
	if err != nil {
		return nil, err
	}
	return &State{
		chainID:   chainID,
		documents: make(map[string]*document.Document),
		lastHash:  document.ZeroHash,
		clock:     c,
	}, nil
}

// ChainID returns the manager's chain id.
func (s *State) ChainID() string {
	return s.chainID
}

// LastHash returns the id of the most recently appended document, or the
// zero hash if the chain is empty.
func (s *State) LastHash() string {
	return s.lastHash
}

// Clock returns the chain's owned logical clock.
func (s *State) Clock() *clock.Clock {
	return s.clock
}

// Append inserts doc into the chain. The logical clock is ticked by the
// caller before building doc (its logical_time already reflects that
// tick) — Append itself only records the insertion and moves last_hash
// forward. Forks (a parent_hash shared by more than one document) are not
// detected incrementally — the fork cache is simply invalidated here, and
// the next DetectForks call re-scans the full document set, which
// naturally picks up any sibling introduced by this append.
func (s *State) Append(doc *document.Document) error {
	if doc.ChainID != s.chainID {
		return nzerr.Wrap(nzerr.ErrValidationFailed, "document chain_id does not match chain state",
			"expected", s.chainID, "got", doc.ChainID)
	}

	s.documents[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	s.lastHash = doc.ID
	s.forkCacheSet = false
	return nil
}

// Documents returns all documents sorted by logical_time.
func (s *State) Documents() []*document.Document {
	docs := make([]*document.Document, 0, len(s.documents))
	for _, id := range s.order {
		docs = append(docs, s.documents[id])
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].LogicalTime < docs[j].LogicalTime
	})
	return docs
}

// DetectForks runs the fork scan over the current document set (each result
// is stamped with the highest logical_time among its group's documents, see
// fork.Scan) and caches the result until the next append.
func (s *State) DetectForks() []fork.Info {
	if s.forkCacheSet {
		return s.forkCache
	}
	forks := fork.Scan(s.Documents())
	s.forkCache = forks
	s.forkCacheSet = true
	return forks
}

// VerifyIntegrity re-walks the chain in logical_time order and confirms
// every parent_hash/id linkage matches the identity-derivation function.
func (s *State) VerifyIntegrity() bool {
	prev := document.ZeroHash
	for _, doc := range s.Documents() {
		if doc.ParentHash != prev {
			return false
		}
		if doc.LogicalTime > 0xffffffff {
			return false
		}
		recomputed, err := identity.DeriveDocumentID(s.chainID, doc.ParentHash, uint32(doc.LogicalTime))
		if err != nil {
			return false
		}
		if recomputed != doc.ID {
			return false
		}
		prev = doc.ID
	}
	return true
}

// Get returns the document with the given id, if present.
func (s *State) Get(id string) (*document.Document, bool) {
	d, ok := s.documents[id]
	return d, ok
}

// Page describes a sorted, sliced, counted view over the chain's documents.
type Page struct {
	Documents []*document.Document
	Total     int
	HasMore   bool
}

// Paginate returns a window over the chain's documents sorted by
// logical_time (the default) with explicit limit/offset. A limit of 0
// means unbounded.
func (s *State) Paginate(limit, offset int) Page {
	all := s.Documents()
	total := len(all)

	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return Page{
		Documents: all[offset:end],
		Total:     total,
		HasMore:   end < total,
	}
}

// ByType returns all documents of the given type, sorted by logical_time.
func (s *State) ByType(docType string) []*document.Document {
	var out []*document.Document
	for _, doc := range s.Documents() {
		if doc.Type == docType {
			out = append(out, doc)
		}
	}
	return out
}

// exportBlob is the wire form of exported chain state:
// {chainId, lastHash, clock: {logical_clock, version}, documents: [[id, doc], …], forks: [[parent_hash, fork], …]}.
type exportBlob struct {
	ChainID   string              `json:"chainId"`
	LastHash  string              `json:"lastHash"`
	Clock     *clock.Clock        `json:"clock"`
	Documents [][2]json.RawMessage `json:"documents"`
	Forks     [][2]json.RawMessage `json:"forks"`
}

// Export serializes the chain state to a self-describing byte blob.
func (s *State) Export() ([]byte, error) {
	docs := make([][2]json.RawMessage, 0, len(s.order))
	for _, id := range s.order {
		idJSON, err := json.Marshal(id)
		if err != nil {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to marshal document id", "cause", err.Error())
		}
		docJSON, err := json.Marshal(s.documents[id])
		if err != nil {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to marshal document", "cause", err.Error())
		}
		docs = append(docs, [2]json.RawMessage{idJSON, docJSON})
	}

	forks := s.DetectForks()
	forkPairs := make([][2]json.RawMessage, 0, len(forks))
	for _, f := range forks {
		keyJSON, err := json.Marshal(f.ParentHash)
		if err != nil {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to marshal fork key", "cause", err.Error())
		}
		valJSON, err := json.Marshal(f)
		if err != nil {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to marshal fork", "cause", err.Error())
		}
		forkPairs = append(forkPairs, [2]json.RawMessage{keyJSON, valJSON})
	}

	blob := exportBlob{
		ChainID:   s.chainID,
		LastHash:  s.lastHash,
		Clock:     s.clock,
		Documents: docs,
		Forks:     forkPairs,
	}
	return json.Marshal(blob)
}

// Import restores chain state from a blob previously produced by Export.
// It rejects the blob if its chain id does not match expectedChainID.
func Import(data []byte, expectedChainID string) (*State, error) {
	var blob exportBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "malformed state export", "cause", err.Error())
	}
	if blob.ChainID != expectedChainID {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "chain id mismatch on import",
			"expected", expectedChainID, "got", blob.ChainID)
	}

	s := &State{
		chainID:   blob.ChainID,
		documents: make(map[string]*document.Document, len(blob.Documents)),
		lastHash:  blob.LastHash,
		clock:     blob.Clock,
	}

	for _, pair := range blob.Documents {
		var id string
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "malformed document id in export", "cause", err.Error())
		}
		var doc document.Document
		if err := json.Unmarshal(pair[1], &doc); err != nil {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "malformed document in export", "cause", err.Error())
		}
		s.documents[id] = &doc
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool {
		return s.documents[s.order[i]].LogicalTime < s.documents[s.order[j]].LogicalTime
	})

	return s, nil
}
