package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// Multiset is an unordered collection of byte slices with a rolling
// hash. Elements may be added and removed in any order, and two
// multisets holding the same elements hash to the same value.
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Serialize() []byte
	Clone() Multiset
}
