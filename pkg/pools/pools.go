// Package pools provides size-class based slice pooling for the scratch
// buffers used during adjacency construction: varint output buffers, radix
// sort copies, and per-list target staging. Pooling these keeps the hot
// compression path free of per-list allocations.
package pools
