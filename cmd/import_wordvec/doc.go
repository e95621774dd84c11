// Package main converts a word2vec text or binary table into the sqlite
// table format, which serves lookups from disk through a read cache.
package main
