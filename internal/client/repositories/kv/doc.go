// Package kv provides the client-side key-value persistence used to hold the
// generated-identifier history.
//
// # Overview
//
// Repository is the storage collaborator: Get, Set, Delete and an atomic
// read-modify-write Update. The history lives under a single key, so the
// interface deliberately knows nothing about entries.
//
// Two implementations are provided:
//
//   - SQLiteRepository stores rows in the kv table (created by the goose
//     migration in internal/client/migrations). Update runs inside a
//     transaction via dbx.WithTx.
//   - DocumentRepository stores one JSON object per key on an afs file
//     system. Update is serialized by an in-process mutex only.
//
// Typical Usage
//
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "oibHistory", []byte("[]"))
//	v, _ := repo.Get(ctx, "oibHistory")
//	_ = repo.Update(ctx, "oibHistory", func(old []byte) ([]byte, error) { return old, nil })
//	_ = repo.Delete(ctx, "oibHistory")
package kv
