// Package model defines the domain entities of the conference schedule
// cache: conferences, days, rooms, session tracks, sessions, speakers,
// speaker images, favorites and the settings record.
//
// Entities are plain records keyed by a stable domain key (an integer id
// from the remote feed, or a locally generated one for seeded and synthetic
// records). Relationships are persisted as lists of foreign keys and
// materialized into live pointers only through an explicit resolve pass;
// a boolean per relationship guards against double resolution. This keeps
// the persisted JSON flat and free of reference cycles.
//
// All entities are exclusively owned by a store.Store. No entity is ever
// referenced from two independently-lifetimed owners.
package model
